package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/unirecords/internal/app/controllers"
	"github.com/yigit/unirecords/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *controllers.Controllers) {
	router.GET("/health", c.Health.Health)
	router.NoRoute(middleware.NoRoute)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", c.Health.Health)

	students := v1.Group("/students")
	{
		students.POST("", c.Students.CreateStudent)
		students.GET("", c.Students.ListStudents)
		students.GET("/:id", c.Students.GetStudent)
		students.PUT("/:id", c.Students.UpdateStudent)
		students.DELETE("/:id", c.Students.DeleteStudent)
		students.GET("/:id/grades", c.Students.ListGrades)
		students.GET("/:id/transcript", c.Students.Transcript)
		students.GET("/:id/cgpa", c.Students.CGPA)
		students.GET("/:id/gpa", c.Students.SemesterGPA)
	}

	courses := v1.Group("/courses")
	{
		courses.POST("", c.Courses.CreateCourse)
		courses.GET("", c.Courses.ListCourses)
		courses.GET("/:id", c.Courses.GetCourse)
		courses.PUT("/:id", c.Courses.UpdateCourse)
		courses.PATCH("/:id/status", c.Courses.SetStatus)
		courses.DELETE("/:id", c.Courses.DeleteCourse)
		courses.GET("/:id/grades", c.Courses.ListGrades)
		courses.GET("/:id/roster", c.Courses.Roster)
		courses.GET("/:id/enrollment-count", c.Courses.EnrollmentCount)
	}

	enrollments := v1.Group("/enrollments")
	{
		enrollments.POST("", c.Enrollments.Enroll)
		enrollments.GET("", c.Enrollments.ListEnrollments)
		enrollments.GET("/:studentId/:courseId", c.Enrollments.IsEnrolled)
		enrollments.DELETE("/:studentId/:courseId", c.Enrollments.Withdraw)
	}

	grades := v1.Group("/grades")
	{
		grades.POST("", c.Grades.RecordGrade)
		grades.GET("", c.Grades.ListGrades)
	}
}
