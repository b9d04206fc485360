package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/bootstrap"
)

const dateLayout = "2006-01-02"

func (r *runner) table(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func gpaString(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func capacityString(c *models.Course) string {
	if c.MaxStudents == nil {
		return "unlimited"
	}
	return strconv.Itoa(*c.MaxStudents)
}

func (r *runner) students(c *cli.Context, deps *bootstrap.Dependencies) error {
	summaries, err := deps.Services.GPA.ListStudentSummaries(c.Context)
	if err != nil {
		return err
	}

	heading(r.out, "Students (%d)", len(summaries))
	table := r.table("ID", "Number", "Name", "Email", "CGPA")
	for _, s := range summaries {
		table.Append([]string{
			strconv.FormatInt(s.ID, 10),
			s.StudentNumber,
			s.FullName(),
			s.Email,
			gpaString(s.CGPA),
		})
	}
	table.Render()
	return nil
}

func (r *runner) courses(c *cli.Context, deps *bootstrap.Dependencies) error {
	var (
		courses []*models.Course
		err     error
	)
	if c.Bool("all") {
		courses, err = deps.Services.Courses.ListCourses(c.Context)
	} else {
		courses, err = deps.Services.Queries.ActiveCourses(c.Context)
	}
	if err != nil {
		return err
	}

	heading(r.out, "Courses (%d)", len(courses))
	table := r.table("ID", "Code", "Title", "Credits", "Capacity", "Active")
	for _, course := range courses {
		table.Append([]string{
			strconv.FormatInt(course.ID, 10),
			course.Code,
			course.Title,
			strconv.Itoa(course.Credits),
			capacityString(course),
			strconv.FormatBool(course.IsActive),
		})
	}
	table.Render()
	return nil
}

func (r *runner) transcript(c *cli.Context, deps *bootstrap.Dependencies) error {
	id, err := idArg(c, "studentId")
	if err != nil {
		return err
	}
	student, err := deps.Services.Students.GetStudent(c.Context, id)
	if err != nil {
		return err
	}
	entries, err := deps.Services.Queries.Transcript(c.Context, id)
	if err != nil {
		return err
	}
	cgpa, err := deps.Services.GPA.ComputeCGPA(c.Context, id)
	if err != nil {
		return err
	}

	heading(r.out, "Transcript of %s (%s)", student.FullName(), student.StudentNumber)
	table := r.table("Semester", "Code", "Title", "Credits", "Grade")
	for _, e := range entries {
		table.Append([]string{
			e.Semester,
			e.Course.Code,
			e.Course.Title,
			strconv.Itoa(e.Course.Credits),
			gpaString(e.GradePoint),
		})
	}
	table.SetFooter([]string{"", "", "", "CGPA", gpaString(cgpa)})
	table.Render()
	return nil
}

func (r *runner) roster(c *cli.Context, deps *bootstrap.Dependencies) error {
	id, err := idArg(c, "courseId")
	if err != nil {
		return err
	}
	course, err := deps.Services.Courses.GetCourse(c.Context, id)
	if err != nil {
		return err
	}
	roster, err := deps.Services.Queries.Roster(c.Context, id)
	if err != nil {
		return err
	}

	heading(r.out, "Roster of %s %s (%d/%s)", course.Code, course.Title, len(roster), capacityString(course))
	table := r.table("Number", "Name", "Email", "Enrolled")
	for _, e := range roster {
		table.Append([]string{
			e.Student.StudentNumber,
			e.Student.FullName(),
			e.Student.Email,
			e.EnrollmentDate.Format(dateLayout),
		})
	}
	table.Render()
	return nil
}

func (r *runner) gpa(c *cli.Context, deps *bootstrap.Dependencies) error {
	id, err := idArg(c, "studentId")
	if err != nil {
		return err
	}

	if c.IsSet("semester") {
		semester := c.String("semester")
		gpa, err := deps.Services.GPA.ComputeSemesterGPA(c.Context, id, semester)
		if err != nil {
			return err
		}
		heading(r.out, "GPA for %s", semester)
		fmt.Fprintln(r.out, gpaString(gpa))
		return nil
	}

	cgpa, err := deps.Services.GPA.ComputeCGPA(c.Context, id)
	if err != nil {
		return err
	}
	heading(r.out, "CGPA")
	fmt.Fprintln(r.out, gpaString(cgpa))
	return nil
}

func (r *runner) enrollments(c *cli.Context, deps *bootstrap.Dependencies) error {
	enrollments, err := deps.Services.Enrollments.ListEnrollments(c.Context, enrollmentFilter(c))
	if err != nil {
		return err
	}

	heading(r.out, "Enrollments (%d)", len(enrollments))
	table := r.table("Student", "Name", "Course", "Title", "Enrolled", "Active")
	for _, e := range enrollments {
		table.Append([]string{
			e.StudentNumber,
			e.StudentName,
			e.CourseCode,
			e.CourseTitle,
			e.EnrollmentDate.Format(dateLayout),
			strconv.FormatBool(e.IsActive),
		})
	}
	table.Render()
	return nil
}
