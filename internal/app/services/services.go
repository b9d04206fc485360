// Package services implements the academic records engine: entity
// management, the enrollment manager, the GPA engine and the read-only
// query facade. Every service works against an injected repositories.Store.
package services

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// options are shared by all service constructors
type options struct {
	now    func() time.Time
	logger zerolog.Logger
	hasLog bool
}

// Option configures a service
type Option func(*options)

// WithClock replaces time.Now as the source of created_at and enrollment
// timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger services report mutations to
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
		o.hasLog = true
	}
}

func newOptions(component string, opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasLog {
		o.logger = logger.Component(component)
	}
	return o
}

// timestamp returns the current clock reading in UTC
func (o options) timestamp() time.Time {
	return o.now().UTC()
}

// Services bundles every engine service over one store
type Services struct {
	Students    StudentService
	Courses     CourseService
	Grades      GradeService
	Enrollments EnrollmentService
	GPA         GPAService
	Queries     QueryService
}

// NewServices wires all services to store
func NewServices(store repositories.Store, opts ...Option) *Services {
	return &Services{
		Students:    NewStudentService(store, opts...),
		Courses:     NewCourseService(store, opts...),
		Grades:      NewGradeService(store, opts...),
		Enrollments: NewEnrollmentService(store, opts...),
		GPA:         NewGPAService(store, opts...),
		Queries:     NewQueryService(store, opts...),
	}
}

// optionalString trims s and maps blank values to nil
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
