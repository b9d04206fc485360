package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

type sample struct {
	Code     string  `json:"code" validate:"required,max=10"`
	Email    string  `json:"email" validate:"required,email"`
	Semester string  `json:"semester" validate:"notblank"`
	Credits  int     `json:"credits" validate:"gt=0"`
	Max      *int    `json:"maxStudents" validate:"omitempty,gt=0"`
	Point    float64 `json:"gradePoint" validate:"gte=0,lte=4"`
}

func valid() sample {
	return sample{Code: "CS101", Email: "a@school.edu", Semester: "Fall 2024", Credits: 3, Point: 3.5}
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(valid()))

	zero := 0
	tests := []struct {
		name  string
		edit  func(*sample)
		field string
	}{
		{"missing code", func(s *sample) { s.Code = "" }, "code"},
		{"long code", func(s *sample) { s.Code = "ABCDEFGHIJK" }, "code"},
		{"bad email", func(s *sample) { s.Email = "not-an-email" }, "email"},
		{"blank semester", func(s *sample) { s.Semester = "   " }, "semester"},
		{"zero credits", func(s *sample) { s.Credits = 0 }, "credits"},
		{"zero capacity", func(s *sample) { s.Max = &zero }, "maxStudents"},
		{"grade too high", func(s *sample) { s.Point = 4.01 }, "gradePoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.edit(&in)
			err := Struct(in)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
			assert.Equal(t, tt.field, apperrors.DetailsOf(err)["field"])
		})
	}
}
