package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// run executes the CLI against a freshly seeded memory store
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("RECORDS_SEED_DEMO_DATA", "true")
	t.Setenv("LOG_LEVEL", "error")

	var out, logs bytes.Buffer
	app := NewApp(&out, &logs)
	app.ExitErrHandler = func(*cli.Context, error) {}

	argv := append([]string{"records", "--config", "testdata/missing.yaml"}, args...)
	err := app.Run(argv)
	return out.String(), err
}

func exitCodeOf(t *testing.T, err error) int {
	t.Helper()
	var coder cli.ExitCoder
	require.True(t, errors.As(err, &coder), "expected exit error, got %v", err)
	return coder.ExitCode()
}

func TestStudentsCommand(t *testing.T) {
	out, err := run(t, "students")
	require.NoError(t, err)
	assert.Contains(t, out, "Students (3)")
	assert.Contains(t, out, "S001")
	assert.Contains(t, out, "Grace Hopper")
	assert.Contains(t, out, "3.53")
}

func TestCoursesCommand(t *testing.T) {
	out, err := run(t, "courses", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Courses (3)")
	assert.Contains(t, out, "CS201")
	assert.Contains(t, out, "unlimited")
}

func TestTranscriptCommand(t *testing.T) {
	out, err := run(t, "transcript", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Transcript of Ada Lovelace (S001)")
	assert.Contains(t, out, "Calculus I")
	assert.Contains(t, out, "3.53")

	_, err = run(t, "transcript", "99")
	assert.Equal(t, 3, exitCodeOf(t, err))

	_, err = run(t, "transcript")
	assert.Equal(t, 2, exitCodeOf(t, err))
}

func TestRosterCommand(t *testing.T) {
	out, err := run(t, "roster", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Roster of CS201 Data Structures (2/2)")
	assert.Contains(t, out, "S002")
	assert.NotContains(t, out, "S003")
}

func TestGPACommand(t *testing.T) {
	out, err := run(t, "gpa", "--semester", "Fall 2024", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "GPA for Fall 2024")
	assert.Contains(t, out, "4.00")

	out, err = run(t, "gpa", "--semester", "Spring 2024", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "0.00")

	out, err = run(t, "gpa", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "CGPA")
	assert.Contains(t, out, "3.00")
}

func TestEnrollmentsCommand(t *testing.T) {
	out, err := run(t, "enrollments", "--student", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Enrollments (2)")
	assert.Contains(t, out, "Alan Turing")
	assert.NotContains(t, out, "Grace Hopper")
}

func TestMigrateRequiresPostgres(t *testing.T) {
	_, err := run(t, "migrate")
	assert.Equal(t, 2, exitCodeOf(t, err))
}
