// Package cli implements the records command line client
package cli

import (
	"errors"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/bootstrap"
	"github.com/yigit/unirecords/internal/config"
	"github.com/yigit/unirecords/internal/db"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

// NewApp builds the records CLI. Tables go to out, logs to logOut.
func NewApp(out, logOut io.Writer) *cli.App {
	r := &runner{out: out, logOut: logOut}

	return &cli.App{
		Name:  "records",
		Usage: "inspect and maintain academic records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   bootstrap.DefaultConfigPath,
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"RECORDS_CONFIG"},
			},
		},
		Writer:    out,
		ErrWriter: logOut,
		Commands: []*cli.Command{
			{
				Name:   "students",
				Usage:  "list students with their CGPA",
				Action: r.withDeps(r.students),
			},
			{
				Name:  "courses",
				Usage: "list active courses",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "include inactive courses"},
				},
				Action: r.withDeps(r.courses),
			},
			{
				Name:      "transcript",
				Usage:     "print a student's transcript",
				ArgsUsage: "STUDENT_ID",
				Action:    r.withDeps(r.transcript),
			},
			{
				Name:      "roster",
				Usage:     "list students actively enrolled in a course",
				ArgsUsage: "COURSE_ID",
				Action:    r.withDeps(r.roster),
			},
			{
				Name:      "gpa",
				Usage:     "compute a student's CGPA or semester GPA",
				ArgsUsage: "STUDENT_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "semester", Aliases: []string{"s"}, Usage: "semester label, matched exactly"},
				},
				Action: r.withDeps(r.gpa),
			},
			{
				Name:  "enrollments",
				Usage: "list enrollments",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "student", Usage: "only this student id"},
					&cli.Int64Flag{Name: "course", Usage: "only this course id"},
					&cli.BoolFlag{Name: "active", Usage: "only active enrollments"},
				},
				Action: r.withDeps(r.enrollments),
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: r.migrate,
			},
		},
	}
}

type runner struct {
	out    io.Writer
	logOut io.Writer
}

func (r *runner) loadConfig(c *cli.Context) (*config.Config, zerolog.Logger, error) {
	return bootstrap.LoadConfigAndSetupLogger(c.String("config"), r.logOut)
}

// withDeps opens the configured store around a command action
func (r *runner) withDeps(action func(c *cli.Context, deps *bootstrap.Dependencies) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, lgr, err := r.loadConfig(c)
		if err != nil {
			return err
		}
		deps, err := bootstrap.BuildDependencies(c.Context, cfg, lgr)
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := action(c, deps); err != nil {
			return cli.Exit(color.RedString("error: %v", err), exitCode(err))
		}
		return nil
	}
}

func (r *runner) migrate(c *cli.Context) error {
	cfg, _, err := r.loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.UsesMemoryStore() {
		return cli.Exit(color.RedString("error: migrate requires the %s driver", config.DriverPostgres), 2)
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return cli.Exit(color.RedString("error: %v", err), 1)
	}
	defer database.Close()

	if err := bootstrap.Migrate(c.Context, database); err != nil {
		return cli.Exit(color.RedString("error: %v", err), 1)
	}
	color.New(color.FgGreen).Fprintln(r.out, "Migrations applied")
	return nil
}

func idArg(c *cli.Context, name string) (int64, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, apperrors.NewInvalidArgumentError(name, "is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidArgumentError(name, "must be a positive integer")
	}
	return id, nil
}

// exitCode maps error kinds to process exit codes
func exitCode(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return 2
	case errors.Is(err, apperrors.ErrNotFound):
		return 3
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return 4
	default:
		return 1
	}
}

func enrollmentFilter(c *cli.Context) models.EnrollmentFilter {
	var filter models.EnrollmentFilter
	if c.IsSet("student") {
		filter.StudentID = models.Int64Ptr(c.Int64("student"))
	}
	if c.IsSet("course") {
		filter.CourseID = models.Int64Ptr(c.Int64("course"))
	}
	if c.Bool("active") {
		filter.IsActive = models.BoolPtr(true)
	}
	return filter
}

func heading(w io.Writer, format string, args ...interface{}) {
	color.New(color.FgYellow, color.Bold).Fprintf(w, format+"\n", args...)
}
