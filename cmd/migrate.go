package main

import (
	"context"
	"fmt"
	"os"

	"github.com/amosley/joinboard/internal/etl"
	"github.com/amosley/joinboard/internal/formatter"
	"github.com/amosley/joinboard/internal/services"
	"github.com/amosley/joinboard/internal/shared"
	"github.com/amosley/joinboard/internal/ui"
	"github.com/urfave/cli/v3"
)

// MigrateRun runs the full legacy store → SQLite migration.
//
// Exit code 0 means every record migrated, 1 means a fatal fault aborted the
// run, and 2 means the run completed with per-record failures.
func (r *Runner) MigrateRun(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	source := r.source
	if url := cmd.String("source-url"); url != "" {
		source = services.NewFirebaseSource(url, r.httpClient, config.Source.RequestRate)
	}
	if source == nil {
		return cli.Exit(fmt.Sprintf("%v: no legacy store URL configured", shared.ErrMissingConfig), 1)
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return cli.Exit(fmt.Sprintf("failed to run migrations: %v", err), 1)
	}

	users, contacts, tasks := r.repos(db)

	engine := etl.NewEngine(etl.EngineOpts{
		Source:   source,
		Users:    users,
		Contacts: contacts,
		Tasks:    tasks,
		Hasher:   r.hasher,
		Logger:   r.logger,
	})

	r.logger.Info("starting migration", "source", source.Name(), "database", config.Database.Path)
	r.writePlain("Starting legacy store migration...\n\n")

	quiet := cmd.Bool("quiet")

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan etl.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if quiet {
				continue
			}
			switch update.Phase {
			case etl.FetchUsers, etl.FetchContacts, etl.FetchTasks:
				r.writePlain("📥 %s\n", update.Message)
			case etl.MigrateUsers, etl.MigrateContacts, etl.MigrateTasks:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	report, runErr := engine.Run(ctx, progressCh)
	close(progressCh)
	<-done

	if report != nil {
		r.printSummary(report)

		if err := r.exportReport(report, cmd.String("output"), cmd.String("format")); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	if runErr != nil {
		return cli.Exit(fmt.Sprintf("migration aborted: %v", runErr), 1)
	}

	if report.HasFailures() {
		return cli.Exit(fmt.Sprintf("migration completed with %d failures", report.TotalFailed()), 2)
	}

	return nil
}

// printSummary writes the styled console summary for a finished run.
func (r *Runner) printSummary(report *etl.Report) {
	palette := ui.DefaultPalette

	r.writePlain("\n")
	r.writePlainHeader("Migration Summary")
	r.writePlain("%s\n", palette.Help.Render(fmt.Sprintf("Finished in %s", report.Duration().Round(1e6))))

	for _, row := range []struct {
		label string
		count etl.EntityCount
	}{
		{"Users", report.Users},
		{"Contacts", report.Contacts},
		{"Tasks", report.Tasks},
	} {
		line := fmt.Sprintf("%-8s %d/%d migrated", row.label, row.count.Succeeded, row.count.Attempted)
		if row.count.Failed > 0 {
			r.writePlain("%s\n", palette.Warn.Render(line))
		} else {
			r.writePlain("%s\n", palette.OK.Render(line))
		}
	}

	if len(report.Failures) > 0 {
		r.writePlainln("%s", palette.Err.Render(fmt.Sprintf("%d records failed:", len(report.Failures))))
		for _, failure := range report.Failures {
			r.writePlain("  - %s %s: %s\n", failure.Entity, failure.LegacyID, failure.Reason)
		}
	}
}

// exportReport writes the report to a file in the requested format, or prints
// JSON to the output writer when no file is given and a format is requested.
func (r *Runner) exportReport(report *etl.Report, path, format string) error {
	if path == "" {
		return nil
	}

	var data []byte
	var err error

	switch format {
	case "json", "":
		data, err = formatter.ReportToJSON(report, true)
	case "csv":
		data, err = formatter.FailuresToCSV(report)
	case "markdown", "md":
		data, err = formatter.ReportToMarkdown(report)
	case "text":
		data, err = formatter.ReportToText(report)
	default:
		return fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	r.logger.Info("report written", "path", path, "format", format)
	return nil
}
