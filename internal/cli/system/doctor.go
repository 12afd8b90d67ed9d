package system

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitcoach/internal/cli"
	"github.com/julianstephens/habitcoach/internal/constants"
	"github.com/julianstephens/habitcoach/internal/keyring"
	"github.com/julianstephens/habitcoach/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	// warnOnly failures do not fail the run.
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var doctorChecks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Habit integrity", needsDB: true, run: checkHabitsIntegrity},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Settings", run: checkSettings},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
	{name: "AI provider", warnOnly: true, run: checkAIKey},
	{name: "Notification sinks", warnOnly: true, run: checkSinks},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Fprintln(ctx.Out, "Running diagnostics...")
	fmt.Fprintln(ctx.Out)

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Fprintf(ctx.Out, "❌ Database reachable: FAIL\n")
		fmt.Fprintf(ctx.Out, "   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Fprintf(ctx.Out, "✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			fmt.Fprintf(ctx.Out, "⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Fprintf(ctx.Out, "✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Fprintf(ctx.Out, "⚠ %s: WARNING\n", c.name)
			fmt.Fprintf(ctx.Out, "   %v\n", err)
		default:
			fmt.Fprintf(ctx.Out, "❌ %s: FAIL\n", c.name)
			fmt.Fprintf(ctx.Out, "   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Fprintln(ctx.Out)
	if hasError {
		fmt.Fprintln(ctx.Out, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Fprintln(ctx.Out, "All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.ListHabits(context.Background()); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkHabitsIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}

	ids := make(map[string]bool, len(habits))
	for _, h := range habits {
		if ids[h.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", h.ID)
		}
		ids[h.ID] = true

		if strings.TrimSpace(h.Title) == "" {
			return fmt.Errorf("habit %s has a blank title", h.ID)
		}
		if h.CreatedAt.IsZero() {
			return fmt.Errorf("habit %s has a corrupted creation timestamp", h.ID)
		}
		for d := range h.CompletedDates {
			if _, err := time.Parse(constants.DateFormat, d); err != nil {
				return fmt.Errorf("habit %s has invalid completion date %q", h.ID, d)
			}
		}
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Clock()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if tz := ctx.Config.Schedule.Timezone; tz != "" && !utils.ValidateTimezone(tz) {
		return fmt.Errorf("invalid schedule timezone %q", tz)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	return ctx.Config.Validate()
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; secrets must come from the environment or settings file")
	}
	return nil
}

func checkAIKey(ctx *cli.Context) error {
	if ctx.Config.AIKey() == "" {
		return fmt.Errorf("no API key for %s; insights will use local fallbacks (set %s or run 'habitcoach keyring set --kind ai')", ctx.Config.AI.Provider, constants.EnvAIAPIKey)
	}
	return nil
}

func checkSinks(ctx *cli.Context) error {
	sinks, err := ctx.Sinks()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	fmt.Fprintf(ctx.Out, "   sinks: %s\n", strings.Join(names, ", "))
	return nil
}
