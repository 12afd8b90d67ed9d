package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitcoach/internal/cli"
	"github.com/julianstephens/habitcoach/internal/storage"
	"github.com/julianstephens/habitcoach/internal/storage/postgres"
	"github.com/julianstephens/habitcoach/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// If force flag is provided, delete existing database
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		// Don't delete if it's the source (user error protection)
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Fprintf(ctx.Out, "Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Initialized habitcoach storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Fprintf(ctx.Out, "Copying habits from: %s\n", c.Source)
		n, err := copyHabits(ctx, c.Source)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintf(ctx.Out, "Copied %d habits.\n", n)
	}

	return nil
}

func openSource(sourcePath string) (storage.Provider, error) {
	if strings.HasPrefix(sourcePath, "postgres://") || strings.HasPrefix(sourcePath, "postgresql://") {
		if valid, err := postgres.ValidateConnString(sourcePath); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(sourcePath), nil
	}
	return sqlite.NewStore(sourcePath), nil
}

// copyHabits copies every habit, with its completion history, from the
// store at sourcePath. Cached insights are not copied.
func copyHabits(ctx *cli.Context, sourcePath string) (int, error) {
	source, err := openSource(sourcePath)
	if err != nil {
		return 0, err
	}
	if err := source.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	bg := context.Background()
	habits, err := source.ListHabits(bg)
	if err != nil {
		return 0, fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, h := range habits {
		if _, err := ctx.Store.CreateHabit(bg, h); err != nil {
			return 0, fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
	}
	return len(habits), nil
}
