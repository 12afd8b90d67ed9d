package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitcoach/internal/analytics"
	apperrors "github.com/julianstephens/habitcoach/internal/errors"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/utils"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit's title or description."`
	Done   HabitDoneCmd   `cmd:"" help:"Mark a habit as done today."`
	Undo   HabitUndoCmd   `cmd:"" help:"Mark a habit as not done today."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
	List   HabitListCmd   `cmd:"" help:"List habits." default:"1"`
	Watch  HabitWatchCmd  `cmd:"" help:"Print the habit list whenever it changes."`
}

// confirmDelete asks before a destructive delete. Swapped out in tests.
var confirmDelete = func(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete habit %q and all of its history?", title)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).Run()
	if err != nil {
		return false, fmt.Errorf("interactive form error: %w", err)
	}
	return ok, nil
}

type HabitAddCmd struct {
	Title       string `arg:"" help:"Habit title."`
	Description string `help:"Optional description." short:"d"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	id, err := ctx.Habits.Create(context.Background(), c.Title, c.Description)
	if err != nil {
		return errors.New(apperrors.UserMessage("create habit", err))
	}
	fmt.Fprintf(ctx.Out, "Added habit: %s (%s)\n", c.Title, id)
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit ID or title."`
	Title       *string `help:"New title."`
	Description *string `help:"New description." short:"d"`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	bg := context.Background()
	h, err := resolveHabit(bg, ctx, c.Habit)
	if err != nil {
		return err
	}

	title, description := h.Title, h.Description
	if c.Title != nil {
		title = *c.Title
	}
	if c.Description != nil {
		description = *c.Description
	}

	if err := ctx.Habits.Update(bg, h.ID, title, description); err != nil {
		return errors.New(apperrors.UserMessage("update habit", err))
	}
	fmt.Fprintf(ctx.Out, "Updated habit: %s\n", title)
	return nil
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *HabitDoneCmd) Run(ctx *Context) error {
	return setCompletion(ctx, c.Habit, true)
}

type HabitUndoCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *HabitUndoCmd) Run(ctx *Context) error {
	return setCompletion(ctx, c.Habit, false)
}

func setCompletion(ctx *Context, ref string, completed bool) error {
	bg := context.Background()
	h, err := resolveHabit(bg, ctx, ref)
	if err != nil {
		return err
	}

	if err := ctx.Habits.Complete(bg, h.ID, completed); err != nil {
		return errors.New(apperrors.UserMessage("complete habit", err))
	}

	today := utils.FormatDate(ctx.Clock())
	if completed {
		fmt.Fprintf(ctx.Out, "Marked habit %q done for %s\n", h.Title, today)
	} else {
		fmt.Fprintf(ctx.Out, "Unmarked habit %q for %s\n", h.Title, today)
	}
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	bg := context.Background()
	h, err := resolveHabit(bg, ctx, c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := confirmDelete(h.Title)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.Out, "Cancelled.")
			return nil
		}
	}

	if err := ctx.Habits.Delete(bg, h.ID); err != nil {
		return errors.New(apperrors.UserMessage("delete habit", err))
	}
	fmt.Fprintf(ctx.Out, "Deleted habit: %s\n", h.Title)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	list, err := ctx.Habits.List(context.Background())
	if err != nil {
		return errors.New(apperrors.UserMessage("list habits", err))
	}
	fmt.Fprintln(ctx.Out, renderHabitList(list, ctx))
	return nil
}

type HabitWatchCmd struct{}

func (c *HabitWatchCmd) Run(ctx *Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return watchHabits(sigCtx, ctx)
}

// watchHabits prints the list on every emission until ctx ends.
func watchHabits(ctx context.Context, app *Context) error {
	ch, err := app.Store.Observe(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch habits: %w", err)
	}
	for list := range ch {
		for i := range list {
			list[i] = analytics.RefreshStreaks(list[i], app.Clock())
		}
		fmt.Fprintln(app.Out, renderHabitList(list, app))
		fmt.Fprintln(app.Out)
	}
	return nil
}

func renderHabitList(list []models.Habit, ctx *Context) string {
	if len(list) == 0 {
		return "No habits found."
	}

	today := ctx.Clock()
	out := titleStyle.Render(fmt.Sprintf("Habits for %s", utils.FormatDate(today)))
	done := 0
	for _, h := range list {
		mark := "[ ]"
		if h.IsCompletedToday(today) {
			mark = doneStyle.Render("[x]")
			done++
		}
		out += fmt.Sprintf("\n%s %s %s", mark, h.Title, mutedStyle.Render(fmt.Sprintf("streak %dd, best %dd, %s", h.Streak, h.LongestStreak, h.ID)))
	}
	out += fmt.Sprintf("\n\nDone: %d/%d", done, len(list))
	return out
}

func resolveHabit(ctx context.Context, app *Context, ref string) (*models.Habit, error) {
	h, err := app.Habits.Resolve(ctx, ref)
	if err != nil {
		return nil, errors.New(apperrors.UserMessage("find habit", err))
	}
	if h == nil {
		return nil, fmt.Errorf("habit %q not found", ref)
	}
	return h, nil
}
