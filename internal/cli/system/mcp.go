package system

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitcoach/internal/cli"
	"github.com/julianstephens/habitcoach/internal/mcp"
)

type MCPCmd struct{}

func (c *MCPCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return mcp.NewServer(ctx.Habits, ctx.Weekly, ctx.Daily, ctx.Clock).Serve(sigCtx)
}
