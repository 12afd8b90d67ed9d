// Package mcp exposes habits, statistics and coaching content as Model
// Context Protocol tools over stdio.
package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/julianstephens/habitcoach/internal/constants"
	"github.com/julianstephens/habitcoach/internal/habits"
	"github.com/julianstephens/habitcoach/internal/insight"
)

// Server wraps the MCP server with the habit service and generators.
type Server struct {
	mcpServer *mcp.Server
	habits    *habits.Service
	weekly    *insight.WeeklyInsightGenerator
	daily     *insight.DailyNudgeGenerator
	clock     func() time.Time
}

// NewServer creates an MCP server with every tool registered.
func NewServer(svc *habits.Service, weekly *insight.WeeklyInsightGenerator, daily *insight.DailyNudgeGenerator, clock func() time.Time) *Server {
	if clock == nil {
		clock = time.Now
	}

	s := &Server{
		mcpServer: mcp.NewServer(
			&mcp.Implementation{
				Name:    constants.AppName,
				Version: constants.Version,
			},
			nil,
		),
		habits: svc,
		weekly: weekly,
		daily:  daily,
		clock:  clock,
	}

	s.registerTools()
	return s
}

// Serve runs the server on stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
