// Package mcp exposes the scan and organization engine as Model Context
// Protocol tools so assistants can inspect and maintain a world database.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"worldsweep/internal/cleaner"
	"worldsweep/internal/config"
	"worldsweep/internal/organize"
)

type Server struct {
	cfg       *config.Config
	runner    *cleaner.Runner
	organizer *organize.Organizer
	mcp       *sdk.Server
}

func NewServer(cfg *config.Config, runner *cleaner.Runner, organizer *organize.Organizer, version string) *Server {
	s := &Server{
		cfg:       cfg,
		runner:    runner,
		organizer: organizer,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "worldsweep",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
