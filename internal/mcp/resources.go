package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(
		&mcp.Resource{
			Name:        "projects",
			URI:         ProjectsURI,
			Description: "The full project catalog in catalog order",
			MIMEType:    "application/json",
		},
		s.handleProjectsResource,
	)

	if s.searcher.Metrics != nil {
		s.mcp.AddResource(
			&mcp.Resource{
				Name:        "stats",
				URI:         StatsURI,
				Description: "Search telemetry for this session",
				MIMEType:    "application/json",
			},
			s.handleStatsResource,
		)
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, MapError(err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "application/json", Text: string(content)},
		},
	}, nil
}

func (s *Server) handleProjectsResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(ProjectsURI, s.searcher.Holder.Current().Catalog.Projects())
}

func (s *Server) handleStatsResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(StatsURI, s.searcher.Metrics.Snapshot())
}
