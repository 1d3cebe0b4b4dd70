package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspacemcp/workspacemcp/internal/adapter"
	"github.com/workspacemcp/workspacemcp/internal/cards"
	"github.com/workspacemcp/workspacemcp/internal/server"
)

// RegisterWorkspaceResources registers the adapter manifest and card type
// catalog resources with the MCP server.
func RegisterWorkspaceResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Adapter manifest resource
	adaptersResource := mcp.NewResource(
		"workspace://adapters",
		"Workspace Adapters",
		mcp.WithResourceDescription("Registered adapters with their metadata, methods and parameters"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(adaptersResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAdapterManifest(ctx, request, sc)
	})

	// Card type catalog resource
	cardTypesResource := mcp.NewResource(
		"workspace://cards/types",
		"Card Types",
		mcp.WithResourceDescription("Supported Google Chat card styles and the fields each one takes"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(cardTypesResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleCardTypes(ctx, request)
	})

	return nil
}

// adapterManifestEntry is one adapter in the manifest resource.
type adapterManifestEntry struct {
	Metadata adapter.Metadata      `json:"metadata"`
	Methods  []*adapter.MethodInfo `json:"methods"`
	Usage    int64                 `json:"usage"`
}

// handleAdapterManifest returns every registered adapter with its methods
// and usage counter.
func handleAdapterManifest(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	registry := sc.Registry()

	manifest := make(map[string]adapterManifestEntry)
	for _, name := range registry.Names() {
		a, ok := registry.Peek(name)
		if !ok {
			continue
		}
		manifest[name] = adapterManifestEntry{
			Metadata: a.Metadata(),
			Methods:  a.Methods(),
			Usage:    registry.Usage(name),
		}
	}

	jsonData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal adapter manifest: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleCardTypes returns the card type catalog.
func handleCardTypes(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(cards.CardTypes(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal card type catalog: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
