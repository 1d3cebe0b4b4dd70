package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspacemcp/workspacemcp/internal/server"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(outputFile string) error {
	// Doc generation registers tools but never calls them, so the server
	// context needs no credentials.
	serverContext, err := server.NewServerContext(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = serverContext.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("workspacemcp", version,
		mcpserver.WithToolCapabilities(true),
	)

	// readOnly=false so write tools appear in the docs too.
	if err := registerAllTools(mcpSrv, serverContext, false, nil); err != nil {
		return err
	}

	tools := make([]mcp.Tool, 0)
	for _, serverTool := range mcpSrv.ListTools() {
		tools = append(tools, serverTool.Tool)
	}

	markdown := generateToolsMarkdown(tools)

	if outputFile == "" {
		fmt.Print(markdown)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	return nil
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	byCategory := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		category := getCategoryFromToolName(tool.Name)
		byCategory[category] = append(byCategory[category], tool)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	slices.Sort(categories)

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running workspacemcp as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	sb.WriteString("## Table of Contents\n\n")
	for _, category := range categories {
		anchor := strings.ToLower(strings.ReplaceAll(category, " ", "-"))
		fmt.Fprintf(&sb, "- [%s](#%s)\n", category, anchor)
	}
	sb.WriteString("\n")

	sb.WriteString("## Multi-Account Support\n\n")
	sb.WriteString("All Google-related MCP tools support an optional `account` parameter to specify which Google account to use:\n\n")
	sb.WriteString("- **Default behavior:** If `account` is not specified, the `default` account is used\n")
	sb.WriteString("- **Multiple accounts:** You can manage multiple Google accounts (e.g., `work`, `personal`)\n")
	sb.WriteString("- **Per-tool specification:** Each tool call can use a different account\n\n")

	for _, category := range categories {
		categoryTools := byCategory[category]
		slices.SortFunc(categoryTools, func(a, b mcp.Tool) int {
			return strings.Compare(a.Name, b.Name)
		})

		fmt.Fprintf(&sb, "## %s\n\n", category)
		for _, tool := range categoryTools {
			writeToolMarkdown(&sb, tool)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func getCategoryFromToolName(name string) string {
	switch {
	case strings.HasPrefix(name, "chat_"):
		return "Google Chat Tools"
	case strings.HasPrefix(name, "forms_"):
		return "Google Forms Tools"
	case strings.HasPrefix(name, "workspace_"):
		return "Adapter Management Tools"
	// The auth tools start with google_ but so do the google_chat_* and
	// google_forms_* adapter tools, so match them before the catch-all.
	case strings.HasPrefix(name, "google_chat_"), strings.HasPrefix(name, "google_forms_"):
		return "Adapter Tools"
	case strings.HasPrefix(name, "google_"):
		return "Authentication Tools"
	default:
		// Dynamically generated adapter tools are named <adapter>_<method>
		return "Adapter Tools"
	}
}

func writeToolMarkdown(sb *strings.Builder, tool mcp.Tool) {
	fmt.Fprintf(sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", tool.Description)
	}

	if len(tool.InputSchema.Properties) == 0 {
		return
	}

	sb.WriteString("**Arguments:**\n")

	names := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		prop, ok := tool.InputSchema.Properties[name].(map[string]interface{})
		if !ok {
			continue
		}

		requirement := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			requirement = "required"
		}

		description, ok := prop["description"].(string)
		if !ok {
			propType := "any"
			if t, ok := prop["type"].(string); ok {
				propType = t
			}
			description = propType + " parameter"
		}

		fmt.Fprintf(sb, "- `%s` (%s): %s\n", name, requirement, description)
	}
	sb.WriteString("\n")
}
