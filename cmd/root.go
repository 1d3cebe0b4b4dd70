package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the workspacemcp application
var rootCmd = &cobra.Command{
	Use:   "workspacemcp",
	Short: "MCP server for Google Chat and Google Forms",
	Long: `workspacemcp is a Model Context Protocol (MCP) server that exposes
Google Chat and Google Forms operations as tools for AI assistants.

It provides Chat messaging and card delivery, Forms authoring and response
retrieval, and a service adapter registry whose tools are generated from the
adapter method signatures.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "workspacemcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
