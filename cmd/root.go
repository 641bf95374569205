package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the booking-mcp application
var rootCmd = &cobra.Command{
	Use:   "booking-mcp",
	Short: "MCP server for querying and booking shared resources",
	Long: `booking-mcp exposes a scheduling database as MCP (Model Context Protocol)
tools for AI assistants: checking resource availability, finding free rooms,
vehicles and projectors, aggregating active bookings, and creating or
updating activities through the booking REST API.`,
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
	rootCmd.SetVersionTemplate(`{{printf "booking-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
