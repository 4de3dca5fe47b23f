package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stagepulse",
		Short: "Normalize and aggregate rating signals for live-theater productions",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(addCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(scoreCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

func addCmd() *cobra.Command {
	var (
		slug   string
		title  string
		venue  string
		status string
		opened string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a production in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(slug, title, venue, status, opened)
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "production slug (required)")
	cmd.Flags().StringVar(&title, "title", "", "production title (required)")
	cmd.Flags().StringVar(&venue, "venue", "", "venue name")
	cmd.Flags().StringVar(&status, "status", "running", "lifecycle status: previews, running, closed")
	cmd.Flags().StringVar(&opened, "opened", "", "opening date (YYYY-MM-DD, default today)")
	cmd.MarkFlagRequired("slug")
	cmd.MarkFlagRequired("title")
	return cmd
}

func ingestCmd() *cobra.Command {
	var sources []string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run ingest collectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(sources)
		},
	}

	cmd.Flags().StringSliceVar(&sources, "source", nil, "specific sources to run (e.g., reviews:nytimes)")
	return cmd
}

func scoreCmd() *cobra.Command {
	var (
		production string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute scorecards for productions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(production, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&production, "production", "", "score a single production by slug")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with scheduler and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
