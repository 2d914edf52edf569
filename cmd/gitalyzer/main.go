package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gitalyzer/internal/analysis"
	"gitalyzer/internal/config"
	"gitalyzer/internal/pipeline"
	"gitalyzer/internal/report"
	"gitalyzer/internal/server"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "gitalyzer",
		Short:   "Explain GitHub repositories in plain language",
		Version: version,
	}

	root.AddCommand(serveCmd(), analyzeCmd(), schemaCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the frontend, if present)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			srv := server.New(cfg.Addr, server.NewHandler(cfg))

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-quit:
				fmt.Printf("Received %s, shutting down...\n", sig)
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}
}

func analyzeCmd() *cobra.Command {
	var apiKey, model, pdfPath string

	cmd := &cobra.Command{
		Use:   "analyze [repo-url]",
		Short: "Analyze a repository from the command line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			res, err := pipeline.Analyze(cmd.Context(), cfg, pipeline.Request{
				RepoURL: args[0],
				APIKey:  apiKey,
				Model:   model,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(res.Analysis, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			if apiKey != "" && !res.UsedAI && res.RawResponse != nil {
				fmt.Fprintln(os.Stderr, *res.RawResponse)
			}

			if pdfPath != "" {
				doc, err := report.Build(res.Repository.Name, res.Analysis)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, doc, 0o644); err != nil {
					return err
				}
				fmt.Printf("Saved report to %s\n", pdfPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "OpenAI API key (omit to use the rule-based summary)")
	cmd.Flags().StringVar(&model, "model", "", "Override the OpenAI model identifier")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Also write a PDF report to this path")
	return cmd
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the analysis field schema as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := json.MarshalIndent(analysis.FieldSchema(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
