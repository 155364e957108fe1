// NewsLens — multi-source news analysis in a single model call.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seenimoa/newslens/api"
	"github.com/seenimoa/newslens/internal/analyzer"
	"github.com/seenimoa/newslens/internal/config"
	"github.com/seenimoa/newslens/internal/llm"
	"github.com/seenimoa/newslens/internal/loader"
	"github.com/seenimoa/newslens/internal/report"
	"github.com/seenimoa/newslens/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "newslens",
	Short: "NewsLens — multi-source news analysis",
	Long: `NewsLens fetches up to five news articles, sends them to an LLM in a
single call, and produces a cross-source report: combined summary,
sentiment, political bias, named entities, source credibility, topic
distribution, and content-overlap analysis.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("NewsLens %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [url]...",
	Short: "Analyze one to five news article URLs",
	Long: `Fetch the given article or feed URLs, run the analysis, and write a
report. Feed URLs (RSS/Atom) resolve to their most recent item.

Examples:
  newslens analyze https://reuters.com/world/some-story
  newslens analyze --length Detailed url1 url2 url3
  newslens analyze --format md --out summary.md url1 url2`,
	Args: cobra.RangeArgs(1, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		length, _ := cmd.Flags().GetString("length")
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")

		req := models.AnalysisRequest{
			URLs:   args,
			Length: models.ParseLengthTier(length),
		}
		if err := req.Validate(); err != nil {
			return err
		}

		client, err := llm.NewClientFromConfig(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a := analyzer.New(loader.New(cfg.Loader), client,
			analyzer.WithProgress(func(stage, detail string) {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", stage, detail)
			}))

		fmt.Fprintf(os.Stderr, "🔍 Analyzing %d source(s)\n", len(args))
		result, err := a.Analyze(ctx, req)
		if err != nil {
			var nse *analyzer.NoSourcesError
			if errors.As(err, &nse) {
				var b strings.Builder
				for _, doc := range nse.Docs {
					fmt.Fprintf(&b, "  %s: %s\n", doc.URL, doc.Error)
				}
				return fmt.Errorf("no sources could be loaded:\n%s", b.String())
			}
			return err
		}

		output, err := renderResult(result, format)
		if err != nil {
			return err
		}

		if outPath == "" {
			outPath = defaultOutPath(format)
		}
		if outPath == "-" {
			fmt.Println(output)
			return nil
		}
		if err := os.WriteFile(outPath, []byte(output), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		fmt.Fprintf(os.Stderr, "✅ Report written to %s (%d of %d sources analyzed)\n",
			outPath, result.Sources.SuccessfulLoads, result.Sources.TotalSources)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("length", "Standard", "summary length tier (Brief, Standard, Detailed)")
	analyzeCmd.Flags().String("format", "html", "report format (html, md, json)")
	analyzeCmd.Flags().String("out", "", "output file path ('-' for stdout)")
}

func renderResult(result *models.AnalysisResult, format string) (string, error) {
	switch strings.ToLower(format) {
	case "html":
		return report.GenerateHTML(result, report.DefaultReportConfig())
	case "md", "markdown":
		return report.GenerateMarkdown(result), nil
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding result: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown format %q (want html, md, or json)", format)
	}
}

func defaultOutPath(format string) string {
	ts := report.ReportTimestamp()
	switch strings.ToLower(format) {
	case "md", "markdown":
		return fmt.Sprintf("news-summary-%s.md", ts)
	case "json":
		return fmt.Sprintf("news-analysis-%s.json", ts)
	default:
		return fmt.Sprintf("news-report-%s.html", ts)
	}
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server and dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting NewsLens server on %s\n", addr)
		fmt.Printf("   Dashboard: http://localhost:%d/\n", cfg.API.Port)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  NewsLens — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:      %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    LLM Provider:  %s (model: %s)\n", cfg.LLM.Primary, cfg.LLM.Model)
		fmt.Printf("    Fetch Timeout: %ds\n", cfg.Loader.TimeoutSec)
		fmt.Printf("    Max Doc Chars: %d\n", cfg.Loader.MaxDocumentChars)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
