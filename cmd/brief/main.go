package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/axeandlord/brief/internal/config"
	"github.com/axeandlord/brief/internal/curate"
	"github.com/axeandlord/brief/internal/database"
	"github.com/axeandlord/brief/internal/feedback"
	"github.com/axeandlord/brief/internal/feeds"
	"github.com/axeandlord/brief/internal/fulltext"
	"github.com/axeandlord/brief/internal/llm"
	"github.com/axeandlord/brief/internal/render"
	"github.com/axeandlord/brief/internal/server"
	"github.com/axeandlord/brief/internal/summarize"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "brief",
	Short:   "Personal daily news briefings",
	Long:    "Brief collects RSS articles, scores them against learned preferences, and curates a daily briefing that adapts to what you read.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		godotenv.Load()

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(curateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importFeedbackCmd)
	rootCmd.AddCommand(decayCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("brief", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/brief/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure feeds, interests, and the summary model.")
		return nil
	},
}

// --- run and curate commands ---

var maxAgeHours int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: collect -> fetch content -> curate -> summarize -> render",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(true)
	},
}

var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Collect and curate without full-text fetch or AI summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(false)
	},
}

func init() {
	runCmd.Flags().IntVar(&maxAgeHours, "max-age", 24, "Only collect articles newer than this many hours")
	curateCmd.Flags().IntVar(&maxAgeHours, "max-age", 24, "Only collect articles newer than this many hours")
}

func runPipeline(full bool) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Collecting articles from feeds...")
	collector := feeds.NewCollector(cfg.Sources.Feeds, db)
	articles := collector.CollectAll(time.Duration(maxAgeHours) * time.Hour)
	fmt.Printf("  Collected: %d articles\n", len(articles))

	if full {
		fmt.Println("Fetching full article text...")
		fetcher := fulltext.NewFetcher(0)
		var fetchResult *fulltext.Result
		articles, fetchResult = fetcher.FetchAll(articles)
		fmt.Printf("  Fetched: %d, failed: %d\n", fetchResult.Fetched, fetchResult.Failed)
	}

	var summarizer curate.Summarizer
	if full && cfg.Summaries.Enabled {
		provider := llm.CreateProvider(cfg.Summaries.Model, cfg.Summaries.OllamaURL,
			cfg.Summaries.OpenRouterModel, cfg.Summaries.APIKeyEnv)
		summarizer = summarize.New(cfg.Summaries, provider)
	}

	fmt.Println("Curating briefing...")
	curator := curate.New(cfg, db, summarizer)
	result, err := curator.Run(context.Background(), articles)
	if err != nil {
		return fmt.Errorf("curating: %w", err)
	}
	fmt.Printf("  %d in, %d after dedup, %d above threshold, %d shown\n",
		result.InputCount, result.SurvivorCount, result.ScoredCount, result.ShownCount)

	renderer, err := render.New()
	if err != nil {
		return err
	}
	outPath := cfg.Output.HTMLPath
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(cfg.GetDataDir(), outPath)
	}
	if err := renderer.WriteFile(outPath, result, cfg.Server.Port, time.Now()); err != nil {
		return err
	}

	fmt.Printf("\nBriefing written to %s\n", outPath)
	fmt.Println("Run 'brief serve' so the page can send engagement signals.")
	return nil
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local feedback API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting feedback API at http://127.0.0.1:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.New(db).Run(port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

// --- import-feedback command ---

var importFeedbackCmd = &cobra.Command{
	Use:   "import-feedback [file]",
	Short: "Import a JSON export of clicks and feedback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening export: %w", err)
		}
		defer f.Close()

		result, err := feedback.Import(db, f)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d clicks, %d feedback entries (%d skipped)\n",
			result.Clicks, result.Feedback, result.Skipped)
		return nil
	},
}

// --- decay command ---

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Decay stale preference weights toward neutral",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.DecayOldPreferences(cfg.Learning.DecayAfterDays, cfg.Learning.DecayFactor)
		if err != nil {
			return err
		}
		fmt.Printf("Decayed %d preference weights older than %d days\n", n, cfg.Learning.DecayAfterDays)
		return nil
	},
}

// --- stats command ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show engagement and learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetEngagementStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Last 30 days:")
		fmt.Printf("  Shown: %d\n", stats.TotalShown)
		fmt.Printf("  Clicked: %d\n", stats.TotalClicked)
		fmt.Printf("  Likes: %d\n", stats.TotalLikes)
		fmt.Printf("  Dislikes: %d\n", stats.TotalDislikes)

		if len(stats.ByCategory) > 0 {
			fmt.Println("\nBy category:")
			for _, cs := range stats.ByCategory {
				fmt.Printf("  %-14s %3d shown, %3d clicked (%.1f%%)\n",
					cs.Category, cs.Shown, cs.Clicked, cs.ClickRate)
			}
		}

		prefs, err := db.GetPreferences()
		if err != nil {
			return err
		}
		if len(prefs) > 0 {
			fmt.Println("\nLearned weights:")
			shown := 0
			for _, p := range prefs {
				label := p.Category
				if p.Keyword != "" {
					label = p.Category + " / " + p.Keyword
				}
				fmt.Printf("  %-30s %.2f\n", label, p.Weight)
				shown++
				if shown == 20 {
					fmt.Printf("  ... and %d more\n", len(prefs)-shown)
					break
				}
			}
		}

		unhealthy, err := db.GetUnhealthySources(3)
		if err != nil {
			return err
		}
		if len(unhealthy) > 0 {
			fmt.Println("\nUnhealthy sources:")
			for _, name := range unhealthy {
				fmt.Printf("  %s\n", name)
			}
		}
		return nil
	},
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return database.Open(filepath.Join(dataDir, "brief.db"))
}
