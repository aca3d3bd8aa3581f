package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"youtube-trends/agents/dashboard"
	"youtube-trends/agents/fetcher"
	"youtube-trends/agents/transformer"
	"youtube-trends/shared/config"
	"youtube-trends/shared/scheduler"
	"youtube-trends/shared/storage"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	once       bool
	healthPort int
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ytpipeline",
	Short:   "YouTube trend pipeline",
	Long:    "ytpipeline fetches YouTube search results, transforms them into a partitioned dataset and serves a dashboard over it.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		if cmd.Name() == "version" {
			return nil
		}

		if configPath != "" {
			os.Setenv("CONFIG_FILE", configPath)
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("health-port") {
			port := healthPort
			cfg.Monitoring.HealthPort = &port
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (overrides CONFIG_FILE)")

	for _, cmd := range []*cobra.Command{fetchCmd, transformCmd} {
		cmd.Flags().BoolVar(&once, "once", false, "Run a single pass and exit")
		cmd.Flags().IntVar(&healthPort, "health-port", 0, "Health server port (0 disables it)")
	}

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ytpipeline", version)
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Search YouTube and upload the raw batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgent(fetcher.NewFetcherAgent(cfg), cfg.Fetcher.Schedule)
	},
}

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Clean raw batches into the partitioned dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgent(transformer.NewTransformerAgent(cfg), cfg.Transformer.Schedule)
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the dashboard over the processed dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateDashboard(); err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		store, err := storage.New(&cfg.Storage)
		if err != nil {
			return err
		}
		dataset, err := dashboard.Load(ctx, store, cfg.Storage.ProcessedPrefix)
		if err != nil {
			return err
		}

		server, err := dashboard.NewServer(&cfg.Dashboard, dataset)
		if err != nil {
			return err
		}
		return server.Run(ctx)
	},
}

func runAgent(agent scheduler.Agent, schedule string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if once {
		s := scheduler.New(schedule, 0, agent)
		fmt.Println("Running once...")
		if err := agent.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize agent: %w", err)
		}
		if err := s.RunOnce(ctx); err != nil {
			return err
		}
		log.Println(s.Monitor().GetStatusSummary())
		return nil
	}

	s := scheduler.New(schedule, *cfg.Monitoring.HealthPort, agent)
	fmt.Println("Starting scheduler...")
	if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler failed: %w", err)
	}
	return nil
}
