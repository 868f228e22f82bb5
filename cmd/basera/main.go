// Basera CLI - command-line front for the multi-layer thinking core.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/basera/basera/internal/config"
	"github.com/basera/basera/internal/core"
	"github.com/basera/basera/internal/knowledge"
	"github.com/basera/basera/internal/layers"
	"github.com/basera/basera/internal/logging"
	"github.com/basera/basera/internal/thinking"
)

var (
	// Config
	configPath string
	dataDir    string

	// Version
	version = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "basera",
		Short: "Basera - a multi-layer thinking core",
		Long: `Basera processes input through eight parallel thinking layers -
mathematical, logical, interpretive, physical, linguistic, symbolic,
visual and semantic - then synchronizes and integrates their results.

Each layer keeps its own durable knowledge store on disk.`,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")

	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(queryCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openCore loads config and assembles the orchestrator. The caller owns the
// returned core and must Shutdown it.
func openCore() (*thinking.Orchestrator, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	registry, err := knowledge.OpenRegistry(knowledge.RegistryConfig{
		DataDir: cfg.DataDir,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	orchestrator, err := thinking.NewOrchestrator(registry, layers.DefaultRegistry(), thinking.Options{
		Name:         cfg.Core.Name,
		HistoryLimit: cfg.Core.HistoryLimit,
		MaxParallel:  cfg.Core.MaxParallel,
		LayerTimeout: cfg.Core.LayerTimeout(),
		Logger:       logger,
	})
	if err != nil {
		registry.Close()
		return nil, err
	}

	return orchestrator, nil
}

// processCmd runs one thinking round over the input text
func processCmd() *cobra.Command {
	var layerNames []string

	cmd := &cobra.Command{
		Use:   "process [text]",
		Short: "Run a thinking round over the input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orchestrator, err := openCore()
			if err != nil {
				return err
			}
			defer orchestrator.Shutdown()

			var subset []core.LayerType
			for _, name := range layerNames {
				t, err := core.ParseLayerType(name)
				if err != nil {
					return err
				}
				subset = append(subset, t)
			}

			round, err := orchestrator.Process(context.Background(), strings.Join(args, " "), subset)
			if err != nil {
				return err
			}

			return printJSON(round)
		},
	}

	cmd.Flags().StringSliceVar(&layerNames, "layers", nil, "restrict the round to these layers")
	return cmd
}

// queryCmd searches one layer's knowledge store
func queryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "query <layer> <text>",
		Short: "Search a layer's knowledge store",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layerType, err := core.ParseLayerType(args[0])
			if err != nil {
				return err
			}

			orchestrator, err := openCore()
			if err != nil {
				return err
			}
			defer orchestrator.Shutdown()

			records := orchestrator.Query(context.Background(), layerType, strings.Join(args[1:], " "), limit)
			return printJSON(records)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum records to return")
	return cmd
}

// statusCmd prints a snapshot of the core
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the core's layer and round statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			orchestrator, err := openCore()
			if err != nil {
				return err
			}
			defer orchestrator.Shutdown()

			return printJSON(orchestrator.Status())
		},
	}
}

// versionCmd prints the version
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("basera %s\n", version)
		},
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
