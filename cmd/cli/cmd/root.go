// Package cmd provides the CLI commands for recipe-cost.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recipe-cost/internal/config"
	"recipe-cost/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "recipe-cost",
	Short: "Cost recipes and suggest sale prices",
	Long: `recipe-cost prices recipes from an ingredient catalog.

It converts each recipe line into the ingredient's catalog unit using a
per-ingredient density, sums the proportional costs, and applies
packaging, margin and yield to produce a suggested sale price.

Examples:
  recipe-cost cost recipes.hcl
  recipe-cost cost --recipe brigadeiro recipes.hcl`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.recipe-cost.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(costCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("recipe-cost version 0.1.0")
	},
}
