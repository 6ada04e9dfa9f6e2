// Package cmd provides the CLI commands for traceblame.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"traceblame/internal/config"
	"traceblame/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "traceblame",
	Short: "Attribute responsibility for safety violations to trace states",
	Long: `traceblame computes backward responsibility of states in a transition
system for a safety-property violation, using cooperative game theory:
each state on a counterexample trace is scored by its average marginal
contribution (Shapley or Banzhaf) to avoiding the bad state.

Examples:
  traceblame compute model.hcl
  traceblame compute --semantics pessimistic --index banzhaf model.hcl
  traceblame compute --trace s1,s2,s3,error model.hcl
  traceblame trace model.hcl
  traceblame inspect model.hcl`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.traceblame.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
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
		fmt.Println("traceblame version 0.1.0")
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}
