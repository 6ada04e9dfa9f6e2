// Package cmd - compute command
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	modelhcl "traceblame/adapters/model/hcl"
	"traceblame/adapters/trace"
	"traceblame/core/engine"
	"traceblame/core/index"
	"traceblame/core/output"
	"traceblame/core/ts"
	"traceblame/internal/config"
)

var (
	semanticsFlag string
	indexFlag     string
	traceFlag     string
	formatFlag    string
	maxPlayers    int
	workers       int
)

// computeCmd represents the compute command
var computeCmd = &cobra.Command{
	Use:   "compute MODEL.hcl",
	Short: "Compute per-state responsibility for a model",
	Long: `Load a transition system model, obtain a counterexample trace, and
compute each trace state's responsibility for reaching the bad state.

The trace can be given explicitly with --trace; otherwise a shortest
path to a bad state is generated (falling back to a reachable terminal
state when the model declares no bad states).

Examples:
  traceblame compute model.hcl
  traceblame compute --semantics pessimistic --index banzhaf model.hcl
  traceblame compute --trace s1,s2,s3,error --format json model.hcl`,
	Args: cobra.ExactArgs(1),
	RunE: runCompute,
}

func init() {
	computeCmd.Flags().StringVarP(&semanticsFlag, "semantics", "s", "optimistic", "responsibility semantics (optimistic, pessimistic)")
	computeCmd.Flags().StringVarP(&indexFlag, "index", "i", "shapley", "power index (shapley, banzhaf)")
	computeCmd.Flags().StringVarP(&traceFlag, "trace", "t", "", "comma-separated counterexample trace (generated if omitted)")
	computeCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "output format (cli, json)")
	computeCmd.Flags().IntVar(&maxPlayers, "max-players", 0, "override the exact-enumeration player cap")
	computeCmd.Flags().IntVar(&workers, "workers", 0, "override the coalition-enumeration worker count")
}

func runCompute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()

	model, err := modelhcl.Load(args[0])
	if err != nil {
		return err
	}

	counterexample, err := resolveTrace(model.System)
	if err != nil {
		return err
	}

	semantics, err := engine.ParseSemantics(semanticsFlag)
	if err != nil {
		return err
	}
	powerIndex, err := index.Parse(indexFlag)
	if err != nil {
		return err
	}

	engineCfg := engine.Config{
		MaxPlayers: cfg.Compute.MaxPlayers,
		Workers:    cfg.Compute.Workers,
	}
	if maxPlayers > 0 {
		engineCfg.MaxPlayers = maxPlayers
	}
	if workers > 0 {
		engineCfg.Workers = workers
	}

	result, err := engine.New(engineCfg).Compute(ctx, engine.Request{
		System:    model.System,
		Trace:     counterexample,
		Semantics: semantics,
		Index:     powerIndex,
	})
	if err != nil {
		return err
	}

	format := output.Format(cfg.Output.DefaultFormat)
	if formatFlag != "" {
		format = output.Format(formatFlag)
	}
	formatter, err := output.New(format)
	if err != nil {
		return err
	}
	return formatter.Render(os.Stdout, result)
}

func resolveTrace(sys *ts.System) (ts.Counterexample, error) {
	if traceFlag == "" {
		return trace.Generate(sys)
	}

	var counterexample ts.Counterexample
	for _, part := range strings.Split(traceFlag, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			counterexample = append(counterexample, ts.State(part))
		}
	}
	return counterexample, nil
}

// traceCmd prints the generated counterexample for a model
var traceCmd = &cobra.Command{
	Use:   "trace MODEL.hcl",
	Short: "Print the generated counterexample for a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := modelhcl.Load(args[0])
		if err != nil {
			return err
		}
		counterexample, err := trace.Generate(model.System)
		if err != nil {
			return err
		}
		parts := make([]string, len(counterexample))
		for i, st := range counterexample {
			parts[i] = string(st)
		}
		fmt.Println(strings.Join(parts, " -> "))
		return nil
	},
}

// inspectCmd prints model statistics
var inspectCmd = &cobra.Command{
	Use:   "inspect MODEL.hcl",
	Short: "Print transition system statistics for a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := modelhcl.Load(args[0])
		if err != nil {
			return err
		}
		sys := model.System

		fmt.Printf("Model:       %s\n", model.Name)
		fmt.Printf("States:      %d\n", sys.Len())
		fmt.Printf("Transitions: %d\n", sys.TransitionCount())
		if initial, ok := sys.Initial(); ok {
			fmt.Printf("Initial:     %s\n", initial)
		} else {
			fmt.Println("Initial:     (unset)")
		}
		bad := sys.BadStates()
		parts := make([]string, len(bad))
		for i, st := range bad {
			parts[i] = string(st)
		}
		fmt.Printf("Bad states:  [%s]\n", strings.Join(parts, ", "))
		return nil
	},
}
