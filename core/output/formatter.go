// Package output renders responsibility results for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"traceblame/core/determinism"
	"traceblame/core/engine"
	"traceblame/core/ts"
	"traceblame/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the result
	Render(w io.Writer, result *engine.Result) error
}

// New returns the formatter for a format name
func New(f Format) (Formatter, error) {
	switch f {
	case FormatCLI:
		return &cliFormatter{showDetails: true}, nil
	case FormatJSON:
		return &jsonFormatter{}, nil
	default:
		return nil, errors.Newf(errors.TypeNotSupported, "unknown output format %q", f)
	}
}

type cliFormatter struct {
	showDetails bool
}

func (f *cliFormatter) Format() Format { return FormatCLI }

func (f *cliFormatter) Render(w io.Writer, result *engine.Result) error {
	fmt.Fprintf(w, "Responsibility (%s, %s)\n", result.Semantics, result.Index)
	fmt.Fprintf(w, "Counterexample: %s\n\n", joinStates(result.Counterexample, " -> "))

	if len(result.States) == 0 {
		fmt.Fprintln(w, "No players on the counterexample; nothing to attribute.")
		return nil
	}

	// highest responsibility first, name as tie-breaker
	states := make([]ts.State, 0, len(result.States))
	for st := range result.States {
		states = append(states, st)
	}
	sort.Slice(states, func(i, j int) bool {
		a, b := result.States[states[i]], result.States[states[j]]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return states[i] < states[j]
	})

	fmt.Fprintf(w, "%-20s %-12s", "STATE", "VALUE")
	if f.showDetails {
		fmt.Fprintf(w, " %-10s %-10s", "DEGREE", "ALONE")
	}
	fmt.Fprintln(w)
	for _, st := range states {
		fmt.Fprintf(w, "%-20s %-12s", st, result.States[st].String())
		if f.showDetails {
			info := result.StateInfo[st]
			fmt.Fprintf(w, " %-10d %-10v", info.BranchingDegree, info.CanWinAlone)
		}
		fmt.Fprintln(w)
	}

	if result.WinningSet != nil {
		fmt.Fprintf(w, "\nWinning set: {%s}\n", joinStates(result.WinningSet, ", "))
		if result.NormalizationK != nil {
			fmt.Fprintf(w, "Normalization K: %s\n", result.NormalizationK.String())
		}
	}

	if len(result.Components) > 0 {
		fmt.Fprintln(w, "\nComponents:")
		for _, c := range determinism.SortedKeys(result.Components) {
			fmt.Fprintf(w, "  %-18s %s\n", c, result.Components[c].String())
		}
	}

	fmt.Fprintf(w, "\nRun %s (%s)\n", result.RunID, result.Duration)
	return nil
}

func joinStates[S ~[]ts.State](states S, sep string) string {
	out := ""
	for i, st := range states {
		if i > 0 {
			out += sep
		}
		out += string(st)
	}
	return out
}

type jsonFormatter struct{}

func (f *jsonFormatter) Format() Format { return FormatJSON }

func (f *jsonFormatter) Render(w io.Writer, result *engine.Result) error {
	view := struct {
		*engine.Result
		Duration    string `json:"duration"`
		Fingerprint string `json:"fingerprint"`
	}{result, result.Duration.String(), result.Fingerprint()}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
