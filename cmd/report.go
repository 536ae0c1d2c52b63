// Formats sweep results for the terminal or as YAML/JSON documents.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	sim "github.com/queue-sim/queue-sim/sim"
)

const reportWidth = 80

// validOutputFormats maps accepted --output values.
var validOutputFormats = map[string]bool{
	"table": true,
	"yaml":  true,
	"json":  true,
}

func isValidOutputFormat(format string) bool {
	return validOutputFormats[format]
}

// writeResults renders every sweep in the requested format.
func writeResults(w io.Writer, format string, all []*sim.Results) error {
	switch format {
	case "table":
		for _, rs := range all {
			if err := printTable(w, rs); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, rs := range all {
			if err := enc.Encode(rs); err != nil {
				return err
			}
		}
		return enc.Close()
	case "json":
		data, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// printTable prints one sweep as a fixed-width table.
func printTable(w io.Writer, rs *sim.Results) error {
	entries, err := rs.Entries()
	if err != nil {
		return err
	}
	rule := strings.Repeat("=", reportWidth)

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Service Time: %s (%s), seed=%d\n", titleCase(rs.Service.String()), rs.Service.Notation(), int64(rs.Key))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-10s %-15s %-15s %-15s %-15s\n", "Lambda", "Simulation", "Theoretical", "Error %", "95% CI")
	fmt.Fprintln(w, strings.Repeat("-", reportWidth))
	for _, e := range entries {
		fmt.Fprintf(w, "%-10.2f %-15.2f %-15.2f %-15.2f ±%-14.2f\n",
			e.ArrivalRate, e.SimulatedMean, e.TheoreticalMean, e.ErrorPercent, e.Stats.CI95)
	}
	fmt.Fprintln(w, rule)
	return nil
}

// printSingle prints the outcome of one replication.
func printSingle(w io.Writer, service sim.ServiceDiscipline, seed int64, lambda float64, r sim.SimulationResult) {
	fmt.Fprintf(w, "%s lambda=%.2f seed=%d: %s\n", service.Notation(), lambda, seed, r)
}

// printTheory prints 1/(1-lambda) for each rate.
func printTheory(w io.Writer, rates []float64) error {
	fmt.Fprintf(w, "%-10s %-15s\n", "Lambda", "Theoretical")
	for _, lambda := range rates {
		mean, err := sim.TheoreticalMeanTimeInSystem(lambda)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-10.2f %-15.2f\n", lambda, mean)
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
