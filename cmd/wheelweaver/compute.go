package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/CryoKynase/wheel-lacing-app/internal/export"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
	formatYAML  = "yaml"
	formatSVG   = "svg"
)

func newComputeCmd(root *rootOptions) *cobra.Command {
	var (
		flags  patternFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a lacing pattern",
		Long: `Computes the full lacing pattern for a wheel and prints the rows of one step.

Example:
  wheelweaver compute --holes 32 -p crosses=3 --step step2
  wheelweaver compute --holes 28 -p crosses=2 --format csv -o pattern.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := flags.compute(newRegistry())
			if err != nil {
				return err
			}
			root.logger.Debug("pattern computed",
				zap.String("method", view.result.MethodID),
				zap.Int("holes", view.result.HoleCount),
				zap.Int("visible", len(view.visible)))

			w, closeFn, err := openOutput(cmd, flags.output)
			if err != nil {
				return err
			}
			if err := writePattern(w, view, format); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json, csv or yaml")

	return cmd
}

func writePattern(w io.Writer, view *patternView, format string) error {
	table := export.VisibleRows(view.result.Table, view.visible)

	switch format {
	case formatTable:
		_, err := fmt.Fprintln(w, export.RenderPattern(view.title(), view.result, table))
		return err
	case formatCSV:
		return export.WriteCSV(w, table)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(patternOutput(view))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(patternOutput(view)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// computeOutput is the structured form of compute's output.
type computeOutput struct {
	MethodID  string           `json:"methodId" yaml:"methodId"`
	HoleCount int              `json:"holeCount" yaml:"holeCount"`
	Params    map[string]any   `json:"params" yaml:"params"`
	Step      string           `json:"step" yaml:"step"`
	Side      string           `json:"side" yaml:"side"`
	Columns   []string         `json:"columns" yaml:"columns"`
	Rows      []map[string]any `json:"rows" yaml:"rows"`
	Warnings  []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func patternOutput(view *patternView) computeOutput {
	table := export.VisibleRows(view.result.Table, view.visible)
	return computeOutput{
		MethodID:  view.result.MethodID,
		HoleCount: view.result.HoleCount,
		Params:    view.result.Params,
		Step:      view.step.ID,
		Side:      view.side,
		Columns:   table.Columns,
		Rows:      table.Rows,
		Warnings:  view.result.Warnings,
	}
}
