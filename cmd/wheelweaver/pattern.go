package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/CryoKynase/wheel-lacing-app/internal/api"
	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/spf13/cobra"
)

// patternFlags are the inputs shared by compute and layout.
type patternFlags struct {
	methodID string
	holes    int
	params   map[string]string
	step     string
	side     string
	output   string
}

func (f *patternFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.methodID, "method", "m", "", "Lacing method id (default: first registered method)")
	cmd.Flags().IntVar(&f.holes, "holes", api.DefaultInputs.Holes, "Rim hole count (even, >= 20)")
	cmd.Flags().StringToStringVarP(&f.params, "param", "p", nil, "Method parameter as key=value, repeatable (e.g. -p crosses=2)")
	cmd.Flags().StringVar(&f.step, "step", method.AllStepID, "Step id to show")
	cmd.Flags().StringVar(&f.side, "side", api.SideAll, "Flange filter: all, right or left")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to a file instead of stdout")
}

// patternView is a computed pattern narrowed to one step and side.
type patternView struct {
	method  method.LacingMethod
	result  *models.PatternResult
	step    method.Step
	side    string
	visible []models.SpokePlacement
}

func (f *patternFlags) compute(registry *method.Registry) (*patternView, error) {
	m, err := registry.Resolve(f.methodID)
	if err != nil {
		return nil, err
	}

	res, err := m.Compute(f.holes, parseParams(f.params))
	if err != nil {
		return nil, err
	}

	step, ok := method.FindStep(m.Steps(), f.step)
	if !ok {
		return nil, fmt.Errorf("unknown step %q for method %s", f.step, m.Descriptor().ID)
	}

	side := strings.ToLower(f.side)
	visible := method.Filter(res.Placements, step)
	switch side {
	case "", api.SideAll:
		side = api.SideAll
	case api.SideRight, api.SideLeft:
		visible = method.FilterSide(visible, models.Side(side))
	default:
		return nil, fmt.Errorf("invalid side %q: want all, right or left", f.side)
	}

	return &patternView{method: m, result: res, step: step, side: side, visible: visible}, nil
}

func (v *patternView) title() string {
	title := fmt.Sprintf("%s %dh", v.result.MethodID, v.result.HoleCount)
	if !v.step.ShowsAll() {
		title += ", " + v.step.Label
	}
	if v.side != api.SideAll {
		title += ", " + v.side + " flange"
	}
	return title
}

// parseParams turns flag strings into the loosely typed values a method
// coerces. Numbers and booleans are recognized; anything else stays a string.
func parseParams(raw map[string]string) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]any, len(raw))
	for k, s := range raw {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			out[k] = f
			continue
		}
		if b, err := strconv.ParseBool(s); err == nil {
			out[k] = b
			continue
		}
		out[k] = s
	}
	return out
}

// openOutput returns the command's stdout, or a created file when path is set.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, f.Close, nil
}
