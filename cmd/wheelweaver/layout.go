package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/CryoKynase/wheel-lacing-app/internal/api"
	"github.com/CryoKynase/wheel-lacing-app/internal/export"
	"github.com/CryoKynase/wheel-lacing-app/internal/layout"
	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/spf13/cobra"
)

func newLayoutCmd(root *rootOptions) *cobra.Command {
	var (
		flags        patternFlags
		format       string
		startRimHole int
		valveRef     string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Render a lacing pattern as a wheel diagram",
		Long: `Maps a lacing pattern onto wheel geometry. The SVG format draws the rim,
both flanges and every spoke, emphasizing the spokes of the selected step.

Example:
  wheelweaver layout --holes 32 --step step1 -o step1.svg
  wheelweaver layout --holes 36 --start-rim-hole 5 --valve-reference left_of_valve --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := models.ValveReference(valveRef)
			if !ref.Valid() {
				return fmt.Errorf("invalid valve reference %q: want %s or %s", valveRef, models.RightOfValve, models.LeftOfValve)
			}

			view, err := flags.compute(newRegistry())
			if err != nil {
				return err
			}

			res := layout.Map(view.result.HoleCount, view.result.Placements, startRimHole, ref,
				layout.WithVisible(view.visible))

			w, closeFn, err := openOutput(cmd, flags.output)
			if err != nil {
				return err
			}
			if err := writeLayout(w, view, res, format); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "Output format: svg or json")
	cmd.Flags().IntVar(&startRimHole, "start-rim-hole", api.DefaultInputs.StartRimHole, "Rim hole next to the valve (1-based, wraps)")
	cmd.Flags().StringVar(&valveRef, "valve-reference", string(api.DefaultInputs.ValveReference), "Valve side convention: right_of_valve or left_of_valve")

	return cmd
}

func writeLayout(w io.Writer, view *patternView, res layout.Result, format string) error {
	switch format {
	case formatSVG:
		return export.WriteSVG(w, res, view.title())
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
