package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CryoKynase/wheel-lacing-app/internal/export"
	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/spf13/cobra"
)

func newMethodsCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List the available lacing methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := newRegistry()
			infos := make([]method.Info, 0, len(registry.List()))
			for _, m := range registry.List() {
				infos = append(infos, method.Describe(m))
			}

			switch format {
			case formatTable:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), export.RenderTable(methodsTable(infos)))
				return err
			case formatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			default:
				return fmt.Errorf("unsupported format %q", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")

	return cmd
}

func methodsTable(infos []method.Info) models.Table {
	t := models.Table{Columns: []string{"id", "name", "holes", "params", "steps"}}
	for _, info := range infos {
		holes := make([]string, len(info.SupportedHoles))
		for i, h := range info.SupportedHoles {
			holes[i] = fmt.Sprint(h)
		}
		params := make([]string, len(info.Params))
		for i, p := range info.Params {
			params[i] = p.Key
		}
		t.Rows = append(t.Rows, map[string]any{
			"id":     info.ID,
			"name":   info.Name,
			"holes":  strings.Join(holes, ","),
			"params": strings.Join(params, ", "),
			"steps":  len(info.Steps),
		})
	}
	return t
}
