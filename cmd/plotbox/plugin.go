package main

import (
	"encoding/json"
	"fmt"

	"github.com/koios/plotbox/internal/plugin"
	"github.com/koios/plotbox/pkg/models"
	"github.com/spf13/cobra"
)

func newPluginCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "plugin",
		Short: "Print the client plugin descriptor",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := plugin.Plugin()
			out := cmd.OutOrStdout()

			switch format {
			case "yaml":
				return models.WriteManifest(out, p)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			default:
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}
