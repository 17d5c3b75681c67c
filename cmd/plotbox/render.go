package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRenderCommand(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render [plot-id]",
		Short: "Encode a gallery plot, or list the gallery when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			g := newGallery(cfg, logger)
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, item := range g.Items() {
					fmt.Fprintf(w, "%-10s %s\n", item.ID, item.Caption)
				}
				return nil
			}

			box, err := g.Box(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if out != "" {
				raw, err := base64.StdEncoding.DecodeString(box.Data["png"])
				if err != nil {
					return fmt.Errorf("failed to decode png payload: %w", err)
				}
				if err := os.WriteFile(out, raw, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				fmt.Fprintf(w, "wrote %s (%d bytes)\n", out, len(raw))
				return nil
			}

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(box)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the decoded PNG to this file instead of printing the box")
	return cmd
}
