package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/provide-io/egfpatch/pkg/resources"
	"github.com/spf13/cobra"
)

func newIDsCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ids <egf>...",
		Short: "List the bitmap resource identifiers of EGF files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel)
			w := cmd.OutOrStdout()
			for _, path := range args {
				ids, err := resources.BitmapIDs(path)
				if err != nil {
					return err
				}
				logger.Debug("Read bitmap identifiers", "container", path, "count", len(ids))
				color.New(color.Bold).Fprintf(w, "%s", path)
				fmt.Fprintf(w, ": %d bitmaps, max %d\n", len(ids), resources.MaxID(ids))
				fmt.Fprintf(w, "  %v\n", ids)
			}
			return nil
		},
	}
}
