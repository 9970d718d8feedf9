package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Emmyhack/invar/internal/settings"
)

func newInitCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "scaffold a default invar settings file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Save(path, settings.Default()); err != nil {
				return fmt.Errorf("init: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "output", "invar.yaml", "settings file to write")
	return cmd
}
