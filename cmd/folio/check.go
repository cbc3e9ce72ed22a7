package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanizio/folio/internal/form"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate config, content, forms, and templates, then exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := boot(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer s.close()

		n, err := s.app.Views().Check()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: theme %q, %d templates, %d forms\n",
			s.cfg.Site.Theme, n, len(form.IDs()))
		return nil
	},
}
