package cmd

import (
	"github.com/spf13/cobra"

	"labstore/internal/domain/schema"
	"labstore/internal/errs"
	"labstore/internal/usecase/schemadoc"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the lab schema descriptor",
		Long:  "Prints entities, fields, enumerated domains and references without opening a store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, _ := cmd.Flags().GetString("format")
			format, err := schemadoc.ParseFormat(raw)
			if err != nil {
				return err
			}

			h, err := schema.Define()
			if err != nil {
				return errs.Wrap(err, "define schema")
			}
			return schemadoc.Render(cmd.OutOrStdout(), h, format)
		},
	}
	cmd.Flags().String("format", string(schemadoc.FormatText), "Output format: text, yaml, toml, json-schema")
	return cmd
}

func init() {
	rootCmd.AddCommand(newSchemaCmd())
}
