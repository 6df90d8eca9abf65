package commands

import (
	"fmt"

	"github.com/labrig/rigging"
	"github.com/spf13/cobra"
)

func newValidateCmd(g *globalOptions) *cobra.Command {
	o := &loadOptions{}
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "validate <rig-file>",
		Short: "Check a rig document against the catalog",
		Long: `Validate loads a rig document, applies environment overrides and instantiates
the record, reporting every field error at once. With --schema the loaded rig
is also checked against an exported JSON Schema document.`,
		Example: `  rigschema validate rig.yaml
  rigschema validate rig.toml --record Experiment
  rigschema validate rig.yaml --schema schemas/TestRig.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			rec, err := loadRig(cmd, g, o, path)
			if err != nil {
				return err
			}
			defer rigging.ForgetProvenance(rec)

			if schemaPath != "" {
				doc, err := readSchema(schemaPath)
				if err != nil {
					return failure(cmd.ErrOrStderr(), fmt.Sprintf("failed to read schema %s", schemaPath), err.Error())
				}
				if err := rigging.ValidateRecord(doc, rec); err != nil {
					return loadFailure(cmd.ErrOrStderr(), path, err)
				}
			}

			success(cmd.OutOrStdout(), "%s is a valid %s", path, rec.Definition().Name())
			return nil
		},
	}

	addLoadFlags(cmd, o)
	cmd.Flags().StringVar(&schemaPath, "schema", "", "also validate against this exported schema (.json, .yaml)")
	return cmd
}
