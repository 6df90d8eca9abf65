package commands

import (
	"github.com/labrig/rigging"
	"github.com/spf13/cobra"
)

func newDumpCmd(g *globalOptions) *cobra.Command {
	o := &loadOptions{}
	var (
		asJSON  bool
		sources bool
		indent  string
	)

	cmd := &cobra.Command{
		Use:   "dump <rig-file>",
		Short: "Print the effective rig after defaults and overrides",
		Example: `  rigschema dump rig.yaml --sources
  RIG_SCREEN__BRIGHTNESS=0.5 rigschema dump rig.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := loadRig(cmd, g, o, args[0])
			if err != nil {
				return err
			}
			defer rigging.ForgetProvenance(rec)

			var opts []rigging.DumpOption
			if asJSON {
				opts = append(opts, rigging.AsJSON(), rigging.WithIndent(indent))
			}
			if sources {
				opts = append(opts, rigging.WithSources())
			}
			return rigging.DumpEffective(cmd.OutOrStdout(), rec, opts...)
		},
	}

	addLoadFlags(cmd, o)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	cmd.Flags().BoolVar(&sources, "sources", false, "show which source supplied each value")
	cmd.Flags().StringVar(&indent, "indent", "  ", "JSON indentation")
	return cmd
}
