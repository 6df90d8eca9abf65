package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/labrig/rigging"
	"github.com/labrig/rigging/catalog"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog records and variant groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputTable(cmd.OutOrStdout(), catalog.New())
			return nil
		},
	}
}

func outputTable(w io.Writer, reg *rigging.Registry) {
	fmt.Fprintf(w, "%-28s %-16s %s\n", "RECORD", "EXTENDS", "FIELDS")
	for _, def := range reg.Definitions() {
		parent := "-"
		if def.Parent() != nil {
			parent = def.Parent().Name()
		}
		fmt.Fprintf(w, "%-28s %-16s %d\n", def.Name(), parent, len(def.Fields()))
	}

	fmt.Fprintf(w, "\n%-28s %-16s %s\n", "GROUP", "DISCRIMINANT", "TAGS")
	for _, g := range reg.Groups() {
		fmt.Fprintf(w, "%-28s %-16s %s\n", g.Name(), g.DiscriminantExternal(), strings.Join(g.Tags(), ", "))
	}
}
