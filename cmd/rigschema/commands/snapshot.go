package commands

import (
	"fmt"

	"github.com/labrig/rigging"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(g *globalOptions) *cobra.Command {
	o := &loadOptions{}
	var (
		out     string
		exclude []string
	)

	cmd := &cobra.Command{
		Use:   "snapshot <rig-file>",
		Short: "Record the effective rig and its provenance to a file",
		Example: `  rigschema snapshot rig.yaml
  rigschema snapshot rig.yaml -o runs/{{timestamp}}/rig.json --exclude cameras.body.serial_number`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := loadRig(cmd, g, o, args[0])
			if err != nil {
				return err
			}
			defer rigging.ForgetProvenance(rec)

			snap, err := rigging.CreateSnapshot(rec, rigging.WithExcludeFields(exclude...))
			if err != nil {
				return failure(cmd.ErrOrStderr(), "failed to create snapshot", err.Error())
			}
			step(cmd.OutOrStdout(), "captured %d values of %s", len(snap.Values), snap.Record)

			path, err := rigging.WriteSnapshot(snap, out)
			if err != nil {
				return failure(cmd.ErrOrStderr(), fmt.Sprintf("failed to write snapshot to %s", out), err.Error())
			}
			g.logger(cmd).Info("snapshot written", "id", snap.ID, "path", path)
			success(cmd.OutOrStdout(), "snapshot %s written to %s", snap.ID, path)
			return nil
		},
	}

	addLoadFlags(cmd, o)
	cmd.Flags().StringVarP(&out, "out", "o", "snapshots/rig-{{timestamp}}.json", "snapshot path (supports {{timestamp}})")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "field paths to leave out, with everything below them")
	return cmd
}
