package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/labrig/rigging"
	"github.com/labrig/rigging/catalog"
	"github.com/labrig/rigging/sourceenv"
	"github.com/labrig/rigging/sourcefile"
	"github.com/spf13/cobra"
)

// loadOptions are the flags of every command that reads a rig document.
type loadOptions struct {
	record    string
	envPrefix string
}

func addLoadFlags(cmd *cobra.Command, o *loadOptions) {
	cmd.Flags().StringVarP(&o.record, "record", "r", catalog.TestRig, "record definition the document describes")
	cmd.Flags().StringVar(&o.envPrefix, "env-prefix", "RIG_", "environment prefix for rig overrides (empty disables)")
}

// lookupDefinition finds name in the catalog or reports the known roots.
func lookupDefinition(cmd *cobra.Command, reg *rigging.Registry, name string) (*rigging.Definition, error) {
	def, ok := reg.Lookup(name)
	if !ok {
		return nil, failure(cmd.ErrOrStderr(),
			fmt.Sprintf("unknown record %q", name),
			"The catalog defines no record with this name.",
			"run 'rigschema list' to see every definition",
			fmt.Sprintf("use one of the root records: %s", strings.Join(catalog.Roots, ", ")),
		)
	}
	return def, nil
}

// loadRig reads path, layers environment overrides and instantiates the record.
func loadRig(cmd *cobra.Command, g *globalOptions, o *loadOptions, path string) (*rigging.Record, error) {
	def, err := lookupDefinition(cmd, catalog.New(), o.record)
	if err != nil {
		return nil, err
	}

	loader := rigging.NewLoader(def).
		WithSource(sourcefile.New(path, sourcefile.Options{Required: true})).
		WithLogger(g.logger(cmd))
	if o.envPrefix != "" {
		loader.WithSource(sourceenv.New(sourceenv.Options{Prefix: o.envPrefix}))
	}

	rec, err := loader.Load(cmd.Context())
	if err != nil {
		return nil, loadFailure(cmd.ErrOrStderr(), path, err)
	}
	return rec, nil
}

// readSchema parses an exported schema document in JSON or YAML.
func readSchema(path string) (*rigging.SchemaDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		tree, err := sourcefile.Decode(data, "yaml", path)
		if err != nil {
			return nil, err
		}
		if data, err = json.Marshal(tree); err != nil {
			return nil, err
		}
	}
	return rigging.ParseSchemaDocument(data)
}
