package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/labrig/rigging"
	"github.com/labrig/rigging/catalog"
	"github.com/spf13/cobra"
)

type exportOptions struct {
	out    string
	format string
	id     string
	all    bool
	dir    string
}

func newExportCmd(g *globalOptions) *cobra.Command {
	o := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [record]",
		Short: "Export a catalog record as a JSON Schema document",
		Long: `Export renders a record definition and everything it references as a
JSON Schema (draft-07) document. Without --out the document is printed.

Use --all to write every root record (` + fmt.Sprint(catalog.Roots) + `) into --dir.
Bundle records (` + fmt.Sprint(catalog.Bundles) + `) are exported as definitions only.`,
		Example: `  rigschema export TestRig
  rigschema export TestRig --format yaml
  rigschema export TestRig -o schemas/rig-{{timestamp}}.json
  rigschema export --all --dir schemas --id https://example.org/schemas/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, g, o, args)
		},
	}

	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write to this path instead of stdout (.json, .yaml or .yml; supports {{timestamp}})")
	cmd.Flags().StringVarP(&o.format, "format", "f", "json", "output format when printing or with --all: json or yaml")
	cmd.Flags().StringVar(&o.id, "id", "", "$id of the exported document; with --all, the base URI each file name is appended to")
	cmd.Flags().BoolVar(&o.all, "all", false, "export every root record")
	cmd.Flags().StringVar(&o.dir, "dir", "schemas", "output directory for --all")
	return cmd
}

func runExport(cmd *cobra.Command, g *globalOptions, o *exportOptions, args []string) error {
	log := g.logger(cmd)
	errOut := cmd.ErrOrStderr()

	if o.format != "json" && o.format != "yaml" {
		return failure(errOut, fmt.Sprintf("unsupported format %q", o.format), "", "use --format json or --format yaml")
	}

	reg := catalog.New()

	if o.all {
		for _, name := range catalog.Roots {
			def, err := lookupDefinition(cmd, reg, name)
			if err != nil {
				return err
			}
			file := name + "." + o.format
			id := ""
			if o.id != "" {
				id = strings.TrimSuffix(o.id, "/") + "/" + file
			}
			doc := rigging.Export(def, exportOptionsFor(name, id)...)
			path, err := rigging.WriteSchema(doc, filepath.Join(o.dir, file))
			if err != nil {
				return failure(errOut, fmt.Sprintf("failed to write schema for %s", name), err.Error())
			}
			log.Info("schema written", "record", name, "path", path)
			success(cmd.OutOrStdout(), "%s -> %s", name, path)
		}
		return nil
	}

	if len(args) == 0 {
		return failure(errOut, "no record given", "",
			"pass a record name, e.g. 'rigschema export TestRig'",
			"use --all to export every root record",
		)
	}

	def, err := lookupDefinition(cmd, reg, args[0])
	if err != nil {
		return err
	}

	doc := rigging.Export(def, exportOptionsFor(def.Name(), o.id)...)
	log.Debug("schema exported", "record", def.Name(), "definitions", len(doc.DefinitionNames()))

	if o.out != "" {
		path, err := rigging.WriteSchema(doc, o.out)
		if err != nil {
			return failure(errOut, fmt.Sprintf("failed to write schema for %s", def.Name()), err.Error(),
				"use a .json, .yaml or .yml extension")
		}
		success(cmd.OutOrStdout(), "wrote schema for %s to %s", def.Name(), path)
		return nil
	}

	var data []byte
	if o.format == "yaml" {
		data, err = doc.YAML()
	} else {
		data, err = doc.JSON("  ")
		data = append(data, '\n')
	}
	if err != nil {
		return failure(errOut, fmt.Sprintf("failed to render schema for %s", def.Name()), err.Error())
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func exportOptionsFor(name, id string) []rigging.ExportOption {
	var opts []rigging.ExportOption
	if id != "" {
		opts = append(opts, rigging.WithSchemaID(id))
	}
	if catalog.IsBundle(name) {
		opts = append(opts, rigging.WithoutRootProperties())
	}
	return opts
}
