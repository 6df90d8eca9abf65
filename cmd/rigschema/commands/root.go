package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/labrig/rigging/internal/logging"
	"github.com/labrig/rigging/sourceenv"
	"github.com/spf13/cobra"
)

// EnvPrefix prefixes environment variables that stand in for unset flags:
// RIGSCHEMA_LOG_LEVEL=debug acts like --log-level=debug.
const EnvPrefix = "RIGSCHEMA_"

var versionString = "dev"

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	logLevel  string
	logFormat string
}

func (o *globalOptions) logger(cmd *cobra.Command) *slog.Logger {
	return logging.New(o.logLevel, o.logFormat, cmd.ErrOrStderr())
}

// NewRootCmd builds the rigschema command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "rigschema",
		Short: "rigschema - typed lab rig configuration tool",
		Long: `rigschema validates lab rig documents against the rig catalog, exports the
catalog as JSON Schema and captures the effective configuration of a rig.

Rig documents may be YAML, JSON, TOML or HCL. Values can be overridden from
the environment (RIG_* by default), and every flag falls back to a RIGSCHEMA_*
variable when it is not given on the command line.`,
		Version: versionString,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyEnvDefaults(cmd)
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{},
		SilenceErrors:      true,
		SilenceUsage:       true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		newExportCmd(opts),
		newValidateCmd(opts),
		newDumpCmd(opts),
		newSnapshotCmd(opts),
		newListCmd(),
	)
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	versionString = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// applyEnvDefaults sets every flag the user did not pass from its RIGSCHEMA_*
// variable, e.g. --env-prefix from RIGSCHEMA_ENV_PREFIX.
func applyEnvDefaults(cmd *cobra.Command) error {
	env, err := sourceenv.New(sourceenv.Options{Prefix: EnvPrefix, Raw: true}).Load(cmd.Context())
	if err != nil {
		return err
	}

	for key, value := range env {
		s, ok := value.(string)
		if !ok {
			continue
		}
		flag := cmd.Flags().Lookup(strings.ReplaceAll(key, "_", "-"))
		if flag == nil || flag.Changed {
			continue
		}
		if err := flag.Value.Set(s); err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
	}
	return nil
}
