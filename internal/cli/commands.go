package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/hasscleanup/internal/version"
	"github.com/arthur-debert/hasscleanup/pkg/cleaner"
	"github.com/arthur-debert/hasscleanup/pkg/config"
	"github.com/arthur-debert/hasscleanup/pkg/logging"
	"github.com/arthur-debert/hasscleanup/pkg/ui"
)

// rootOptions holds the raw flag values. Only flags the user set are
// forwarded to the config layer so that file and env values are not
// shadowed by flag defaults.
type rootOptions struct {
	verbosity  int
	configFile string
	directory  string
	output     string
	debug      bool
	deviceID   string
	dryRun     bool
	skipBackup bool

	cfg *config.Config
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd, _ := newRootCmd()
	return rootCmd
}

// Execute runs the command tree on the process arguments and returns the
// exit code
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

// run executes args and renders a failure to stderr in the output format
// the user selected
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd, opts := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	renderer, rerr := ui.NewRenderer(opts.errorFormat(), stderr)
	if rerr == nil {
		rerr = renderer.RenderError(err)
	}
	if rerr != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

// errorFormat picks the format for a failure. The config may not have
// loaded, so the raw --output value is the fallback.
func (o *rootOptions) errorFormat() ui.Format {
	value := o.output
	if o.cfg != nil {
		value = o.cfg.Output.Format
	}
	format, err := ui.ParseFormat(value)
	if err != nil {
		return ui.FormatAuto
	}
	return format
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "hasscleanup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.LoadOptions{
				ConfigFile: opts.configFile,
				Flags:      opts.flagOverrides(cmd),
			})
			if err != nil {
				return err
			}
			opts.cfg = cfg
			logging.SetupLogger(opts.verbosity, cfg.Debug)
			log.Debug().Str("command", cmd.Name()).Str("directory", cfg.Directory).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := cleaner.Run(cleaner.Options{Config: opts.cfg})
			if err != nil {
				return err
			}
			return render(cmd, opts.cfg, result)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}
	rootCmd.SetVersionTemplate(versionText())

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVarP(&opts.configFile, "config", "c", "", MsgFlagConfig)
	pf.StringVarP(&opts.directory, "directory", "d", "", MsgFlagDirectory)
	pf.StringVarP(&opts.output, "output", "o", "", MsgFlagOutput)
	pf.BoolVar(&opts.debug, "debug", false, MsgFlagDebug)

	f := rootCmd.Flags()
	f.StringVarP(&opts.deviceID, "device-id", "i", "", MsgFlagDeviceID)
	f.BoolVarP(&opts.dryRun, "dry-run", "n", false, MsgFlagDryRun)
	f.BoolVarP(&opts.skipBackup, "skip-backup", "s", false, MsgFlagSkipBackup)
	_ = rootCmd.MarkPersistentFlagDirname("directory")
	_ = rootCmd.MarkPersistentFlagFilename("config", "toml", "yaml", "yml")

	rootCmd.AddCommand(newDevicesCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := installHelp(rootCmd); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd, opts
}

// flagOverrides maps the flags set on the command line to config keys
func (o *rootOptions) flagOverrides(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("directory") {
		flags["directory"] = o.directory
	}
	if changed("output") {
		flags["output.format"] = o.output
	}
	if changed("debug") {
		flags["debug"] = o.debug
	}
	if changed("device-id") {
		flags["device_id"] = o.deviceID
	}
	if changed("dry-run") {
		flags["dry_run"] = o.dryRun
	}
	if changed("skip-backup") && o.skipBackup {
		flags["backup.enabled"] = false
	}
	return flags
}

func render(cmd *cobra.Command, cfg *config.Config, result interface{}) error {
	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return renderer.RenderResult(result)
}

func versionText() string {
	return fmt.Sprintf(MsgVersionFormat, version.Version) +
		fmt.Sprintf(MsgCommitFormat, version.Commit) +
		fmt.Sprintf(MsgBuiltFormat, version.Date)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Args:  cobra.NoArgs,
		// Logging and config are not needed to print build metadata
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), versionText())
		},
	}
}
