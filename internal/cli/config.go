package cli

import (
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/hasscleanup/pkg/config"
	"github.com/arthur-debert/hasscleanup/pkg/errors"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var (
		format   string
		defaults bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long:  MsgConfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := io.WriteString(cmd.OutOrStdout(), config.DefaultsContent())
				return err
			}

			var (
				data []byte
				err  error
			)
			switch strings.ToLower(format) {
			case "toml", "":
				data, err = toml.Marshal(opts.cfg)
			case "yaml", "yml":
				data, err = yaml.Marshal(opts.cfg)
			default:
				return errors.Newf(errors.ErrInvalidInput, "unknown config format %q (want toml or yaml)", format)
			}
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", MsgFlagFormat)
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"toml", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}
