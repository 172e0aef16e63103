package cli

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/hasscleanup/pkg/cleaner"
)

func newDevicesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: MsgDevicesShort,
		Long:  MsgDevicesLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := cleaner.ListDevices(cleaner.Options{Config: opts.cfg})
			if err != nil {
				return err
			}
			return render(cmd, opts.cfg, inv)
		},
	}
}
