package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/smbtrans2/cmd/trans2ctl/cmdutil"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/trans2"
	"github.com/marmos91/smbtrans2/internal/cli/output"
)

type layoutOptions struct {
	setupCount int
	paramsLen  int
	dataLen    int
}

func newLayoutCmd(s *cmdutil.Session) *cobra.Command {
	o := &layoutOptions{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show where the sections of a request would be placed",
		Long: `Compute the wire layout of a TRANSACTION2 request without building it.

Prints the offset and size of every region of the message: the fixed
header and parameter words, the setup words, the byte count, the name
byte, both alignment pads and the two sections.

Examples:
  trans2ctl layout --setup-count 1 --params-len 12
  trans2ctl layout --setup-count 1 --params-len 4 --data-len 40 -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := trans2.Plan(o.request())
			if err != nil {
				return err
			}
			return s.PrintResource(cmd.OutOrStdout(), l, output.LayoutView{Layout: l})
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.setupCount, "setup-count", 1, "Number of setup words")
	f.IntVar(&o.paramsLen, "params-len", 0, "Parameter section length in bytes")
	f.IntVar(&o.dataLen, "data-len", 0, "Data section length in bytes")

	return cmd
}

// request returns a zero-filled request with the requested section sizes.
// Negative sizes are treated as zero.
func (o *layoutOptions) request() *trans2.Request {
	return &trans2.Request{
		Setup:      make([]uint16, max(o.setupCount, 0)),
		Parameters: make([]byte, max(o.paramsLen, 0)),
		Data:       make([]byte, max(o.dataLen, 0)),
	}
}
