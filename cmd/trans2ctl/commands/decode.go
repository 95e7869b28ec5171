package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/smbtrans2/cmd/trans2ctl/cmdutil"
	"github.com/marmos91/smbtrans2/internal/adapter/smb"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/trans2"
	"github.com/marmos91/smbtrans2/internal/cli/output"
	"github.com/marmos91/smbtrans2/internal/logger"
)

type decodeOptions struct {
	file    string
	netbios bool
}

func newDecodeCmd(s *cmdutil.Session) *cobra.Command {
	o := &decodeOptions{}

	cmd := &cobra.Command{
		Use:   "decode [HEX]",
		Short: "Parse a TRANSACTION2 request message",
		Long: `Parse a complete SMB1 TRANSACTION2 request and print its fields.

The message is read from the HEX argument, from a binary file given with
--file, or as hex from stdin when neither is set (or HEX is "-").

Validation follows --strictness: lenient accepts unaligned section
offsets with a warning, strict rejects them and requires the sections to
lie inside the byte block, canonical also requires the exact layout the
encoder produces.

Examples:
  # Decode a hex dump
  trans2ctl decode ff534d4232000000...

  # Decode a captured message strictly
  trans2ctl decode --file req.bin --strictness strict -o json

  # Decode a frame captured from port 445
  trans2ctl decode --netbios --file frame.bin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, s, o, args)
		},
	}

	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Read the raw message from a binary file")
	cmd.Flags().BoolVar(&o.netbios, "netbios", false, "Input starts with a NetBIOS session frame header")

	return cmd
}

func runDecode(cmd *cobra.Command, s *cmdutil.Session, o *decodeOptions, args []string) error {
	raw, source, err := o.input(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if lc := logger.FromContext(ctx); lc != nil {
		lc = lc.Clone()
		lc.Source = source
		ctx = logger.WithContext(ctx, lc)
	}

	if o.netbios {
		if raw, err = smb.ReadFrame(ctx, bytes.NewReader(raw), len(raw)); err != nil {
			return fmt.Errorf("decode %s: %w", source, err)
		}
	}

	req, l, err := s.Codec.DecodeContext(ctx, raw)
	if err != nil {
		return fmt.Errorf("decode %s: %w", source, err)
	}

	format, err := s.OutputFormat()
	if err != nil {
		return err
	}
	if format == output.FormatTable && !aligned(l) {
		output.NewPrinter(cmd.ErrOrStderr(), format, !s.Flags.NoColor).
			Warning("warning: section offsets are not 4-byte aligned")
	}

	view := output.NewRequestView(req, l)
	return s.PrintResource(cmd.OutOrStdout(), view, view)
}

// input returns the message bytes and a label for where they came from.
func (o *decodeOptions) input(stdin io.Reader, args []string) ([]byte, string, error) {
	if o.file != "" {
		if len(args) > 0 {
			return nil, "", fmt.Errorf("--file and a HEX argument are mutually exclusive")
		}
		b, err := os.ReadFile(o.file)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", o.file, err)
		}
		return b, o.file, nil
	}

	if len(args) == 1 && args[0] != "-" {
		b, err := cmdutil.DecodeHex(args[0])
		return b, "arg", err
	}

	text, err := io.ReadAll(stdin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read stdin: %w", err)
	}
	b, err := cmdutil.DecodeHex(string(text))
	return b, "stdin", err
}

func aligned(l *trans2.Layout) bool {
	return l.ParameterOffset%4 == 0 && l.DataOffset%4 == 0
}
