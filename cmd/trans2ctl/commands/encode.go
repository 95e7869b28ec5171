package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/smbtrans2/cmd/trans2ctl/cmdutil"
	"github.com/marmos91/smbtrans2/internal/adapter/smb"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/header"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/trans2"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/types"
	"github.com/marmos91/smbtrans2/internal/cli/output"
	"github.com/marmos91/smbtrans2/pkg/config"
)

type encodeOptions struct {
	subcommand  string
	setup       string
	params      string
	data        string
	paramsFile  string
	dataFile    string
	outFile     string
	netbios     bool
	totalParams uint16
	totalData   uint16
	maxParams   uint16
	maxData     uint16
	maxSetup    uint8
	flags       uint16
	timeout     time.Duration
	mid         uint16
	tid         uint16
	uid         uint16
	pid         uint32
}

func newEncodeCmd(s *cmdutil.Session) *cobra.Command {
	o := &encodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build a TRANSACTION2 request message",
		Long: `Build a complete SMB1 TRANSACTION2 request from its sections.

Parameter and data sections are given as hex. Their offsets, the
alignment padding and the byte count are computed automatically.

In table format the message is printed as a single hex line. JSON and
YAML output also include the computed layout.

Examples:
  # QUERY_PATH_INFORMATION with a 12 byte parameter block
  trans2ctl encode --subcommand query_path_information --params 010100000000000000000000

  # Write the raw message to a file
  trans2ctl encode --subcommand find_first2 --params 16000002 --out req.bin

  # Frame the message as it travels on port 445
  trans2ctl encode --subcommand find_first2 --params 16000002 --netbios`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, s, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.subcommand, "subcommand", "", "Sub-command for Setup[0] (TRANS2_* name or number)")
	f.StringVar(&o.setup, "setup", "", "Setup words, comma-separated (after the sub-command if one is given)")
	f.StringVar(&o.params, "params", "", "Parameter section as hex")
	f.StringVar(&o.data, "data", "", "Data section as hex")
	f.StringVar(&o.paramsFile, "params-file", "", "Read the parameter section from a binary file")
	f.StringVar(&o.dataFile, "data-file", "", "Read the data section from a binary file")
	f.StringVar(&o.outFile, "out", "", "Write the raw message to this file")
	f.BoolVar(&o.netbios, "netbios", false, "Wrap the message in a NetBIOS session frame")
	f.Uint16Var(&o.totalParams, "total-params", 0, "TotalParameterCount (0 uses the section length)")
	f.Uint16Var(&o.totalData, "total-data", 0, "TotalDataCount (0 uses the section length)")
	f.Uint16Var(&o.maxParams, "max-params", 0, "MaxParameterCount (default from config)")
	f.Uint16Var(&o.maxData, "max-data", 0, "MaxDataCount (default from config)")
	f.Uint8Var(&o.maxSetup, "max-setup", 0, "MaxSetupCount (default from config)")
	f.Uint16Var(&o.flags, "flags", 0, "TRANSACTION2 flags (1=DISCONNECT_TID, 2=NO_RESPONSE)")
	f.DurationVar(&o.timeout, "timeout", 0, "Timeout (default from config)")
	f.Uint16Var(&o.mid, "mid", 0, "Header multiplex ID")
	f.Uint16Var(&o.tid, "tid", 0, "Header tree ID")
	f.Uint16Var(&o.uid, "uid", 0, "Header user ID")
	f.Uint32Var(&o.pid, "pid", 0, "Header process ID")

	cmd.MarkFlagsMutuallyExclusive("params", "params-file")
	cmd.MarkFlagsMutuallyExclusive("data", "data-file")

	return cmd
}

func runEncode(cmd *cobra.Command, s *cmdutil.Session, o *encodeOptions) error {
	req, err := o.request(cmd, s)
	if err != nil {
		return err
	}

	raw, l, err := s.Codec.EncodeLayout(cmd.Context(), req)
	if err != nil {
		return err
	}

	if o.netbios {
		if raw, err = smb.AppendFrame(nil, raw); err != nil {
			return err
		}
	}

	if o.outFile != "" {
		if err := os.WriteFile(o.outFile, raw, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", o.outFile, err)
		}
	}

	format, err := s.OutputFormat()
	if err != nil {
		return err
	}
	if format == output.FormatTable {
		printer := output.NewPrinter(cmd.OutOrStdout(), format, !s.Flags.NoColor)
		printer.Println(output.NewEncodedView(raw, l).Hex)
		return nil
	}
	return output.NewPrinter(cmd.OutOrStdout(), format, false).Print(output.NewEncodedView(raw, l))
}

// request assembles the request from flags, filling unset Max* and Timeout
// fields from the configuration.
func (o *encodeOptions) request(cmd *cobra.Command, s *cmdutil.Session) (*trans2.Request, error) {
	setup, err := cmdutil.ParseWords(o.setup)
	if err != nil {
		return nil, err
	}
	if o.subcommand != "" {
		sub, err := cmdutil.ParseSubcommand(o.subcommand)
		if err != nil {
			return nil, err
		}
		setup = append([]uint16{uint16(sub)}, setup...)
	}

	params, err := section(o.params, o.paramsFile)
	if err != nil {
		return nil, fmt.Errorf("parameters: %w", err)
	}
	data, err := section(o.data, o.dataFile)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}

	codec := s.Config.Codec
	changed := cmd.Flags().Changed
	if changed("max-params") {
		codec.MaxParameterCount = o.maxParams
	}
	if changed("max-data") {
		codec.MaxDataCount = o.maxData
	}
	if changed("max-setup") {
		codec.MaxSetupCount = o.maxSetup
	}
	if changed("timeout") {
		codec.Timeout = o.timeout
	}
	merged := *s.Config
	merged.Codec = codec
	if err := config.Validate(&merged); err != nil {
		return nil, fmt.Errorf("invalid encode flags: %w", err)
	}

	h := header.New(types.CommandTransaction2)
	h.MID = o.mid
	h.TID = o.tid
	h.UID = o.uid
	h.SetPID(o.pid)

	return &trans2.Request{
		Header:              h,
		TotalParameterCount: o.totalParams,
		TotalDataCount:      o.totalData,
		MaxParameterCount:   codec.MaxParameterCount,
		MaxDataCount:        codec.MaxDataCount,
		MaxSetupCount:       codec.MaxSetupCount,
		Flags:               types.Trans2Flags(o.flags),
		Timeout:             uint32(codec.Timeout / time.Millisecond),
		Setup:               setup,
		Parameters:          params,
		Data:                data,
	}, nil
}

// section returns the bytes given as hex, or read from path.
func section(hexInput, path string) ([]byte, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return b, nil
	}
	if hexInput == "" {
		return nil, nil
	}
	return cmdutil.DecodeHex(hexInput)
}
