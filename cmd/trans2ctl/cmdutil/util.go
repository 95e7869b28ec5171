// Package cmdutil provides shared utilities for trans2ctl commands.
package cmdutil

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/trans2"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/types"
	"github.com/marmos91/smbtrans2/internal/cli/output"
	"github.com/marmos91/smbtrans2/pkg/config"
)

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ConfigPath string
	Output     string
	Strictness string
	LogLevel   string
	NoColor    bool
	Verbose    bool
	Metrics    bool
}

// Session is the state shared by the subcommands of one invocation. The
// root command fills it before any subcommand runs.
type Session struct {
	Flags    GlobalFlags
	Config   *config.Config
	Codec    *trans2.Codec
	Registry *prometheus.Registry

	closers []func(context.Context) error
}

// OnClose registers f to run when the session closes. Functions run in
// reverse registration order.
func (s *Session) OnClose(f func(context.Context) error) {
	s.closers = append(s.closers, f)
}

// Close runs the registered close functions once and joins their errors.
func (s *Session) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	s.closers = nil
	return errors.Join(errs...)
}

// OutputFormat returns the parsed output format.
func (s *Session) OutputFormat() (output.Format, error) {
	return output.ParseFormat(s.Config.Output.Format)
}

// PrintResource prints data in the configured format. For table format it
// uses the provided tableRenderer.
func (s *Session) PrintResource(w io.Writer, data any, tableRenderer output.TableRenderer) error {
	format, err := s.OutputFormat()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		return output.PrintTable(w, tableRenderer)
	}
}

// DumpMetrics writes every gathered metric family in the Prometheus text
// format. It is a no-op when metrics are disabled.
func (s *Session) DumpMetrics(w io.Writer) error {
	if s.Registry == nil {
		return nil
	}
	families, err := s.Registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// DecodeHex parses a hex dump. Whitespace, a leading "0x" and ':' or '-'
// byte separators are ignored.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' || r == '-' {
			return -1
		}
		return r
	}, s)
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return b, nil
}

// ParseSubcommand accepts a TRANS2_* name (prefix optional) or a number.
func ParseSubcommand(s string) (types.Trans2Subcommand, error) {
	if n, err := strconv.ParseUint(s, 0, 16); err == nil {
		return types.Trans2Subcommand(n), nil
	}
	return types.ParseTrans2Subcommand(s)
}

// ParseWords parses a comma-separated list of 16-bit words. Each word may
// be decimal or 0x-prefixed hex.
func ParseWords(input string) ([]uint16, error) {
	var words []uint16
	for _, item := range ParseCommaSeparatedList(input) {
		n, err := strconv.ParseUint(item, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid setup word %q: %w", item, err)
		}
		words = append(words, uint16(n))
	}
	return words, nil
}

// ParseCommaSeparatedList splits a comma-separated string into a slice,
// trimming whitespace and filtering out empty items.
func ParseCommaSeparatedList(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
