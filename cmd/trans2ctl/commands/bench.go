package commands

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/marmos91/smbtrans2/cmd/trans2ctl/cmdutil"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/header"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/trans2"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/types"
	"github.com/marmos91/smbtrans2/internal/bytesize"
	"github.com/marmos91/smbtrans2/internal/cli/output"
	"github.com/marmos91/smbtrans2/internal/logger"
	"github.com/marmos91/smbtrans2/internal/telemetry"
)

// benchSubcommands are cycled through Setup[0] of the generated requests.
var benchSubcommands = []types.Trans2Subcommand{
	types.Trans2FindFirst2,
	types.Trans2FindNext2,
	types.Trans2QueryFSInformation,
	types.Trans2QueryPathInformation,
	types.Trans2SetPathInformation,
	types.Trans2QueryFileInformation,
	types.Trans2SetFileInformation,
}

type benchOptions struct {
	iterations int
	workers    int
	setupCount int
	paramsSize bytesize.ByteSize
	dataSize   bytesize.ByteSize
}

func newBenchCmd(s *cmdutil.Session) *cobra.Command {
	o := &benchOptions{paramsSize: 12}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Round-trip generated requests through the codec",
		Long: `Encode and decode generated TRANSACTION2 requests concurrently and
report throughput.

Every decoded request is compared with the one that was encoded; any
difference fails the run. Decoding uses the configured strictness, so
"--strictness canonical" also checks that the encoder output is
canonical.

Sizes accept B, K, KB, Ki, KiB, M, MB, Mi and MiB suffixes.

Examples:
  trans2ctl bench --iterations 100000 --params-size 12 --data-size 4Ki
  trans2ctl bench --workers 1 --strictness canonical --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, s, o)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&o.iterations, "iterations", "n", 10000, "Number of round trips")
	f.IntVarP(&o.workers, "workers", "w", runtime.GOMAXPROCS(0), "Concurrent workers")
	f.IntVar(&o.setupCount, "setup-count", 1, "Setup words per request")
	f.Var(&o.paramsSize, "params-size", "Parameter section size")
	f.Var(&o.dataSize, "data-size", "Data section size")

	return cmd
}

func runBench(cmd *cobra.Command, s *cmdutil.Session, o *benchOptions) error {
	if o.iterations < 1 || o.workers < 1 {
		return fmt.Errorf("--iterations and --workers must be positive")
	}
	if o.setupCount < 1 || o.setupCount > trans2.MaxSetupWords {
		return fmt.Errorf("--setup-count must be between 1 and %d", trans2.MaxSetupWords)
	}
	paramsLen, err := o.paramsSize.Int(math.MaxUint16)
	if err != nil {
		return fmt.Errorf("--params-size: %w", err)
	}
	dataLen, err := o.dataSize.Int(math.MaxUint16)
	if err != nil {
		return fmt.Errorf("--data-size: %w", err)
	}

	// Reject sizes that cannot be laid out before starting workers.
	l, err := trans2.Plan(benchRequest(0, o.setupCount, paramsLen, dataLen))
	if err != nil {
		return err
	}

	ctx, span := telemetry.StartBenchSpan(cmd.Context(), o.iterations, o.workers)
	defer span.End()

	logger.InfoCtx(ctx, "bench started",
		logger.Count(o.iterations),
		"workers", o.workers,
		logger.Length(l.Length))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	start := time.Now()
	for i := range o.iterations {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return roundTrip(gctx, s.Codec, i, benchRequest(i, o.setupCount, paramsLen, dataLen))
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	result := &output.BenchResult{
		Iterations:     o.iterations,
		Workers:        o.workers,
		Strictness:     s.Codec.Strictness().String(),
		SetupCount:     o.setupCount,
		ParameterBytes: paramsLen,
		DataBytes:      dataLen,
		MessageBytes:   l.Length,
		Elapsed:        elapsed,
	}
	logger.InfoCtx(ctx, "bench finished",
		logger.DurationMs(float64(elapsed.Microseconds())/1000),
		"round_trips_per_sec", int(result.RoundTripsPerSecond()))

	return s.PrintResource(cmd.OutOrStdout(), result, result)
}

// benchRequest builds the i-th generated request. Payload bytes depend on i
// so a decoder reading the wrong offset is caught by the comparison.
func benchRequest(i, setupCount, paramsLen, dataLen int) *trans2.Request {
	setup := make([]uint16, setupCount)
	setup[0] = uint16(benchSubcommands[i%len(benchSubcommands)])
	for j := 1; j < setupCount; j++ {
		setup[j] = uint16(i + j)
	}

	h := header.New(types.CommandTransaction2)
	h.MID = uint16(i)

	return &trans2.Request{
		Header:     h,
		Setup:      setup,
		Parameters: pattern(paramsLen, byte(i)),
		Data:       pattern(dataLen, byte(i>>8)^0x5A),
	}
}

func pattern(n int, seed byte) []byte {
	if n == 0 {
		return nil
	}
	b := make([]byte, n)
	for j := range b {
		b[j] = seed + byte(j)
	}
	return b
}

func roundTrip(ctx context.Context, codec *trans2.Codec, i int, req *trans2.Request) error {
	raw, err := codec.EncodeContext(ctx, req)
	if err != nil {
		return fmt.Errorf("round trip %d: %w", i, err)
	}
	got, _, err := codec.DecodeContext(ctx, raw)
	if err != nil {
		return fmt.Errorf("round trip %d: %w", i, err)
	}

	switch {
	case !slices.Equal(got.Setup, req.Setup):
		return fmt.Errorf("round trip %d: setup words differ", i)
	case !bytes.Equal(got.Parameters, req.Parameters):
		return fmt.Errorf("round trip %d: parameter section differs", i)
	case !bytes.Equal(got.Data, req.Data):
		return fmt.Errorf("round trip %d: data section differs", i)
	case got.Header.MID != req.Header.MID:
		return fmt.Errorf("round trip %d: MID %d, want %d", i, got.Header.MID, req.Header.MID)
	}
	return nil
}
