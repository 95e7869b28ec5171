package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the trans2ctl version, build information, and system details.`,
		// Version never needs configuration.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			if short {
				_, _ = fmt.Fprintln(w, Version)
				return
			}

			_, _ = fmt.Fprintf(w, "trans2ctl %s\n", Version)
			_, _ = fmt.Fprintf(w, "  Commit:     %s\n", Commit)
			_, _ = fmt.Fprintf(w, "  Built:      %s\n", Date)
			_, _ = fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
			_, _ = fmt.Fprintf(w, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Show only version number")
	return cmd
}
