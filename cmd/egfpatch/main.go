package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/provide-io/egfpatch/pkg/logging"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// buildInfo describes where the running binary came from: the VCS commit
// and commit time stamped by the Go toolchain, or the executable's
// modification time for builds without VCS data.
type buildInfo struct {
	Revision string
	Time     string
}

// readBuildInfo collects buildInfo for the running binary. Fields that cannot
// be determined are left as "unknown".
func readBuildInfo() buildInfo {
	b := buildInfo{Revision: "unknown", Time: "unknown"}

	// Step 1: VCS settings recorded at build time.
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, kv := range info.Settings {
			switch kv.Key {
			case "vcs.revision":
				b.Revision = shortRevision(kv.Value)
			case "vcs.time":
				if ts, err := time.Parse(time.RFC3339, kv.Value); err == nil {
					b.Time = ts.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if b.Time != "unknown" {
		return b
	}

	// Step 2: no commit time, fall back to the binary itself.
	exe, err := os.Executable()
	if err != nil {
		return b
	}
	if st, err := os.Stat(exe); err == nil {
		b.Time = st.ModTime().UTC().Format(time.RFC3339)
	}
	return b
}

// shortRevision trims a commit hash to the usual 12 characters.
func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// printVersion writes the version banner to the command's output.
func printVersion(cmd *cobra.Command) {
	b := readBuildInfo()
	fmt.Fprintf(cmd.OutOrStdout(), "egfpatch %s\n", version)
	fmt.Fprintf(cmd.OutOrStdout(), "Built: %s (revision %s)\n", b.Time, b.Revision)
}

func main() {
	err := newRootCmd().Execute()
	logging.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
