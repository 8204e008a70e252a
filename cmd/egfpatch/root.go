package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/egfpatch/pkg/logging"
	"github.com/provide-io/egfpatch/pkg/patch"
	"github.com/provide-io/egfpatch/pkg/resources"
	"github.com/spf13/cobra"
)

const (
	backendWinres   = "winres"
	backendKernel32 = "kernel32"
)

type rootFlags struct {
	opts       patch.Options
	backend    string
	logLevel   string
	versionReq bool
}

func defaultBackend() string {
	if runtime.GOOS == "windows" {
		return backendKernel32
	}
	return backendWinres
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{opts: patch.DefaultOptions("", "", "")}

	cmd := &cobra.Command{
		Use:   "egfpatch <sheet> <egf1> <egf2>",
		Short: "Slice a sprite sheet into bitmap resources of two EGF files",
		Long: `Slice a sprite sheet into frames and add them as RT_BITMAP resources
to patched copies of two EGF resource files. The first --first-count frames go
to <egf1>, numbered after its highest bitmap plus --gap1; the rest go to <egf2>
after its highest bitmap plus --gap2.`,
		SilenceUsage: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if f.versionReq {
				return nil
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.versionReq {
				printVersion(cmd)
				return nil
			}
			return runPatch(cmd, f, args)
		},
	}

	fl := cmd.Flags()
	g := &f.opts.Grid
	fl.IntVar(&g.FrameWidth, "sprite-width", g.FrameWidth, "Sprite width")
	fl.IntVar(&g.FrameHeight, "sprite-height", g.FrameHeight, "Sprite height")
	fl.IntVar(&g.OriginX, "start-x", g.OriginX, "X position of the first sprite")
	fl.IntVar(&g.OriginY, "start-y", g.OriginY, "Y position of the first sprite")
	fl.IntVar(&g.GapX, "gap-x", g.GapX, "Horizontal gap between sprites")
	fl.IntVar(&g.GapY, "gap-y", g.GapY, "Vertical gap between sprites")
	fl.IntVar(&g.Rows, "rows", g.Rows, "Number of rows")
	fl.IntVar(&g.Cols, "cols", g.Cols, "Number of columns")
	fl.IntVar(&f.opts.Primary.Gap, "gap1", f.opts.Primary.Gap, "Identifier gap before the new bitmaps in <egf1>")
	fl.IntVar(&f.opts.Secondary.Gap, "gap2", f.opts.Secondary.Gap, "Identifier gap before the new bitmaps in <egf2>")
	fl.IntVar(&f.opts.FirstCount, "first-count", patch.AutoFirstCount, "Frames for <egf1> (default min(rows*cols, 22))")
	fl.StringVar(&f.opts.Primary.Output, "output1", "", "Output for <egf1> (default <egf1>_updated.egf)")
	fl.StringVar(&f.opts.Secondary.Output, "output2", "", "Output for <egf2> (default <egf2>_updated.egf)")
	fl.StringVar(&f.backend, "backend", defaultBackend(), "Resource update backend: winres or kernel32")
	fl.BoolVar(&f.opts.DryRun, "dry-run", false, "Slice and allocate identifiers without writing outputs")
	fl.StringVar(&f.opts.DumpDir, "dump-dir", "", "Write every frame as PNG into this directory")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, json[:level])")
	fl.BoolVarP(&f.versionReq, "version", "V", false, "Show version information")

	cmd.AddCommand(newIDsCmd(&f.logLevel))
	return cmd
}

func newLogger(level string) hclog.Logger {
	s := logging.ResolveSettings(level)
	logger := logging.NewLogger("egfpatch", s, nil)
	logger.Debug("Log level", "level", s.Level, "source", s.Source)
	return logger
}

func newUpdater(backend string, logger hclog.Logger) (resources.Updater, error) {
	switch strings.ToLower(backend) {
	case backendWinres:
		return resources.NewWinresUpdater(logger.Named("winres")), nil
	case backendKernel32:
		return resources.NewKernel32Updater(logger.Named("kernel32"))
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", backend, backendWinres, backendKernel32)
	}
}

func runPatch(cmd *cobra.Command, f *rootFlags, args []string) error {
	logger := newLogger(f.logLevel)

	opts := f.opts
	opts.Sheet = args[0]
	opts.Primary.Path = args[1]
	opts.Secondary.Path = args[2]

	updater, err := newUpdater(f.backend, logger)
	if err != nil {
		return err
	}

	report, err := patch.NewPatcher(resources.PEDirectory{}, updater, logger).Run(opts)
	if report != nil {
		printReport(cmd.OutOrStdout(), report)
	}
	return err
}

func printReport(w io.Writer, report *patch.Report) {
	ok := color.New(color.FgGreen, color.Bold)
	for _, r := range report.Results {
		ok.Fprintf(w, "✔ %s", r.Output)
		fmt.Fprintf(w, " (%d sprites, after bitmap %d)\n", len(r.IDs), r.Existing)
		fmt.Fprintf(w, "  Resource IDs used: %v\n", r.IDs)
	}
	if report.DryRun {
		color.New(color.FgYellow).Fprintln(w, "Dry run: no files written")
		return
	}
	fmt.Fprintln(w, "Done!")
}
