package patch

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/egfpatch/pkg/resources"
	"github.com/provide-io/egfpatch/pkg/sheet"
)

// Target is one container receiving a share of the frames.
type Target struct {
	Path   string // container to read; never modified
	Output string // patched copy; DefaultOutput(Path) when empty
	Gap    int    // distance between the highest existing bitmap and the first new one
}

// Options configures a patch run.
type Options struct {
	Sheet      string
	Grid       sheet.GridSpec
	Layout     sheet.Layout
	Primary    Target
	Secondary  Target
	FirstCount int // frames for Primary; AutoFirstCount for the default
	DryRun     bool
	DumpDir    string
}

// DefaultOptions returns the reference sheet configuration for the given
// inputs.
func DefaultOptions(sheetPath, primary, secondary string) Options {
	return Options{
		Sheet:      sheetPath,
		Grid:       sheet.DefaultGrid(),
		Layout:     sheet.DefaultLayout(),
		Primary:    Target{Path: primary, Gap: DefaultPrimaryGap},
		Secondary:  Target{Path: secondary, Gap: DefaultSecondaryGap},
		FirstCount: AutoFirstCount,
	}
}

// Result describes the bitmaps written to one container.
type Result struct {
	Container string
	Output    string
	Existing  uint16 // highest bitmap identifier before the run
	Start     uint16
	IDs       []uint16
	Checksum  string // of the copy before patching; empty on dry runs
}

// Report summarizes a run.
type Report struct {
	Frames  int
	DryRun  bool
	Results []Result
}

// Patcher runs lookup, slicing and injection.
type Patcher struct {
	Directory resources.Directory
	Updater   resources.Updater
	Logger    hclog.Logger
}

// NewPatcher returns a Patcher. A nil logger discards output.
func NewPatcher(dir resources.Directory, u resources.Updater, logger hclog.Logger) *Patcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Patcher{Directory: dir, Updater: u, Logger: logger}
}

type plannedTarget struct {
	Target
	existing uint16
	start    uint16
	payloads [][]byte
}

// Run patches both targets.
//
// The run reads the existing bitmap identifiers of both containers, slices
// the sheet, splits the frames between the containers and writes each share
// into a fresh copy of its container. Inputs are never opened for writing.
//
// Parameters:
//   - opts: sheet, grid, layout and the two targets; see DefaultOptions
//
// Returns the report of the containers patched so far. The first failure
// stops the run; every check that can fail without touching the filesystem
// (lookup, bounds, identifier range, output clashes) runs before any frame
// is dumped or any container is copied.
func (p *Patcher) Run(opts Options) (*Report, error) {
	// Step 1: plan identifiers from the current contents of each container.
	targets := []Target{opts.Primary, opts.Secondary}
	planned := make([]plannedTarget, len(targets))
	for i, t := range targets {
		if t.Output == "" {
			t.Output = DefaultOutput(t.Path)
		}
		ids, err := p.Directory.BitmapIDs(t.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read bitmap identifiers: %w", err)
		}
		start, err := NextID(ids, t.Gap)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Path, err)
		}
		planned[i] = plannedTarget{Target: t, existing: resources.MaxID(ids), start: start}
		p.Logger.Debug("Existing bitmaps", "container", t.Path, "count", len(ids), "max", planned[i].existing, "next", start)
	}

	// Step 2: cut every frame; out-of-bounds rectangles fail here.
	img, err := sheet.Load(opts.Sheet)
	if err != nil {
		return nil, err
	}
	frames, err := sheet.NewSlicer(opts.Grid, opts.Layout, p.Logger.Named("slicer")).Slice(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Sheet, err)
	}

	// Step 3: split the payloads between the two containers.
	payloads := make([][]byte, len(frames))
	for i, f := range frames {
		payloads[i] = f.DIB
	}

	firstCount := opts.FirstCount
	if firstCount < 0 {
		firstCount = DefaultFirstCount(opts.Grid)
	}
	planned[0].payloads, planned[1].payloads = Split(payloads, firstCount)

	// Step 4: refuse outputs that clash with an input or with each other.
	// Dry runs check them as well.
	var inputs, outputs []string
	for _, t := range planned {
		inputs = append(inputs, t.Path)
		if len(t.payloads) > 0 {
			outputs = append(outputs, t.Output)
		}
	}
	if err := checkOutputs(inputs, outputs); err != nil {
		return nil, err
	}

	if opts.DumpDir != "" {
		paths, err := sheet.WriteFrames(opts.DumpDir, frames)
		if err != nil {
			return nil, err
		}
		p.Logger.Info("Dumped frames", "dir", opts.DumpDir, "count", len(paths))
	}

	// Step 5: copy and inject, one container at a time.
	updater := p.Updater
	if opts.DryRun {
		updater = resources.NewMemoryUpdater()
	}
	injector := resources.NewInjector(updater, p.Logger.Named("injector"))

	report := &Report{Frames: len(frames), DryRun: opts.DryRun}
	for _, t := range planned {
		if len(t.payloads) == 0 {
			p.Logger.Info("No frames for container, skipping", "container", t.Path)
			continue
		}
		res, err := p.patchOne(injector, t, opts.DryRun)
		if err != nil {
			return report, err
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// patchOne copies t.Path to t.Output and injects t.payloads into the copy.
// A copy whose injection fails is removed again.
func (p *Patcher) patchOne(injector *resources.Injector, t plannedTarget, dryRun bool) (Result, error) {
	res := Result{Container: t.Path, Output: t.Output, Existing: t.existing, Start: t.start}

	p.Logger.Info("Creating patched container", "output", t.Output, "frames", len(t.payloads))
	if !dryRun {
		sum, err := copyContainer(t.Path, t.Output)
		if err != nil {
			return res, err
		}
		res.Checksum = sum
		p.Logger.Debug("Copied container", "source", t.Path, "output", t.Output, "checksum", sum)
	}

	ids, err := injector.Inject(t.Output, t.payloads, t.start)
	if err != nil {
		if !dryRun {
			if rmErr := os.Remove(t.Output); rmErr != nil {
				p.Logger.Warn("Failed to remove unpatched copy", "output", t.Output, "error", rmErr)
			}
		}
		return res, err
	}
	res.IDs = ids
	return res, nil
}
