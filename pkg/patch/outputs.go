package patch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrOutputConflict reports an output path that would overwrite an input
// container or the other output.
var ErrOutputConflict = errors.New("❌ output conflicts with another container")

// checkOutputs rejects any output that names an input container or another
// output, either by path or by file identity (hard links, symlinks).
//
// Parameters:
//   - inputs: every container read by the run, written or not
//   - outputs: the outputs that will receive frames
//
// Returns ErrOutputConflict naming both paths on the first clash.
func checkOutputs(inputs, outputs []string) error {
	for i, out := range outputs {
		for _, in := range inputs {
			clash, err := samePath(out, in)
			if err != nil {
				return err
			}
			if clash {
				return fmt.Errorf("%w: output %s is the input container %s", ErrOutputConflict, out, in)
			}
		}
		for _, other := range outputs[i+1:] {
			clash, err := samePath(out, other)
			if err != nil {
				return err
			}
			if clash {
				return fmt.Errorf("%w: outputs %s and %s are the same file", ErrOutputConflict, out, other)
			}
		}
	}
	return nil
}

// samePath reports whether a and b name one file. Paths are compared after
// cleaning; when both exist their identities are compared as well.
func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	if absA == absB || (runtime.GOOS == "windows" && strings.EqualFold(absA, absB)) {
		return true, nil
	}

	infoA, err := os.Stat(a)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sameFile(infoA, b)
}
