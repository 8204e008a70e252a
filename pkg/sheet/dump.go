package sheet

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
)

// WriteFrames saves every frame under dir as frame_NN.png and returns the
// written paths.
func WriteFrames(dir string, frames []Frame) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create dump directory: %w", err)
	}

	paths := make([]string, 0, len(frames))
	for _, f := range frames {
		p := filepath.Join(dir, fmt.Sprintf("frame_%02d.png", f.Index))
		if err := writePNG(p, f); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writePNG(path string, f Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, f.Image); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode frame %d: %w", f.Index, err)
	}
	return out.Close()
}
