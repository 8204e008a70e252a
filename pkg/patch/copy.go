package patch

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrCopyMismatch reports a container copy whose content differs from its
// source.
var ErrCopyMismatch = errors.New("❌ container copy does not match source")

// fileChecksum returns the prefixed SHA-256 of the file at path.
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}

// copyContainer copies src to dst, syncs it, and checks the copy against the
// source checksum. The source is only ever opened for reading.
func copyContainer(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open container: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", err
	}
	if same, err := sameFile(info, dst); err != nil {
		return "", err
	} else if same {
		return "", fmt.Errorf("output %s is the input container", dst)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return "", fmt.Errorf("failed to create output: %w", err)
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to copy container: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to sync output: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close output: %w", err)
	}

	want := "sha256:" + hex.EncodeToString(h.Sum(nil))
	got, err := fileChecksum(dst)
	if err != nil {
		return "", err
	}
	if got != want {
		return "", fmt.Errorf("%w: %s has %s, want %s", ErrCopyMismatch, dst, got, want)
	}
	return want, nil
}

func sameFile(src os.FileInfo, dst string) (bool, error) {
	info, err := os.Stat(dst)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return os.SameFile(src, info), nil
}
