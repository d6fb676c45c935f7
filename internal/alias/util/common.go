package util

import (
	"log/slog"
	"os"
)

// CloseFileFunc closes f and logs the error instead of returning it.
// Meant for defer on files that were only read.
func CloseFileFunc(f *os.File) {
	if err := f.Close(); err != nil {
		slog.Warn("close file", "name", f.Name(), "err", err)
	}
}
