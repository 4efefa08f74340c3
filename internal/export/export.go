package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Gino-Tonic/LogPeek/internal/model"
)

var (
	// ErrNothingToSave is returned when there are no matches to export.
	// Nothing is written in that case.
	ErrNothingToSave = errors.New("no matches to save")
	// ErrWrite wraps any failure to produce the output file.
	ErrWrite = errors.New("failed to write JSON")
)

// Indent is the per-level indentation of exported files.
const Indent = "    "

// Encode writes matches to w as an indented JSON array.
func Encode(w io.Writer, matches []model.Match) error {
	if matches == nil {
		matches = []model.Match{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", Indent)
	enc.SetEscapeHTML(false)
	return enc.Encode(matches)
}

// WriteFile writes matches to path. Regular files are replaced atomically
// and keep their permissions; symlinks, devices and other non-regular
// targets are written in place.
func WriteFile(path string, matches []model.Match) error {
	var buf bytes.Buffer
	if err := Encode(&buf, matches); err != nil {
		return err
	}

	perm := os.FileMode(0644)
	info, err := os.Lstat(path)
	switch {
	case err == nil && !info.Mode().IsRegular():
		return os.WriteFile(path, buf.Bytes(), perm)
	case err == nil:
		perm = info.Mode().Perm()
	}

	// Write to a temp file first, then rename for atomicity.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Save exports matches to path. An empty match list is not written; the
// pattern only appears in the warning logged for that case.
func Save(logger *slog.Logger, matches []model.Match, path, pattern string) error {
	if len(matches) == 0 {
		logger.Warn(fmt.Sprintf("No matches found for %q to save.", pattern))
		return ErrNothingToSave
	}

	if err := WriteFile(path, matches); err != nil {
		logger.Error(fmt.Sprintf("Failed to write to JSON: %v", err))
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	logger.Info(fmt.Sprintf("%d results saved to %s", len(matches), path))
	return nil
}
