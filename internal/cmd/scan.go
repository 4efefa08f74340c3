package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/Gino-Tonic/LogPeek/internal/config"
	"github.com/Gino-Tonic/LogPeek/internal/export"
	"github.com/Gino-Tonic/LogPeek/internal/logging"
	"github.com/Gino-Tonic/LogPeek/internal/output"
	"github.com/Gino-Tonic/LogPeek/internal/scanner"
)

// runScan performs Scan → Report → Export. A scan failure still reports
// and exports whatever was collected; the exit code reflects the first
// failure in that order.
func runScan(cfg config.Config, stdout, stderr io.Writer) error {
	logger := logging.New(stderr, cfg.LoggerOptions())

	logger.Info(fmt.Sprintf("Scanning %s for pattern: %s", cfg.Log, cfg.Pattern))
	res, scanErr := scanner.Scan(cfg.Log, cfg.Pattern, cfg.ScanOptions(), logger)

	if res.Truncated > 0 {
		logger.Warn(fmt.Sprintf("%d line(s) truncated to %d bytes", res.Truncated, cfg.MaxLineBytes))
	}
	logger.Debug(fmt.Sprintf("Scanned %d file(s), %d lines, %d matches", len(res.Files), res.LinesRead, len(res.Matches)))

	renderer, err := output.New(cfg.Output, logger, stdout, len(res.Files) > 1)
	if err != nil {
		return err
	}
	var writeErr error
	if err := output.Report(renderer, logger, res.Matches); err != nil {
		logger.Error(fmt.Sprintf("Failed to write results: %v", err))
		writeErr = err
	}

	if cfg.JSON != "" {
		err := export.Save(logger, res.Matches, cfg.JSON, cfg.Pattern)
		if err != nil && !errors.Is(err, export.ErrNothingToSave) && writeErr == nil {
			writeErr = err
		}
	}

	switch {
	case scanErr != nil:
		return &ExitError{Code: ExitScanFailed, Err: scanErr}
	case writeErr != nil:
		return &ExitError{Code: ExitWriteFailed, Err: writeErr}
	}
	return nil
}
