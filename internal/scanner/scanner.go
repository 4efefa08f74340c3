package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/Gino-Tonic/LogPeek/internal/model"
)

// Result holds the outcome of a scan. On failure it still carries the
// matches collected before the error.
type Result struct {
	Matches   []model.Match
	Files     []string // sources scanned, in order
	LinesRead int
	Truncated int // lines cut to MaxLineBytes
}

// Scanner tests every line of its input against a case-insensitive pattern.
type Scanner struct {
	re      *regexp.Regexp
	pattern string
	enc     encoding.Encoding
	opts    Options
	log     *slog.Logger
}

// Compile builds the case-insensitive matcher for pattern.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	return re, nil
}

// New compiles pattern and returns a Scanner. An invalid pattern is logged
// and returned as ErrInvalidPattern.
func New(pattern string, opts Options, logger *slog.Logger) (*Scanner, error) {
	oo := opts.withDefaults()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	re, err := Compile(pattern)
	if err != nil {
		logger.Error(fmt.Sprintf("Invalid regex pattern: %s", pattern))
		return nil, err
	}

	enc, err := LookupEncoding(oo.Encoding)
	if err != nil {
		return nil, err
	}

	return &Scanner{
		re:      re,
		pattern: pattern,
		enc:     enc,
		opts:    oo,
		log:     logger,
	}, nil
}

// Pattern returns the pattern as given by the caller.
func (s *Scanner) Pattern() string { return s.pattern }

// Scan reads each path in turn and stops at the first failure.
func (s *Scanner) Scan(paths []string) (*Result, error) {
	res := &Result{}
	for _, p := range paths {
		if err := s.scanPath(p, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// ScanFile scans a single file, or standard input when path is "-".
func (s *Scanner) ScanFile(path string) (*Result, error) {
	return s.Scan([]string{path})
}

// ScanReader scans r, labelling matches with source.
func (s *Scanner) ScanReader(r io.Reader, source string) (*Result, error) {
	res := &Result{}
	err := s.scan(r, source, res)
	return res, err
}

func (s *Scanner) scanPath(path string, res *Result) error {
	if path == "-" {
		return s.scan(s.opts.Stdin, path, res)
	}

	f, err := os.Open(path)
	if err != nil {
		return s.openError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return s.openError(path, err)
	}
	if info.IsDir() {
		s.log.Error(fmt.Sprintf("Expected a file but found a directory: %s", path))
		return fmt.Errorf("%w: %s", ErrInputIsDirectory, path)
	}

	return s.scan(f, path, res)
}

// openError classifies and logs a failure to open or stat path.
func (s *Scanner) openError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Error(fmt.Sprintf("File not found: %s", path))
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		s.log.Error(fmt.Sprintf("Permission denied: %s", path))
		return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
	default:
		s.log.Error(fmt.Sprintf("An error occurred: %v", err))
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
}

// scan appends the matches found in r to res.
func (s *Scanner) scan(r io.Reader, source string, res *Result) error {
	res.Files = append(res.Files, source)

	br, closeStream, err := openStream(r, s.enc, s.opts.GzipAutoDetect, s.opts.ReaderBufferBytes)
	if err != nil {
		s.log.Error(fmt.Sprintf("An error occurred: %v", err))
		return fmt.Errorf("%w: %s: %v", ErrIO, source, err)
	}
	defer closeStream()

	lineNo, found := 0, 0
	for {
		raw, n, truncated, rerr := readLine(br, s.opts.MaxLineBytes)
		if n == 0 && rerr == io.EOF {
			break
		}
		if rerr != nil && rerr != io.EOF {
			s.log.Error(fmt.Sprintf("An error occurred: %v", rerr))
			return fmt.Errorf("%w: %s: %v", ErrIO, source, rerr)
		}

		lineNo++
		res.LinesRead++
		if truncated {
			res.Truncated++
		}

		text, ok := decodeLine(bytes.TrimSuffix(raw, []byte("\r")), s.enc != nil, s.opts.Decoding)
		if !ok {
			s.log.Error(fmt.Sprintf("Undecodable input in %s at line %d", source, lineNo))
			return fmt.Errorf("%w: %s: line %d", ErrDecode, source, lineNo)
		}

		if s.re.MatchString(text) {
			found++
			res.Matches = append(res.Matches, model.Match{
				Timestamp:  s.opts.Clock(),
				LogLine:    strings.TrimSpace(text),
				Source:     source,
				LineNumber: lineNo,
			})
		}

		if rerr == io.EOF {
			break
		}
	}

	s.log.Debug(fmt.Sprintf("Scanned %s: %d lines, %d matches", source, lineNo, found))
	return nil
}

// Scan resolves logPath, compiles pattern and scans every resolved input.
// Errors are logged before they are returned, and the returned Result is
// never nil.
func Scan(logPath, pattern string, opts Options, logger *slog.Logger) (*Result, error) {
	s, err := New(pattern, opts, logger)
	if err != nil {
		return &Result{}, err
	}

	paths, err := ResolveInputs(logPath)
	if err != nil {
		s.log.Error(describeResolveError(logPath, err))
		return &Result{}, err
	}
	return s.Scan(paths)
}

func describeResolveError(logPath string, err error) string {
	if errors.Is(err, ErrInputNotFound) {
		return fmt.Sprintf("File not found: %s", logPath)
	}
	return fmt.Sprintf("An error occurred: %v", err)
}
