package scanner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// DecodePolicy decides what happens to bytes that are not valid in the
// input encoding.
type DecodePolicy string

const (
	// DecodeLossy drops undecodable bytes and keeps scanning.
	DecodeLossy DecodePolicy = "lossy"
	// DecodeStrict stops the scan at the first undecodable line.
	DecodeStrict DecodePolicy = "strict"
)

// ParseDecodePolicy validates a policy name.
func ParseDecodePolicy(s string) (DecodePolicy, error) {
	switch p := DecodePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DecodeLossy, nil
	case DecodeLossy, DecodeStrict:
		return p, nil
	default:
		return DecodeLossy, fmt.Errorf("unknown decoding policy %q (want lossy or strict)", s)
	}
}

// Options tunes how input is read and decoded.
type Options struct {
	// Encoding names the input character set. Empty means UTF-8.
	// Any name understood by the WHATWG encoding index is accepted.
	Encoding string

	// Decoding selects lossy or strict handling of undecodable bytes.
	// Default: DecodeLossy.
	Decoding DecodePolicy

	// GzipAutoDetect wraps the input in a gzip reader when it starts
	// with the gzip magic bytes.
	GzipAutoDetect bool

	// MaxLineBytes caps the length of a line; longer lines are truncated
	// before matching. Zero means no limit.
	MaxLineBytes int

	// ReaderBufferBytes sizes the bufio reader.
	// Default: 64 KiB.
	ReaderBufferBytes int

	// Stdin is read when the input path is "-". Default: os.Stdin.
	Stdin io.Reader

	// Clock stamps each match. Default: time.Now.
	Clock func() time.Time
}

// DefaultOptions returns the options used by the command line.
func DefaultOptions() Options {
	return Options{
		Decoding:       DecodeLossy,
		GzipAutoDetect: true,
	}
}

func (o *Options) withDefaults() Options {
	oo := *o
	if oo.Decoding == "" {
		oo.Decoding = DecodeLossy
	}
	if oo.MaxLineBytes < 0 {
		oo.MaxLineBytes = 0
	}
	if oo.ReaderBufferBytes <= 0 {
		oo.ReaderBufferBytes = 64 << 10
	}
	if oo.Stdin == nil {
		oo.Stdin = os.Stdin
	}
	if oo.Clock == nil {
		oo.Clock = time.Now
	}
	return oo
}
