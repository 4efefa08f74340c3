package scanner

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// LookupEncoding resolves an encoding name. It returns nil for UTF-8,
// which is read without a transform.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if n, _ := htmlindex.Name(enc); n == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

// openStream layers gzip decompression and character decoding over r.
// The returned closer releases the gzip reader, if any.
func openStream(r io.Reader, enc encoding.Encoding, gzipDetect bool, bufSize int) (*bufio.Reader, func() error, error) {
	closer := func() error { return nil }
	br := bufio.NewReaderSize(r, bufSize)

	// Peek first 2 bytes for the gzip magic.
	if gzipDetect {
		hdr, err := br.Peek(2)
		if err == nil && hdr[0] == 0x1f && hdr[1] == 0x8b {
			gzr, gzErr := gzip.NewReader(br)
			if gzErr != nil {
				return nil, closer, gzErr
			}
			closer = gzr.Close
			br = bufio.NewReaderSize(gzr, bufSize)
		}
	}

	if enc != nil {
		br = bufio.NewReaderSize(transform.NewReader(br, enc.NewDecoder()), bufSize)
	}
	return br, closer, nil
}

// decodeLine applies the decoding policy to a line. ok is false when the
// line is undecodable under a strict policy.
func decodeLine(line []byte, transformed bool, policy DecodePolicy) (string, bool) {
	if transformed {
		// Decoders substitute U+FFFD for input they cannot map.
		if !bytes.ContainsRune(line, utf8.RuneError) {
			return string(line), true
		}
		if policy == DecodeStrict {
			return "", false
		}
		return string(bytes.ReplaceAll(line, []byte(string(utf8.RuneError)), nil)), true
	}

	if utf8.Valid(line) {
		return string(line), true
	}
	if policy == DecodeStrict {
		return "", false
	}
	return string(bytes.ToValidUTF8(line, nil)), true
}

// readLine returns the next line without its '\n'. Content beyond limit
// bytes is discarded; the cut never splits a UTF-8 sequence. n is the
// number of bytes consumed from br.
func readLine(br *bufio.Reader, limit int) (line []byte, n int, truncated bool, err error) {
	for {
		chunk, rerr := br.ReadSlice('\n')
		n += len(chunk)
		body := chunk
		if rerr == nil {
			body = chunk[:len(chunk)-1]
		}
		switch {
		case truncated:
		case limit > 0 && len(line)+len(body) > limit:
			keep := limit - len(line)
			line = append(line, body[:keep]...)
			if !utf8.RuneStart(body[keep]) {
				line = trimPartialRune(line)
			}
			truncated = true
		default:
			line = append(line, body...)
		}
		if rerr == bufio.ErrBufferFull {
			continue
		}
		return line, n, truncated, rerr
	}
}

// trimPartialRune drops a trailing UTF-8 lead byte and its continuation
// bytes when the sequence was cut short.
func trimPartialRune(line []byte) []byte {
	for i := len(line) - 1; i >= 0 && len(line)-i < utf8.UTFMax; i-- {
		if b := line[i]; b < utf8.RuneSelf {
			break
		} else if utf8.RuneStart(b) {
			return line[:i]
		}
	}
	return line
}
