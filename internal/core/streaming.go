package core

// streaming.go reads file contents into text the parser can use.
//
// Exported rosters come from spreadsheets on every platform, so the reader:
//   - Skips a UTF-8 BOM (0xEF 0xBB 0xBF) added by Windows programs
//   - Replaces invalid UTF-8 sequences with U+FFFD instead of failing
//   - Rejects content with NUL bytes, which marks a binary file renamed to .csv/.txt
//   - Enforces a byte limit so a huge upload cannot exhaust memory

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultMaxFileSize is used when ReadText is given a non-positive limit (10MB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

var (
	// ErrFileTooLarge is returned when content exceeds the byte limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrBinaryContent is returned when content is not text.
	ErrBinaryContent = errors.New("encoding error: binary content")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadText reads all of r as text, up to limit bytes.
func ReadText(r io.Reader, limit int64) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}

	br := bufio.NewReader(io.LimitReader(r, limit+1))
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return "", fmt.Errorf("skip BOM: %w", err)
		}
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, limit)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", ErrBinaryContent
	}

	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
