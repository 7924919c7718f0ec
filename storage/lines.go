package storage

import (
	"bytes"
	"context"
	"io"
	"strings"

	apperrors "github.com/kbukum/sqlcache/errors"
)

// ReadLines reads a dump file and splits it into lines.
func ReadLines(ctx context.Context, s Storage, path string) ([]string, error) {
	rc, err := s.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck // read-only

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperrors.CacheIO("read", path, err)
	}
	return SplitLines(data), nil
}

// WriteLines joins lines with "\n" and uploads them to path.
func WriteLines(ctx context.Context, s Storage, path string, lines []string) error {
	return s.Upload(ctx, path, strings.NewReader(strings.Join(lines, "\n")))
}

// SplitLines splits data after each "\n", keeping the terminators. A final
// line without a terminator is kept; empty input yields no lines.
func SplitLines(data []byte) []string {
	var lines []string
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, string(data))
			break
		}
		lines = append(lines, string(data[:i+1]))
		data = data[i+1:]
	}
	return lines
}
