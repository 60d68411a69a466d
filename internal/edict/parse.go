package edict

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// maxLineSize bounds a single dictionary line. EDICT lines for common words
// with many senses run to a few kilobytes.
const maxLineSize = 1024 * 1024

// Decode wraps r so that EUC-JP input is read as UTF-8.
func Decode(r io.Reader) io.Reader {
	return transform.NewReader(r, japanese.EUCJP.NewDecoder())
}

// Parse reads UTF-8 dictionary text from r and returns its entries in order.
// Unparseable lines are logged at warn level and skipped; blank lines are
// skipped silently. Only read errors and cancellation are returned.
func Parse(ctx context.Context, r io.Reader, logger *slog.Logger) ([]Entry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []Entry
	skipped := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := ParseLine(lineNo, line)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				skipped++
				logger.Warn("skipping dictionary line", "line", perr.Line, "text", perr.Text)
				continue
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	logger.Debug("dictionary parsed", "entries", len(entries), "skipped", skipped)
	return entries, nil
}
