// Package menufile parses the weekly menu files published by the canteen
// operator. It has no I/O beyond the reader it is given.
package menufile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/heartmarshall/mensa-backend/internal/domain"
)

// Result is the outcome of parsing one file.
type Result struct {
	Entries []domain.MenuEntry
	// Skipped counts rows dropped because their group is not a known course.
	Skipped int
}

// Parse reads a whole menu file. A malformed row aborts the parse and no
// entries are returned.
func Parse(r io.Reader, layout string) (Result, error) {
	tok := NewTokenizer(r)

	var res Result
	for row := range tok.Rows() {
		entry, err := BuildEntry(row, layout)
		if errors.Is(err, ErrUnknownCategory) {
			res.Skipped++
			continue
		}
		if err != nil {
			return Result{}, err
		}
		res.Entries = append(res.Entries, entry)
	}
	if err := tok.Err(); err != nil {
		return Result{}, fmt.Errorf("tokenize: %w", err)
	}
	return res, nil
}

// ParseFile opens path and parses it.
func ParseFile(path, layout string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open menu file: %w", err)
	}
	defer f.Close()

	res, err := Parse(f, layout)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return res, nil
}
