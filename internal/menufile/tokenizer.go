package menufile

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Delimiter separates fields in a menu file. Fields are never quoted.
const Delimiter = ";"

const maxLineSize = 1 << 20

// Row is one data line keyed by header name.
type Row struct {
	line   int
	fields map[string]string
}

// NewRow builds a row from explicit values. It is mostly useful in tests.
func NewRow(line int, fields map[string]string) Row {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Row{line: line, fields: cp}
}

// Line is the 1-based line number the row was read from.
func (r Row) Line() int { return r.line }

// Lookup returns the value under the given header name. A row shorter than
// the header reports ok == false for the missing trailing fields.
func (r Row) Lookup(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Tokenizer splits a menu file into a header and lazily produced rows.
// It reads the underlying reader once.
type Tokenizer struct {
	scanner    *bufio.Scanner
	header     []string
	headerRead bool
	consumed   bool
	line       int
	err        error
}

func NewTokenizer(r io.Reader) *Tokenizer {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Tokenizer{scanner: s}
}

// Header returns the column names of the first non-blank line. The line is
// read on the first call and cached. Empty input yields an empty header.
func (t *Tokenizer) Header() []string {
	if !t.headerRead {
		t.headerRead = true
		if text, ok := t.nextLine(); ok {
			t.header = split(text)
		}
	}
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Rows yields every data line after the header. The sequence can be ranged
// over once; later calls yield nothing. Check Err after the loop.
func (t *Tokenizer) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		t.Header()
		if t.consumed {
			return
		}
		t.consumed = true

		for {
			text, ok := t.nextLine()
			if !ok {
				return
			}
			if !yield(t.newRow(text)) {
				return
			}
		}
	}
}

// Err returns the first read error of the underlying reader, if any.
func (t *Tokenizer) Err() error { return t.err }

func (t *Tokenizer) nextLine() (string, bool) {
	for t.scanner.Scan() {
		t.line++
		text := strings.TrimSuffix(t.scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		return text, true
	}
	if err := t.scanner.Err(); err != nil && t.err == nil {
		t.err = fmt.Errorf("read line %d: %w", t.line+1, err)
	}
	return "", false
}

func (t *Tokenizer) newRow(text string) Row {
	values := split(text)
	fields := make(map[string]string, len(t.header))
	for i, name := range t.header {
		if i >= len(values) {
			break
		}
		if _, dup := fields[name]; dup {
			continue
		}
		fields[name] = values[i]
	}
	return Row{line: t.line, fields: fields}
}

func split(line string) []string {
	parts := strings.Split(line, Delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
