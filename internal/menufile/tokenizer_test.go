package menufile

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
	"testing/iotest"
)

func collect(tok *Tokenizer) []Row {
	var rows []Row
	for row := range tok.Rows() {
		rows = append(rows, row)
	}
	return rows
}

func TestTokenizer_Header(t *testing.T) {
	tok := NewTokenizer(strings.NewReader("datum;tag;name\n01.12.2023;Fr;Reis\n"))

	want := []string{"datum", "tag", "name"}
	if got := tok.Header(); !slices.Equal(got, want) {
		t.Fatalf("Header() = %v, want %v", got, want)
	}
	if got := tok.Header(); !slices.Equal(got, want) {
		t.Errorf("second Header() = %v, want %v", got, want)
	}

	rows := collect(tok)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if v, _ := rows[0].Lookup("name"); v != "Reis" {
		t.Errorf("name = %q, want %q", v, "Reis")
	}
}

func TestTokenizer_EmptyAndHeaderOnly(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader int
	}{
		{"empty input", "", 0},
		{"blank lines only", "\n\r\n  \n", 0},
		{"header only", "datum;tag;name\n", 3},
		{"header without newline", "datum;tag;name", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewTokenizer(strings.NewReader(tt.input))
			if got := len(tok.Header()); got != tt.wantHeader {
				t.Errorf("len(Header()) = %d, want %d", got, tt.wantHeader)
			}
			if rows := collect(tok); len(rows) != 0 {
				t.Errorf("expected no rows, got %d", len(rows))
			}
			if err := tok.Err(); err != nil {
				t.Errorf("Err() = %v, want nil", err)
			}
		})
	}
}

func TestTokenizer_SinglePass(t *testing.T) {
	tok := NewTokenizer(strings.NewReader("a;b\n1;2\n3;4\n"))

	if rows := collect(tok); len(rows) != 2 {
		t.Fatalf("first pass: expected 2 rows, got %d", len(rows))
	}
	if rows := collect(tok); len(rows) != 0 {
		t.Errorf("second pass: expected 0 rows, got %d", len(rows))
	}
}

func TestTokenizer_Rows_WithoutHeaderCall(t *testing.T) {
	tok := NewTokenizer(strings.NewReader("a;b\n1;2\n"))

	rows := collect(tok)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if v, ok := rows[0].Lookup("b"); !ok || v != "2" {
		t.Errorf("b = %q, %v; want %q, true", v, ok, "2")
	}
}

func TestTokenizer_EarlyBreak(t *testing.T) {
	tok := NewTokenizer(strings.NewReader("a\n1\n2\n3\n"))

	for range tok.Rows() {
		break
	}
	if rows := collect(tok); len(rows) != 0 {
		t.Errorf("expected no rows after an abandoned pass, got %d", len(rows))
	}
}

func TestTokenizer_FieldWidth(t *testing.T) {
	tok := NewTokenizer(strings.NewReader("a;b;c\n1;2\n1;2;3;4;5\n"))
	rows := collect(tok)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	short := rows[0]
	if _, ok := short.Lookup("c"); ok {
		t.Error("short row: trailing field c should be unset")
	}
	if v, ok := short.Lookup("b"); !ok || v != "2" {
		t.Errorf("short row: b = %q, %v", v, ok)
	}

	long := rows[1]
	if v, _ := long.Lookup("c"); v != "3" {
		t.Errorf("long row: c = %q, want %q", v, "3")
	}
	if _, ok := long.Lookup("4"); ok {
		t.Error("long row: extra fields must be ignored")
	}
}

func TestTokenizer_LineNumbersAndCRLF(t *testing.T) {
	tok := NewTokenizer(strings.NewReader("a;b\r\n\r\n1;x\r\n2;y\r\n"))
	rows := collect(tok)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Line() != 3 || rows[1].Line() != 4 {
		t.Errorf("lines = %d, %d; want 3, 4", rows[0].Line(), rows[1].Line())
	}
	if v, _ := rows[1].Lookup("b"); v != "y" {
		t.Errorf("b = %q, want %q (carriage return stripped)", v, "y")
	}
}

func TestTokenizer_ReadError(t *testing.T) {
	boom := errors.New("boom")
	tok := NewTokenizer(io.MultiReader(strings.NewReader("a;b\n1;2\n"), iotest.ErrReader(boom)))

	rows := collect(tok)
	if len(rows) != 1 {
		t.Errorf("expected the row read before the failure, got %d rows", len(rows))
	}
	if err := tok.Err(); !errors.Is(err, boom) {
		t.Errorf("Err() = %v, want %v", err, boom)
	}
}
