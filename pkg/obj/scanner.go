package obj

import (
	"bufio"
	"io"
	"strings"
)

// Directive tags understood by the parser. Every other tag is ignored.
const (
	TagVertex   = "v"
	TagNormal   = "vn"
	TagTexCoord = "vt"
	TagFace     = "f"
	TagMaterial = "usemtl"
)

// maxLineSize bounds a single OBJ line. Faces with long corner lists from
// CAD exporters can exceed bufio's 64KB default.
const maxLineSize = 1 << 20

// Record is one non-empty, non-comment line split into tokens.
type Record struct {
	Line int      // 1-based line number
	Tag  string   // first token
	Args []string // remaining tokens
	Raw  string   // trimmed line text
}

// Tokenize splits a line on runs of spaces and tabs.
func Tokenize(line string) []string {
	return strings.FieldsFunc(line, isHorizontalSpace)
}

func isHorizontalSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\v' || r == '\f'
}

// Scanner reads OBJ text one record at a time.
type Scanner struct {
	s    *bufio.Scanner
	line int
	rec  Record
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{s: s}
}

// Scan advances to the next record, skipping blank lines and comments.
// It returns false at end of input or on a read error.
func (s *Scanner) Scan() bool {
	for s.s.Scan() {
		s.line++

		raw := strings.TrimSpace(s.s.Text())
		if raw == "" || raw[0] == '#' {
			continue
		}
		tokens := Tokenize(raw)
		if len(tokens) == 0 {
			continue
		}

		s.rec = Record{
			Line: s.line,
			Tag:  tokens[0],
			Args: tokens[1:],
			Raw:  raw,
		}
		return true
	}
	return false
}

// Record returns the record produced by the last call to Scan.
func (s *Scanner) Record() Record {
	return s.rec
}

// Err returns the first non-EOF read error.
func (s *Scanner) Err() error {
	return s.s.Err()
}
