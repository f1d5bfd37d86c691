package sequences

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Errors returned while parsing a source list.
var (
	// ErrInvalidHex is returned when a field is not a 32-bit hex value.
	ErrInvalidHex = errors.New("invalid code point")

	// ErrReversedRange is returned for A..B with A > B.
	ErrReversedRange = errors.New("reversed code point range")
)

// entryPattern matches "HEX" or "HEX..HEX" followed by whitespace and the
// field separator.
var entryPattern = regexp.MustCompile(`^[0-9A-Fa-f]+(\.\.[0-9A-Fa-f]+)?[ \t]+;`)

// Range is an inclusive range of code points. A single code point is a
// range with First == Last.
type Range struct {
	First uint32
	Last  uint32
}

// Len returns the number of code points in the range.
func (r Range) Len() uint64 {
	return uint64(r.Last) - uint64(r.First) + 1
}

// String returns the range in source list notation.
func (r Range) String() string {
	if r.First == r.Last {
		return fmt.Sprintf("%04X", r.First)
	}
	return fmt.Sprintf("%04X..%04X", r.First, r.Last)
}

// Matches reports whether line is a single code point or range entry.
func Matches(line string) bool {
	return entryPattern.MatchString(line)
}

// ParseLine parses one line of the source list. ok is false for lines that
// are not entries.
func ParseLine(line string) (r Range, ok bool, err error) {
	if !Matches(line) {
		return Range{}, false, nil
	}

	field, _, _ := strings.Cut(line, ";")
	field = strings.TrimSpace(field)

	parts := strings.Split(field, "..")
	switch len(parts) {
	case 1:
		cp, err := parseHex(parts[0])
		if err != nil {
			return Range{}, false, err
		}
		return Range{First: cp, Last: cp}, true, nil
	case 2:
		first, err := parseHex(parts[0])
		if err != nil {
			return Range{}, false, fmt.Errorf("%s: %w", field, err)
		}
		last, err := parseHex(parts[1])
		if err != nil {
			return Range{}, false, fmt.Errorf("%s: %w", field, err)
		}
		if first > last {
			return Range{}, false, fmt.Errorf("%s: %w", field, ErrReversedRange)
		}
		return Range{First: first, Last: last}, true, nil
	default:
		// not reachable through entryPattern
		return Range{}, false, nil
	}
}

func parseHex(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return uint32(v), nil
}

// Scanner reads ranges from a source list one line at a time. Lines have no
// length limit; lines that are not entries are skipped whatever they hold.
type Scanner struct {
	br      *bufio.Reader
	r       Range
	err     error
	line    int
	entries int
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{br: bufio.NewReader(r)}
}

// Scan advances to the next range. It returns false at the end of the input
// or on the first error.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for {
		text, readErr := s.br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			s.err = readErr
			return false
		}
		if text == "" && readErr != nil {
			return false
		}

		s.line++
		r, ok, err := ParseLine(strings.TrimRight(text, "\r\n"))
		if err != nil {
			s.err = fmt.Errorf("line %d: %w", s.line, err)
			return false
		}
		if ok {
			s.r = r
			s.entries++
			return true
		}
		if readErr != nil {
			return false
		}
	}
}

// Range returns the most recent range produced by Scan.
func (s *Scanner) Range() Range {
	return s.r
}

// Line returns the number of input lines consumed so far.
func (s *Scanner) Line() int {
	return s.line
}

// Entries returns the number of entry lines accepted so far.
func (s *Scanner) Entries() int {
	return s.entries
}

// Err returns the first error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Parse reads all ranges from r.
func Parse(r io.Reader) ([]Range, error) {
	var ranges []Range
	s := NewScanner(r)
	for s.Scan() {
		ranges = append(ranges, s.Range())
	}
	return ranges, s.Err()
}
