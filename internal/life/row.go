// Package life holds the row-level data model of the search: 16-bit cell
// rows, per-phase row tuples, and the packed key codec used to address the
// transition table.
package life

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRows reports a row value or row tuple that cannot take part in a
// period-P search: a row outside the 16-bit range, or tuples whose lengths
// disagree with the period.
var ErrInvalidRows = errors.New("invalid rows")

// Row is one horizontal line of cells, one bit per cell, MSB leftmost.
type Row uint16

// RowWidth is the number of cells in a Row.
const RowWidth = 16

// RowTuple is an ordered sequence of rows, one per phase of the period.
type RowTuple []Row

// ZeroTuple returns an all-clear tuple of the given period.
func ZeroTuple(period int) RowTuple {
	return make(RowTuple, period)
}

// Stable reports whether all phases carry the same row. A one-phase tuple is
// always stable.
func (t RowTuple) Stable() bool {
	for _, row := range t {
		if row != t[0] {
			return false
		}
	}
	return true
}

// Equal reports element-wise equality.
func (t RowTuple) Equal(other RowTuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i, row := range t {
		if row != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the tuple.
func (t RowTuple) Clone() RowTuple {
	return append(RowTuple(nil), t...)
}

// Text renders the row as a 16-character line, MSB first, 'o' for a live
// cell and '.' for a dead one.
func (r Row) Text() string {
	var b strings.Builder
	b.Grow(RowWidth)
	for bit := RowWidth - 1; bit >= 0; bit-- {
		if r&(1<<bit) != 0 {
			b.WriteByte('o')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// ParseRow parses a row literal in decimal, 0x hex, 0o octal, or 0b binary
// form. Values above 0xFFFF are rejected before they can reach the codec.
func ParseRow(s string) (Row, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse row %q: %v", ErrInvalidRows, s, err)
	}
	if v > 0xFFFF {
		return 0, fmt.Errorf("%w: row %q exceeds 16 bits", ErrInvalidRows, s)
	}
	return Row(v), nil
}

// ParseRowTuple parses a comma-separated list of row literals and checks it
// against the expected period.
func ParseRowTuple(s string, period int) (RowTuple, error) {
	parts := strings.Split(s, ",")
	if len(parts) != period {
		return nil, fmt.Errorf("%w: got %d rows, period is %d", ErrInvalidRows, len(parts), period)
	}
	tuple := make(RowTuple, 0, period)
	for _, part := range parts {
		row, err := ParseRow(part)
		if err != nil {
			return nil, err
		}
		tuple = append(tuple, row)
	}
	return tuple, nil
}
