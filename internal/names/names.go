// Package names implements an append-only string interning table shared by
// every other component of the circuit compiler and simulator. It also
// issues disjoint ranges of error codes on request, so that the scanner,
// devices, network, monitors, and parser can each carve out their own
// error-code space without colliding with one another.
package names

import "fmt"

// ID is the identifier of an interned string. It is also the string's
// insertion index, so IDs never change once assigned.
type ID int

// Table maps strings to dense integer IDs and vice versa. The zero value is
// not ready for use — call New.
type Table struct {
	strings []string
	index   map[string]ID

	errorCodeCount int
}

// New returns an empty, ready-to-use Table.
func New() *Table {
	return &Table{
		index: make(map[string]ID),
	}
}

// Intern returns the ID for each string in list, appending any string not
// already present. Every string must be non-empty.
func (t *Table) Intern(list []string) ([]ID, error) {
	ids := make([]ID, len(list))
	for i, s := range list {
		if s == "" {
			return nil, fmt.Errorf("names: cannot intern an empty string")
		}
		if id, ok := t.index[s]; ok {
			ids[i] = id
			continue
		}
		id := ID(len(t.strings))
		t.strings = append(t.strings, s)
		t.index[s] = id
		ids[i] = id
	}
	return ids, nil
}

// InternOne is a convenience wrapper around Intern for a single string.
func (t *Table) InternOne(s string) (ID, error) {
	ids, err := t.Intern([]string{s})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// Query returns the ID for s, and whether it was present. It never mutates
// the table.
func (t *Table) Query(s string) (ID, bool) {
	id, ok := t.index[s]
	return id, ok
}

// StringOf returns the string for id, and whether id was present. Fails
// (returns false) for a negative id rather than panicking.
func (t *Table) StringOf(id ID) (string, bool) {
	if id < 0 || int(id) >= len(t.strings) {
		return "", false
	}
	return t.strings[id], true
}

// ReserveErrorCodes returns a contiguous half-open range [start, start+n) of
// error codes guaranteed disjoint from every other reservation made against
// this table. n must be non-negative.
func (t *Table) ReserveErrorCodes(n int) [2]int {
	start := t.errorCodeCount
	t.errorCodeCount += n
	return [2]int{start, start + n}
}
