package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/lib/pq"
)

// IDSet is an insertion-ordered set of ids. It is stored as a Postgres text[].
type IDSet []string

// Contains reports whether id is a member of the set.
func (s IDSet) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns the set with id appended and whether it was newly added.
func (s IDSet) Add(id string) (IDSet, bool) {
	if s.Contains(id) {
		return s, false
	}
	return append(s, id), true
}

// Remove returns the set without id and whether it was present.
func (s IDSet) Remove(id string) (IDSet, bool) {
	for i, v := range s {
		if v == id {
			out := make(IDSet, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...), true
		}
	}
	return s, false
}

// Len returns the number of members.
func (s IDSet) Len() int { return len(s) }

// NewIDSet builds a set from ids, dropping blanks and duplicates.
func NewIDSet(ids ...string) IDSet {
	out := IDSet{}
	for _, id := range ids {
		if id == "" {
			continue
		}
		out, _ = out.Add(id)
	}
	return out
}

// MarshalJSON encodes a nil set as an empty array.
func (s IDSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// Value implements driver.Valuer.
func (s IDSet) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	return pq.StringArray(s).Value()
}

// Scan implements sql.Scanner.
func (s *IDSet) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*s = IDSet(arr)
	return nil
}
