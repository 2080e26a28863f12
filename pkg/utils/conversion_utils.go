package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StrToInt converts a string to an int.
func StrToInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return n, nil
}

// StrToBoolPtr parses an optional boolean query value. Empty input gives nil.
func StrToBoolPtr(s string) (*bool, error) {
	if IsEmpty(s) {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%q is not a boolean", s)
	}
	return &b, nil
}

// StrToDatePtr parses an optional YYYY-MM-DD value. Empty input gives nil.
func StrToDatePtr(s string) (*time.Time, error) {
	if IsEmpty(s) {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%q is not a YYYY-MM-DD date", s)
	}
	return &t, nil
}
