package utils

import "testing"

func TestStrToBoolPtr(t *testing.T) {
	tests := []struct {
		in      string
		want    *bool
		wantErr bool
	}{
		{"", nil, false},
		{"  ", nil, false},
		{"true", boolPtr(true), false},
		{"0", boolPtr(false), false},
		{"maybe", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := StrToBoolPtr(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrToDatePtr(t *testing.T) {
	got, err := StrToDatePtr("2024-02-29")
	if err != nil || got == nil || got.Day() != 29 {
		t.Fatalf("got %v, %v", got, err)
	}
	if _, err := StrToDatePtr("29/02/2024"); err == nil {
		t.Error("expected error for wrong layout")
	}
	if got, err := StrToDatePtr(""); got != nil || err != nil {
		t.Errorf("empty input: got %v, %v", got, err)
	}
}

func TestNewNullString(t *testing.T) {
	if NewNullString("") != nil {
		t.Error("empty string should be nil")
	}
	if p := NewNullString("x"); p == nil || *p != "x" {
		t.Errorf("got %v", p)
	}
}

func boolPtr(b bool) *bool { return &b }
