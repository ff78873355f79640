package main

import (
	"testing"

	"sleuth/internal/record"
)

func TestReadInputFormat(t *testing.T) {
	cases := []struct {
		in   string
		want record.Format
		ok   bool
	}{
		{"", record.FormatAuto, true},
		{"auto", record.FormatAuto, true},
		{"json", record.FormatJSON, true},
		{"csv", record.FormatCSV, true},
		{"xml", record.FormatXML, true},
		{"yaml", record.FormatYAML, true},
		{"yml", record.FormatYAML, true},
		{"toml", record.FormatAuto, false},
	}
	for _, tc := range cases {
		got, err := readInputFormat(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("readInputFormat(%q) err = %v", tc.in, err)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("readInputFormat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	if m, err := readUIMode(" On "); err != nil || m != uiModeOn {
		t.Errorf("readUIMode(\" On \") = %v, %v", m, err)
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("want error for unknown mode")
	}
}
