package language

import (
	"testing"
)

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"eng", "en"},
		{"fre", "fr"},
		{"jpn", "ja"},
		{"chi", "zh"},
		{"english", "en"},
		{"Mandarin", "zh"},
		{"en-US", "en"},
		{"zh_Hans", "zh"},
		{"pt-BR", "pt"},
		{"xy", "xy"},
		{"xyz", ""},
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToISO2(tt.input)
			if result != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToISO3(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "eng"},
		{"ja", "jpn"},
		{"dut", "nld"},
		{"xy", "und"},
		{"abc", "abc"},
		{"", "und"},
	}
	for _, tt := range tests {
		if got := ToISO3(tt.input); got != tt.expected {
			t.Errorf("ToISO3(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("zh"); got != "Chinese" {
		t.Fatalf("DisplayName(zh) = %q", got)
	}
	if got := DisplayName("en-GB"); got != "English" {
		t.Fatalf("DisplayName(en-GB) = %q", got)
	}
	if got := DisplayName("qq"); got != "QQ" {
		t.Fatalf("DisplayName(qq) = %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Fatalf("DisplayName(\"\") = %q", got)
	}
	if !Known("japanese") || Known("klingon") {
		t.Fatal("unexpected Known result")
	}
}
