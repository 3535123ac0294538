package textutil

import "testing"

func TestFoldKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Nevertheless ", "nevertheless"},
		{"DON’T", "don't"},
		{"café", "café"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FoldKey(tt.input); got != tt.want {
			t.Errorf("FoldKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet("a\n b\tc", 0); got != "a b c" {
		t.Fatalf("unexpected snippet %q", got)
	}
	if got := Snippet("abcdef", 3); got != "abc..." {
		t.Fatalf("unexpected truncated snippet %q", got)
	}
	if got := Snippet("   ", 10); got != "<empty>" {
		t.Fatalf("unexpected empty snippet %q", got)
	}
}
