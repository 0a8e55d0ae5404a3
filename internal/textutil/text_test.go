package textutil

import "testing"

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"\tx", "    x"},
		{"ab\tc", "ab  c"},
		{"no tabs", "no tabs"},
		{"界\tx", "界  x"},
	}
	for _, tt := range tests {
		if got := ExpandTabs(tt.in, 4); got != tt.want {
			t.Fatalf("ExpandTabs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		in   string
		cols int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"日本語", 4, "日本"},
		{"日本語", 5, "日本"},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := Clip(tt.in, tt.cols); got != tt.want {
			t.Fatalf("Clip(%q, %d) = %q, want %q", tt.in, tt.cols, got, tt.want)
		}
	}
}

func TestDisplayWidth(t *testing.T) {
	if got := DisplayWidth("a日b"); got != 4 {
		t.Fatalf("DisplayWidth = %d, want 4", got)
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("a\x1b[31mb\nc\td"); got != "a?[31mb c\td" {
		t.Fatalf("Sanitize = %q", got)
	}
	if got := Sanitize("plain"); got != "plain" {
		t.Fatalf("Sanitize changed clean text: %q", got)
	}
}
