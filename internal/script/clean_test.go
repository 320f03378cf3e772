package script

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"parenthetical", "Hello (sighs) world", "Hello world"},
		{"brackets and reactions", "Great [pause] job! (laughter)", "Great job!"},
		{"case insensitive keyword", "LAUGHTER So anyway, Applause please", "So anyway, please"},
		{"substring keyword", "They applaused loudly", "They d loudly"},
		{"newlines collapse", "Line one\n\n\tLine two  ", "Line one Line two"},
		{"everything removed", "(walks on) [applause]", ""},
		{"nested parens", "a (b (c) d) e", "a d) e"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"So I walked into a bar.   The bartender said nothing.",
		"Hello (sighs) world",
		"Great [pause] job! (laughter)",
		"  trailing and leading  ",
	}
	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
