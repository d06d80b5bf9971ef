package terminol

import "testing"

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{'£', 1},
		{'─', 1},
		{'日', 2},
		{0x1F600, 2}, // emoji
		{0x0301, 0},  // combining acute accent
	}
	for _, tt := range tests {
		if got := runeWidth(tt.r); got != tt.want {
			t.Errorf("runeWidth(%U): expected %d, got %d", tt.r, tt.want, got)
		}
	}
}

func TestStringWidth(t *testing.T) {
	if got := StringWidth("abc"); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := StringWidth("日本"); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := StringWidth("a日b"); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
}
