package services

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		text  string
		query string
		want  bool
	}{
		{"Honey Chili Fries", "", true},
		{"Honey Chili Fries", "   ", true},
		{"Honey Chili Fries", "chili", true},
		{"Honey Chili Fries", "CHILI FRIES", true},
		{"Chicken Chow Mein", "chiken", true}, // typo within tolerance
		{"Chicken Chow Mein", "chickn", true},
		{"Chicken Chow Mein", "mien", false}, // transposition costs 2, over threshold for a 4-letter token
		{"Cold Coffee", "cofee", true},
		{"Cold Coffee", "lassi", false},
		{"Paneer Grill Sandwich", "grill paneer", true}, // word order free
		{"Paneer Grill Sandwich", "grill burger", false},
		{"", "anything", false},
		{"", "", true},
	}
	for _, tt := range tests {
		got := Matches(tt.text, tt.query)
		if got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.text, tt.query, got, tt.want)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"chicken", "chiken", 1},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLevenshteinDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"chicken", "chiken"},
		{"cold coffee", "coffee cold"},
		{"", "fries"},
		{"maggi", "magi"},
	}
	for _, p := range pairs {
		ab := LevenshteinDistance(p[0], p[1])
		ba := LevenshteinDistance(p[1], p[0])
		if ab != ba {
			t.Errorf("distance(%q,%q)=%d but distance(%q,%q)=%d", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}
