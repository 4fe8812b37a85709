package services

import "strings"

// Matches reports whether text matches the search query. A blank query
// matches everything. A case-insensitive substring hit succeeds immediately;
// otherwise every query word must partially match some word of the text,
// where partial means containment in either direction or a Levenshtein
// distance within max(1, len(word)/3).
func Matches(text, query string) bool {
	textLower := strings.ToLower(text)
	queryLower := strings.TrimSpace(strings.ToLower(query))

	if queryLower == "" {
		return true
	}
	if strings.Contains(textLower, queryLower) {
		return true
	}

	queryWords := strings.Fields(queryLower)
	textWords := strings.Fields(textLower)

	for _, qw := range queryWords {
		if !wordMatches(textWords, qw) {
			return false
		}
	}
	return true
}

func wordMatches(textWords []string, qw string) bool {
	threshold := len([]rune(qw)) / 3
	if threshold < 1 {
		threshold = 1
	}
	for _, tw := range textWords {
		if strings.Contains(tw, qw) || strings.Contains(qw, tw) {
			return true
		}
		if LevenshteinDistance(tw, qw) <= threshold {
			return true
		}
	}
	return false
}

// LevenshteinDistance is the classic edit distance (insert, delete,
// substitute at cost 1; no transposition) over runes.
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	m := len(ra)
	n := len(rb)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
		dp[i][0] = i
	}
	for j := 0; j <= n; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if ra[i-1] == rb[j-1] {
				dp[i][j] = dp[i-1][j-1]
				continue
			}
			best := dp[i-1][j] + 1 // deletion
			if v := dp[i][j-1] + 1; v < best { // insertion
				best = v
			}
			if v := dp[i-1][j-1] + 1; v < best { // substitution
				best = v
			}
			dp[i][j] = best
		}
	}
	return dp[m][n]
}
