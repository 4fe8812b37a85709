package services

import "testing"

func TestNewSessionToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		token, err := NewSessionToken()
		if err != nil {
			t.Fatalf("NewSessionToken: %v", err)
		}
		if len(token) != sessionTokenBytes*2 {
			t.Fatalf("token length = %d, want %d", len(token), sessionTokenBytes*2)
		}
		if seen[token] {
			t.Fatal("duplicate token generated")
		}
		seen[token] = true
	}
}
