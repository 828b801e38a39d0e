package oracle

import (
	"strings"
	"testing"
)

func TestUsableResume(t *testing.T) {
	cases := []struct {
		name   string
		resume string
		want   bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \n\t  ", false},
		{"placeholder sentinel", "No resume", false},
		{"padded sentinel", "  No resume  ", false},
		{"too short", "Go developer", false},
		{"exactly at the limit", strings.Repeat("a", 50), false},
		{"just over the limit", strings.Repeat("a", 51), true},
		{"long plain text", "Five years building Go backend services and APIs at scale.", true},
		{"short multibyte text", strings.Repeat("面", 20), false},
		{"long multibyte text", strings.Repeat("面", 51), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UsableResume(tc.resume); got != tc.want {
				t.Fatalf("UsableResume(%q) = %v, want %v", tc.resume, got, tc.want)
			}
		})
	}
}
