package commission

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestForLevel(t *testing.T) {
	cases := []struct {
		level int
		want  int64
	}{
		{1, 1800},
		{2, 900},
		{3, 500},
		{0, 0},
		{4, 0},
		{-1, 0},
		{100, 0},
	}

	for _, c := range cases {
		got := ForLevel(c.level)
		if !got.Equal(decimal.NewFromInt(c.want)) {
			t.Errorf("ForLevel(%d) = %s, want %d", c.level, got, c.want)
		}
	}
}

func TestDeriveCode(t *testing.T) {
	cases := []struct {
		username string
		want     string
	}{
		{"marcel", "MARCEL"},
		{"Marie Claire", "MARIECLAIRE"},
		{"  jean  paul  ", "JEANPAUL"},
		{"", ""},
		{"   ", ""},
	}

	for _, c := range cases {
		if got := DeriveCode(c.username); got != c.want {
			t.Errorf("DeriveCode(%q) = %q, want %q", c.username, got, c.want)
		}
	}
}
