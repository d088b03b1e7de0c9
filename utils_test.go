package cratesel

import "testing"

func TestToTok(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":           "",
		"  Desc ":    "desc",
		"\tSTREAM\n": "stream",
	}

	for in, want := range cases {
		if got := toTok(in); got != want {
			t.Fatalf("toTok(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestCapIDs(t *testing.T) {
	t.Parallel()

	in := ids("x", "1.0.0", "2.0.0-rc.1", "2.0.0-beta.1")

	cases := map[int]int{-1: 3, 0: 3, 1: 1, 2: 2, 3: 3, 10: 3}
	for limit, want := range cases {
		if got := len(capIDs(in, limit)); got != want {
			t.Fatalf("capIDs(limit=%d) len = %d; want %d", limit, got, want)
		}
	}
}
