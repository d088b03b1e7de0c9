package cratesel

import (
	"reflect"
	"regexp"
	"testing"
)

func TestIsToolchainInternal(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"rustc-ap-syntax":           true,
		"rustc-ap-rustc_span":       true,
		"fast-rustc-ap-rustc_lexer": true,
		"rustc-hash":                false,
		"rustc_version":             false,
		"serde":                     false,
		"fast-float":                false,
		"":                          false,
	}

	for name, want := range cases {
		if got := IsToolchainInternal(name); got != want {
			t.Fatalf("IsToolchainInternal(%q) = %v; want %v", name, got, want)
		}
	}
}

func TestBuildable(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"serde":           true,
		"serde_json":      true,
		"wasm-bindgen":    true,
		"rustc-ap-syntax": false,
		"1password":       false,
		"bad name":        false,
		"":                false,
	}

	for name, want := range cases {
		if got := Buildable(name); got != want {
			t.Fatalf("Buildable(%q) = %v; want %v", name, got, want)
		}
	}
}

func TestPrefilterRaw(t *testing.T) {
	t.Parallel()

	in := []string{"1.0.0", "1.0.0-rc.1", "2.0.0", "junk"}

	if got := prefilterRaw(in, Options{}); !reflect.DeepEqual(got, in) {
		t.Fatalf("no filters: got %v; want %v", got, in)
	}

	opt := Options{
		Include: regexp.MustCompile(`^\d`),
		Exclude: regexp.MustCompile(`^2\.`),
	}

	got := prefilterRaw(in, opt)
	want := []string{"1.0.0", "1.0.0-rc.1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("include/exclude: got %v; want %v", got, want)
	}
}

func TestParseAllKeepsOrder(t *testing.T) {
	t.Parallel()

	got := parseAll([]string{"2.0.0", "x", "1.0.0-rc.1", "1.0", "0.1.0"})

	want := []string{"2.0.0", "1.0.0-rc.1", "0.1.0"}
	if len(got) != len(want) {
		t.Fatalf("parseAll len = %d; want %d", len(got), len(want))
	}

	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("parseAll[%d] = %s; want %s", i, got[i], want[i])
		}
	}
}

func TestDropPrerelease(t *testing.T) {
	t.Parallel()

	got := idStrings(DropPrerelease(ids("x", "1.0.0-rc.1", "0.9.0", "1.0.0-beta.2")))
	if want := []string{"x-0.9.0"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("DropPrerelease = %v; want %v", got, want)
	}
}
