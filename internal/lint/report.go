package lint

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/woozymasta/cratesel"
)

// Report tallies a lint run.
type Report struct {
	// Crates maps an identifier to its warning count; crates without
	// warnings are absent.
	Crates map[string]int

	// Lints maps a lint to its occurrences over all crates.
	Lints map[string]int

	Checked int
	Failed  int

	// all counts every clippy lint instead of a fixed set.
	all bool
}

func newReport(lints []string) *Report {
	r := &Report{
		Crates: map[string]int{},
		Lints:  map[string]int{},
		all:    len(lints) == 0,
	}

	for _, l := range lints {
		r.Lints[NormalizeLint(l)] = 0
	}

	return r
}

// lints returns the lints to enable, sorted.
func (r *Report) lints() []string {
	if r.all {
		return nil
	}

	out := make([]string, 0, len(r.Lints))
	for l := range r.Lints {
		out = append(out, l)
	}
	sort.Strings(out)

	return out
}

// count adds the lints found in a cargo JSON stream and returns their rendered
// messages.
func (r *Report) count(out []byte) []string {
	var rendered []string
	for _, m := range messages(out) {
		if m.Message.Code == nil || m.Message.Rendered == "" {
			continue
		}

		code := m.Message.Code.Code
		if _, ok := r.Lints[code]; !ok {
			if !r.all || !strings.HasPrefix(code, "clippy::") {
				continue
			}
		}

		r.Lints[code]++
		rendered = append(rendered, m.Message.Rendered)
	}

	return rendered
}

func writeCrate(w io.Writer, id cratesel.PackageID, msgs []string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s: %d warnings\n\n", id, len(msgs))
	for _, m := range msgs {
		bw.WriteString(m)
	}
	bw.WriteString("\n")

	return bw.Flush()
}

// WriteSummary writes the per-crate and per-lint counts, each sorted by name.
func (r *Report) WriteSummary(w io.Writer) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("\nReport summary:\n\n")
	for _, k := range sortedKeys(r.Crates) {
		fmt.Fprintf(bw, "%s: %d warnings\n", k, r.Crates[k])
	}

	bw.WriteString("\n")
	for _, k := range sortedKeys(r.Lints) {
		fmt.Fprintf(bw, "%s: %d occurrences\n", k, r.Lints[k])
	}

	return bw.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
