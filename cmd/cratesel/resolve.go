package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/woozymasta/cratesel"
)

type ResolveCommand struct {
	app *app

	Name    string `short:"N" long:"name"    description:"Treat every line as a version of this crate; otherwise lines are name-version ids or .crate file names"`
	Include string `short:"i" long:"include" description:"Regexp to keep versions (applied before parsing)"`
	Exclude string `short:"e" long:"exclude" description:"Regexp to drop versions (applied before parsing)"`
	Limit   int    `short:"n" long:"limit"   description:"Max versions printed per crate (<=0 = unlimited)" default:"0"`

	Output OptionsOutput `group:"Output"`
	Range  OptionsRange  `group:"Range"`
}

func (c *ResolveCommand) Execute([]string) error {
	log := c.app.logger().Named("resolve")

	in, err := readLines(c.app.stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	opt, err := c.options()
	if err != nil {
		return err
	}

	if c.Name != "" {
		for _, s := range in {
			if r := cratesel.Classify(s); r != cratesel.ReasonOK {
				log.Debug("skipping version", "crate", c.Name, "version", s, "reason", r.String())
			}
		}

		for _, id := range cratesel.Select(c.Name, in, opt) {
			c.app.print(id)
		}

		return nil
	}

	// group by name, keeping the order of lines within each name
	byName := make(map[string][]string)
	for _, s := range in {
		id, ok := parseID(s)
		if !ok {
			log.Debug("skipping line", "line", s)
			continue
		}

		byName[id.Name] = append(byName[id.Name], id.Version.String())
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, id := range cratesel.Select(name, byName[name], opt) {
			c.app.print(id)
		}
	}

	log.Debug("resolved", "crates", len(names), "lines", len(in))

	return nil
}

func (c *ResolveCommand) options() (cratesel.Options, error) {
	opt := cratesel.DefaultOptions()

	inc, err := compileRe(c.Include)
	if err != nil {
		return opt, fmt.Errorf("include regexp: %w", err)
	}

	exc, err := compileRe(c.Exclude)
	if err != nil {
		return opt, fmt.Errorf("exclude regexp: %w", err)
	}

	opt.Include = inc
	opt.Exclude = exc
	opt.Range = c.Range.toRange()
	opt.StableOnly = c.Output.StableOnly
	opt.Sort = cratesel.ParseSort(c.Output.SortMode)
	opt.Limit = c.Limit

	return opt, nil
}

// parseID accepts "name-version" and "[dir/]name-version.crate".
func parseID(s string) (cratesel.PackageID, bool) {
	if strings.HasSuffix(s, cratesel.CrateExt) {
		return cratesel.ParseFileName(s)
	}

	return cratesel.ParsePackageID(s)
}

// readLines returns the non-empty trimmed lines of r.
func readLines(r io.Reader) ([]string, error) {
	in := make([]string, 0, 1024)

	sc := bufio.NewScanner(r)
	const maxLine = 10 * 1024 * 1024
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, maxLine)

	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			in = append(in, s)
		}
	}

	return in, sc.Err()
}
