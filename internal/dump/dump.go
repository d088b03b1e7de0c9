// Package dump reads a crates.io database dump and aggregates the published
// versions of every crate into a cratesel.Set.
package dump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/cratesel"
)

// Dump table names.
const (
	CratesFile   = "crates.csv"
	VersionsFile = "versions.csv"
)

// shardBuffer is the channel depth between the reader and each shard.
const shardBuffer = 256

// Options configures Load.
type Options struct {
	// Filter keeps crates by name; nil means cratesel.Buildable.
	Filter func(name string) bool

	// Log receives progress and the skip summary; nil disables logging.
	Log hclog.Logger

	// Range clips versions before they reach a tracker.
	Range cratesel.Range

	// Workers is the number of aggregation shards (<=0 = GOMAXPROCS).
	Workers int
}

func (o Options) withDefaults() Options {
	if o.Filter == nil {
		o.Filter = cratesel.Buildable
	}

	if o.Log == nil {
		o.Log = hclog.NewNullLogger()
	}

	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}

	return o
}

// Crate is one row of crates.csv that passed the name filter.
type Crate struct {
	Name      string
	ID        uint64
	Downloads uint64
}

// Stats counts version rows by outcome.
type Stats struct {
	Rows        int // data rows in versions.csv
	Pushed      int // reached a tracker
	Yanked      int
	Filtered    int // crate dropped by the name filter
	Clipped     int // outside Options.Range
	Unsupported int // valid SemVer outside the version grammar
	Invalid     int
	Malformed   int // skipped with an entry in Dump.Skipped
}

// Dump is the aggregated content of a dump directory.
type Dump struct {
	// Set holds one tracker per crate name.
	Set *cratesel.Set

	// Skipped lists malformed rows of both tables; nil when there were none.
	Skipped error

	// Crates in file order.
	Crates []Crate

	Stats Stats
}

// Load reads dir/crates.csv and dir/versions.csv. Versions are pushed in file
// order per crate; crates are spread over Options.Workers shards, each with its
// own Set, and the shards are merged once reading is done.
// Malformed rows are skipped and reported in Dump.Skipped; I/O and header
// errors abort the load.
func Load(ctx context.Context, dir string, opts Options) (*Dump, error) {
	opts = opts.withDefaults()
	log := opts.Log.Named("dump")

	d := &Dump{}

	var skipped *multierror.Error

	byID, dropped, err := readCrates(filepath.Join(dir, CratesFile), opts.Filter, d, &skipped)
	if err != nil {
		return nil, err
	}

	log.Debug("crates loaded", "kept", len(d.Crates), "dropped", len(dropped))

	shards := make([]chan row, opts.Workers)
	sets := make([]*cratesel.Set, opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := range shards {
		ch := make(chan row, shardBuffer)
		set := cratesel.NewSet()
		shards[i], sets[i] = ch, set

		g.Go(func() error {
			for r := range ch {
				set.Push(r.name, r.v)
			}

			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, ch := range shards {
				close(ch)
			}
		}()

		vr := versionReader{
			byID:    byID,
			dropped: dropped,
			match:   opts.Range.Matcher(),
			stats:   &d.Stats,
			skipped: &skipped,
		}

		return vr.read(filepath.Join(dir, VersionsFile), func(name string, v cratesel.Version) error {
			if err := gctx.Err(); err != nil {
				return err
			}

			select {
			case shards[shardOf(name, len(shards))] <- row{name: name, v: v}:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.Set = sets[0]
	for _, s := range sets[1:] {
		d.Set.Merge(s)
	}

	if err := skipped.ErrorOrNil(); err != nil {
		d.Skipped = err
		log.Warn("skipped malformed rows", "count", skipped.Len())
	}

	log.Info("dump loaded",
		"crates", d.Set.Len(),
		"rows", d.Stats.Rows,
		"pushed", d.Stats.Pushed,
		"yanked", d.Stats.Yanked,
		"unsupported", d.Stats.Unsupported,
		"invalid", d.Stats.Invalid,
	)

	return d, nil
}

// Top returns up to n crates that have at least one tracked version, by
// downloads descending then name. n <= 0 returns all of them.
func (d *Dump) Top(n int) []Crate {
	out := make([]Crate, 0, len(d.Crates))
	for _, c := range d.Crates {
		if d.Set.Tracker(c.Name) != nil {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Downloads != out[j].Downloads {
			return out[i].Downloads > out[j].Downloads
		}

		return out[i].Name < out[j].Name
	})

	if n > 0 && n < len(out) {
		out = out[:n]
	}

	return out
}

// Resolve returns the identifiers of crates in their given order.
func (d *Dump) Resolve(crates []Crate, mode cratesel.SortMode) []cratesel.PackageID {
	out := make([]cratesel.PackageID, 0, len(crates))
	for _, c := range crates {
		out = append(out, d.Set.Resolve(c.Name, mode)...)
	}

	return out
}

type row struct {
	name string
	v    cratesel.Version
}

func shardOf(name string, n int) int {
	if n == 1 {
		return 0
	}

	return int(xxhash.Sum64String(name) % uint64(n))
}

func readCrates(path string, keep func(string) bool, d *Dump, skipped **multierror.Error) (map[uint64]string, map[uint64]struct{}, error) {
	t, err := openTable(path, "id", "name", "downloads")
	if err != nil {
		return nil, nil, err
	}
	defer t.Close()

	byID := make(map[uint64]string)
	dropped := make(map[uint64]struct{})

	rec := make([]string, 3)
	for {
		err := t.next(rec)
		if err == io.EOF {
			break
		}

		if err != nil {
			var re *recordError
			if errors.As(err, &re) {
				*skipped = multierror.Append(*skipped, re)
				continue
			}

			return nil, nil, err
		}

		id, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			*skipped = multierror.Append(*skipped, &recordError{file: path, line: t.line, err: fmt.Errorf("crate id: %w", err)})
			continue
		}

		name := rec[1]
		if !keep(name) {
			dropped[id] = struct{}{}
			continue
		}

		downloads, err := strconv.ParseUint(rec[2], 10, 64)
		if err != nil {
			*skipped = multierror.Append(*skipped, &recordError{file: path, line: t.line, err: fmt.Errorf("downloads of %s: %w", name, err)})
			continue
		}

		byID[id] = name
		d.Crates = append(d.Crates, Crate{Name: name, ID: id, Downloads: downloads})
	}

	return byID, dropped, nil
}

type versionReader struct {
	byID    map[uint64]string
	dropped map[uint64]struct{}
	match   func(cratesel.Version) bool
	stats   *Stats
	skipped **multierror.Error
}

func (vr *versionReader) read(path string, emit func(string, cratesel.Version) error) error {
	t, err := openTable(path, "crate_id", "num", "yanked")
	if err != nil {
		return err
	}
	defer t.Close()

	rec := make([]string, 3)
	for {
		err := t.next(rec)
		if err == io.EOF {
			return nil
		}

		if err != nil {
			var re *recordError
			if errors.As(err, &re) {
				vr.malformed(re)
				continue
			}

			return err
		}

		vr.stats.Rows++

		if rec[2] == "t" {
			vr.stats.Yanked++
			continue
		}

		id, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			vr.malformed(&recordError{file: path, line: t.line, err: fmt.Errorf("crate id: %w", err)})
			continue
		}

		name, ok := vr.byID[id]
		if !ok {
			if _, ok := vr.dropped[id]; ok {
				vr.stats.Filtered++
				continue
			}

			vr.malformed(&recordError{file: path, line: t.line, err: fmt.Errorf("unknown crate id %d", id)})
			continue
		}

		v, ok := cratesel.Parse(rec[1])
		if !ok {
			if cratesel.Classify(rec[1]) == cratesel.ReasonUnsupported {
				vr.stats.Unsupported++
			} else {
				vr.stats.Invalid++
			}

			continue
		}

		if !vr.match(v) {
			vr.stats.Clipped++
			continue
		}

		if err := emit(name, v); err != nil {
			return err
		}

		vr.stats.Pushed++
	}
}

func (vr *versionReader) malformed(err error) {
	vr.stats.Malformed++
	*vr.skipped = multierror.Append(*vr.skipped, err)
}
