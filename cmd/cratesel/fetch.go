package main

import (
	"fmt"

	"github.com/woozymasta/cratesel/internal/cache"
	"github.com/woozymasta/cratesel/internal/fetch"
)

type FetchCommand struct {
	app *app

	Dump   OptionsDump   `group:"Dump"`
	Output OptionsOutput `group:"Output"`
	Range  OptionsRange  `group:"Range"`
	Cargo  OptionsCargo  `group:"Cargo"`

	Bin    string `long:"cargo"   description:"Cargo executable" env:"CARGO" default:"cargo"`
	DryRun bool   `short:"d" long:"dry-run" description:"Only log what would be fetched"`

	Args dumpArgs `positional-args:"yes" required:"yes"`
}

func (c *FetchCommand) Execute([]string) error {
	log := c.app.logger()

	ids, err := resolveDump(c.app, c.Args.Dir, c.Dump, c.Output, c.Range)
	if err != nil {
		return err
	}

	home, err := cargoHome(c.Cargo)
	if err != nil {
		return err
	}

	runner := c.app.runner
	if runner == nil {
		runner = fetch.Cargo{Bin: c.Bin, Home: home}
	}

	f := &fetch.Fetcher{
		Cache:  cache.New(c.app.fs, home, c.Cargo.Index),
		Runner: runner,
		Log:    log,
		FS:     c.app.fs,
		DryRun: c.DryRun,
	}

	st, err := f.Fetch(c.app.ctx, ids)
	log.Info("fetch done",
		"cached", st.Cached,
		"fetched", st.Fetched,
		"failed", st.Failed,
		"planned", st.Planned,
	)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	return nil
}

func cargoHome(o OptionsCargo) (string, error) {
	if o.Home != "" {
		return o.Home, nil
	}

	return cache.CargoHome()
}
