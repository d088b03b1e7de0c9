package main

import (
	"fmt"

	"github.com/woozymasta/cratesel"
	"github.com/woozymasta/cratesel/internal/dump"
)

type OptionsDump struct {
	Count   int `short:"n" long:"count"   description:"Number of crates, by downloads (<=0 = all)" default:"500"`
	Workers int `short:"w" long:"workers" description:"Aggregation shards (<=0 = number of CPUs)" env:"CRATESEL_WORKERS" default:"0"`
}

type dumpArgs struct {
	Dir string `positional-arg-name:"DUMP" description:"Directory holding crates.csv and versions.csv"`
}

type TopCommand struct {
	app *app

	Dump   OptionsDump   `group:"Dump"`
	Output OptionsOutput `group:"Output"`
	Range  OptionsRange  `group:"Range"`

	Args dumpArgs `positional-args:"yes" required:"yes"`
}

func (c *TopCommand) Execute([]string) error {
	ids, err := resolveDump(c.app, c.Args.Dir, c.Dump, c.Output, c.Range)
	if err != nil {
		return err
	}

	for _, id := range ids {
		c.app.print(id)
	}

	return nil
}

// resolveDump loads dir and resolves its top crates, most downloaded first.
func resolveDump(a *app, dir string, d OptionsDump, out OptionsOutput, r OptionsRange) ([]cratesel.PackageID, error) {
	log := a.logger()

	dm, err := dump.Load(a.ctx, dir, dump.Options{
		Workers: d.Workers,
		Range:   r.toRange(),
		Log:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("load dump: %w", err)
	}

	if dm.Skipped != nil {
		log.Debug("skipped rows", "detail", dm.Skipped.Error())
	}

	return out.filter(dm.Resolve(dm.Top(d.Count), out.mode())), nil
}
