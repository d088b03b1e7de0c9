package main

import "github.com/woozymasta/cratesel/internal/cache"

type CacheCommand struct {
	app *app

	Output OptionsOutput `group:"Output"`
	Cargo  OptionsCargo  `group:"Cargo"`
}

func (c *CacheCommand) Execute([]string) error {
	home, err := cargoHome(c.Cargo)
	if err != nil {
		return err
	}

	cc := cache.New(c.app.fs, home, c.Cargo.Index)

	set, err := cc.Scan()
	if err != nil {
		return err
	}

	c.app.logger().Named("cache").Debug("scanned", "dir", cc.Dir, "crates", set.Len())

	for _, id := range c.Output.filter(set.ResolveAll(c.Output.mode())) {
		c.app.print(id)
	}

	return nil
}
