package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/sketchbar/internal/config"
)

type configCmd struct {
	*root
	fs     *flag.FlagSet
	output string
	stdout io.Writer
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "output", "", "file to save to (defaults to the loaded config file or "+config.DefaultPath()+")")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *configCmd) Program() string {
	if c.root == nil {
		return "sketchbar config"
	}
	return c.root.Program() + " config"
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		return c.runPrint()
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) current() *config.Config {
	if cfg := configOf(c.root); cfg != nil {
		return cfg
	}
	return config.New()
}

func (c *configCmd) runPrint() error {
	fmt.Fprint(c.stdout, c.current().String())
	return nil
}

func (c *configCmd) runSave() error {
	path := c.output
	if path == "" {
		path = config.NewLoader(version, configPathOverride).GetConfigPath()
	}
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("no config path: home directory is unknown")
	}
	if err := config.SaveFile(c.current(), path); err != nil {
		return fmt.Errorf("save config to %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
