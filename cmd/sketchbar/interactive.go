package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

type interactiveCLI struct {
	*root
	fs     *flag.FlagSet
	sketch sketchFlags
	execs  commandList
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCLI, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	cli := &interactiveCLI{root: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.Usage = usageFunc(cli)
	cli.sketch.register(fs, configOf(r))
	fs.Var(&cli.execs, "e", "execute interactive command in immediate mode (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cli}
	}
	if err := cli.sketch.validate(); err != nil {
		return nil, err
	}
	return cli, nil
}

func (c *interactiveCLI) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *interactiveCLI) Program() string {
	if c.root == nil {
		return "sketchbar interactive"
	}
	return c.root.Program() + " interactive"
}

func (c *interactiveCLI) Run() error {
	s, err := newSession(c.root, c.sketch, c.stdout)
	if err != nil {
		return err
	}
	defer s.canvas.Wait()

	if len(c.execs) > 0 {
		for _, cmd := range c.execs {
			done, err := s.executeLine(cmd)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(c.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(c.stdin)
	for {
		fmt.Fprint(c.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		done, err := s.executeLine(line)
		if err != nil {
			if errors.Is(err, errUnknownCommand) {
				fmt.Fprintf(c.stderr, "%v (type 'help' for a list)\n", err)
			} else {
				fmt.Fprintln(c.stderr, err)
			}
		}
		if done {
			break
		}
	}
	return scanner.Err()
}
