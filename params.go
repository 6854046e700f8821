package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"

	"github.com/c-linkage/software-post/config"
	"github.com/c-linkage/software-post/framework/selftest"
)

// windowsSelfTestSwitch is accepted in any letter case, the way Windows tools take switches.
const windowsSelfTestSwitch = "/SELF-TEST"

type commandParams struct {
	configFile string
	debug      bool
	version    bool
	config     config.Config

	// tests is the registry to run; nil means selftest.Default.
	tests *selftest.Registry
}

func (c *commandParams) Read(args []string) bool {
	if err := c.parse(args, os.Stderr); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
		}
		return false
	}
	return true
}

func (c *commandParams) parse(args []string, errOut io.Writer) error {
	rest, windowsSwitch := extractWindowsSelfTestSwitch(args[1:])

	var (
		selfTest      bool
		stopOnFailure bool
		backend       string
		seed          int64
	)
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.BoolVar(&selfTest, "self-test", false, "run the self-tests before the game (also "+windowsSelfTestSwitch+")")
	fs.BoolVar(&stopOnFailure, "stop-on-failure", false, "stop the self-tests at the first failure")
	fs.StringVar(&backend, "backend", "", `self-test backend: "section" or "padded" (default depends on the platform)`)
	fs.StringVar(&c.configFile, "config", "", "JSON or YAML file with program settings")
	fs.Int64Var(&seed, "seed", 0, "random seed for the game (0 means use the clock)")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&c.version, "version", false, "print the version and exit")

	if err := fs.Parse(rest); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	c.config = config.Default()
	if c.configFile != "" {
		loaded, err := config.Load(c.configFile)
		if err != nil {
			return err
		}
		c.config = loaded
	}

	// flags given on the command line win over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "self-test":
			c.config.SelfTest = selfTest
		case "stop-on-failure":
			c.config.StopOnFailure = stopOnFailure
		case "backend":
			c.config.Backend = backend
		case "seed":
			c.config.Seed = seed
		}
	})
	if windowsSwitch {
		c.config.SelfTest = true
	}
	return nil
}

// extractWindowsSelfTestSwitch removes every case-insensitive match of windowsSelfTestSwitch
// from args, since the flag package would otherwise treat it as the first positional argument.
func extractWindowsSelfTestSwitch(args []string) ([]string, bool) {
	fold := cases.Fold()
	want := fold.String(windowsSelfTestSwitch)
	isSwitch := func(arg string) bool { return fold.String(arg) == want }

	if !slices.ContainsFunc(args, isSwitch) {
		return args, false
	}
	return slices.DeleteFunc(slices.Clone(args), isSwitch), true
}
