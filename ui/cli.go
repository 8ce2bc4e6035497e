package ui

import (
	"fmt"
	"os"
	"sort"

	"github.com/OpenNHP/opennhp/nhp/log"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/YongboStudio/WinToolbox/app"
	"github.com/YongboStudio/WinToolbox/common"
	"github.com/YongboStudio/WinToolbox/system"
)

// Shell is the command-line front end over an app.App. The App is created in
// the cli Before hook and closed in After.
type Shell struct {
	opts app.Options
	app  *app.App
	// Interactive enables the bubbletea progress view for downloads.
	Interactive bool
}

func NewShell(opts app.Options) *Shell {
	return &Shell{
		opts:        opts,
		Interactive: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

// CLI builds the urfave/cli application.
func (s *Shell) CLI() *cli.App {
	a := cli.NewApp()
	a.Name = common.AppName
	a.Usage = "Windows administration toolbox"
	a.Version = common.Version
	a.Before = func(c *cli.Context) error {
		s.app = app.New(s.opts)
		return nil
	}
	a.After = func(c *cli.Context) error {
		s.Close()
		return nil
	}
	// cli.Exit errors terminate the process from inside the subcommand,
	// before After runs.
	a.ExitErrHandler = func(c *cli.Context, err error) {
		if _, ok := err.(cli.ExitCoder); ok {
			s.Close()
		}
		cli.HandleExitCoder(err)
	}
	a.Commands = []*cli.Command{
		s.adaptersCommand(),
		s.routesCommand(),
		s.hostsCommand(),
		s.toolsCommand(),
		s.settingsCommand(),
		s.shortcutsCommand(),
	}
	return a
}

// Close flushes the log and stops the file watches. It is safe to call twice.
func (s *Shell) Close() {
	if s.app != nil {
		s.app.Close()
		s.app = nil
	}
}

// warnIfNotAdmin reports missing elevation. The operation still runs so the
// system's own error message reaches the user.
func warnIfNotAdmin(c *cli.Context, action string) {
	if system.IsAdmin() {
		return
	}
	log.Warning("%s without administrator privileges", action)
	fmt.Fprintln(c.App.Writer, warnStyle.Render("warning: not running as administrator, "+action+" may fail"))
}

// report prints a successful result or converts a failure into an exit error.
func report(c *cli.Context, res common.Result) error {
	if !res.Success {
		return cli.Exit(res.Message, 1)
	}
	fmt.Fprintln(c.App.Writer, okStyle.Render(res.Message))
	return nil
}

func requireArgs(c *cli.Context, n int, usage string) error {
	if c.NArg() < n {
		return cli.Exit("usage: "+c.Command.HelpName+" "+usage, 2)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
