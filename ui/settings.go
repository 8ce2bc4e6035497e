package ui

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/YongboStudio/WinToolbox/system"
)

func (s *Shell) settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "view and change application settings",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "print the current settings",
				Action: s.showSettings,
			},
			{
				Name:      "set",
				Usage:     "change one setting",
				ArgsUsage: "KEY VALUE",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2, "KEY VALUE"); err != nil {
						return err
					}
					conf := s.app.Settings.Get()
					if err := conf.Set(c.Args().Get(0), c.Args().Get(1)); err != nil {
						return cli.Exit(err.Error(), 2)
					}
					if err := s.app.SaveSettings(conf); err != nil {
						return cli.Exit(fmt.Sprintf("save settings failed: %v", err), 1)
					}
					fmt.Fprintln(c.App.Writer, okStyle.Render("settings saved"))
					return nil
				},
			},
			{
				Name:  "open-logs",
				Usage: "open the logs directory in the file manager",
				Action: func(c *cli.Context) error {
					dir := s.app.Settings.LogsDir()
					if err := os.MkdirAll(dir, 0755); err != nil {
						return cli.Exit(fmt.Sprintf("create %s failed: %v", dir, err), 1)
					}
					if err := system.OpenDirectory(s.app.Runner, dir); err != nil {
						return cli.Exit(fmt.Sprintf("open %s failed: %v", dir, err), 1)
					}
					return nil
				},
			},
		},
	}
}

func (s *Shell) showSettings(c *cli.Context) error {
	conf := s.app.Settings.Get()
	rows := [][]string{
		{"font_size", strconv.Itoa(conf.FontSize)},
		{"console_log", strconv.FormatBool(conf.ConsoleLog)},
		{"window_width", strconv.Itoa(conf.WindowWidth)},
		{"window_height", strconv.Itoa(conf.WindowHeight)},
		{"tools_dir", orDefault(conf.ToolsDir, s.app.Settings.ToolsDir())},
		{"logs_dir", orDefault(conf.LogsDir, s.app.Settings.LogsDir())},
	}
	fmt.Fprintln(c.App.Writer, renderTable([]string{"Key", "Value"}, rows))
	fmt.Fprintln(c.App.Writer, mutedStyle.Render("file: "+s.app.Settings.File()))
	fmt.Fprintln(c.App.Writer, mutedStyle.Render(fmt.Sprintf("administrator: %v", system.IsAdmin())))
	return nil
}

func orDefault(value, resolved string) string {
	if value == "" {
		return resolved + " (default)"
	}
	return value
}
