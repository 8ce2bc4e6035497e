package ui

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/YongboStudio/WinToolbox/system"
)

func (s *Shell) shortcutsCommand() *cli.Command {
	return &cli.Command{
		Name:  "shortcuts",
		Usage: "open Windows administration panels",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list the available panels",
				Action: func(c *cli.Context) error {
					list := system.Shortcuts()
					rows := make([][]string, 0, len(list))
					for _, sc := range list {
						rows = append(rows, []string{sc.Name, sc.Category, sc.Title, sc.Description})
					}
					fmt.Fprintln(c.App.Writer, renderTable([]string{"Name", "Category", "Panel", "Description"}, rows))
					fmt.Fprintln(c.App.Writer, mutedStyle.Render("some settings need administrator privileges to change"))
					return nil
				},
			},
			{
				Name:      "open",
				Usage:     "open a panel",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, "NAME"); err != nil {
						return err
					}
					return report(c, system.OpenShortcut(s.app.Runner, c.Args().First()))
				},
			},
		},
	}
}
