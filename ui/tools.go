package ui

import (
	"fmt"
	"os"

	"github.com/OpenNHP/opennhp/nhp/log"
	"github.com/urfave/cli/v2"

	"github.com/YongboStudio/WinToolbox/common"
	"github.com/YongboStudio/WinToolbox/system"
)

func (s *Shell) toolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "download, install and launch third-party tools",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list the tool catalog",
				Action: s.listTools,
			},
			{
				Name:      "install",
				Usage:     "download and install tools",
				ArgsUsage: "ID...",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "install every tool in the catalog"},
				},
				Action: s.installTools,
			},
			{
				Name:      "uninstall",
				Usage:     "remove an installed tool",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, "ID"); err != nil {
						return err
					}
					return report(c, s.app.Tools.Uninstall(c.Args().First()))
				},
			},
			{
				Name:      "launch",
				Usage:     "start an installed tool or one executable of a suite",
				ArgsUsage: "ID [EXE]",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, "ID [EXE]"); err != nil {
						return err
					}
					if c.NArg() > 1 {
						return report(c, s.app.Tools.LaunchMember(c.Args().Get(0), c.Args().Get(1)))
					}
					return report(c, s.app.Tools.Launch(c.Args().First()))
				},
			},
			{
				Name:      "members",
				Usage:     "list the executables of a tool suite",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: "keyword matched against file, name and description"},
				},
				Action: s.listMembers,
			},
			{
				Name:      "homepage",
				Usage:     "open a tool's homepage in the browser",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, "ID"); err != nil {
						return err
					}
					return report(c, s.app.Tools.OpenHomepage(c.Args().First()))
				},
			},
			{
				Name:      "set-url",
				Usage:     "override a tool's download URL",
				ArgsUsage: "ID URL",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2, "ID URL"); err != nil {
						return err
					}
					return updated(c, s.app.Tools.UpdateURL(c.Args().Get(0), c.Args().Get(1)), "download URL updated")
				},
			},
			{
				Name:      "set-homepage",
				Usage:     "override a tool's homepage",
				ArgsUsage: "ID URL",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2, "ID URL"); err != nil {
						return err
					}
					return updated(c, s.app.Tools.UpdateHomepage(c.Args().Get(0), c.Args().Get(1)), "homepage updated")
				},
			},
			{
				Name:      "reset",
				Usage:     "restore a tool's built-in URLs",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, "ID"); err != nil {
						return err
					}
					return updated(c, s.app.Tools.Reset(c.Args().First()), "restored defaults")
				},
			},
			{
				Name:  "open",
				Usage: "open the tools directory in the file manager",
				Action: func(c *cli.Context) error {
					dir := s.app.Tools.BaseDir()
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

func updated(c *cli.Context, ok bool, msg string) error {
	if !ok {
		return cli.Exit("tool not found: "+c.Args().First(), 1)
	}
	fmt.Fprintln(c.App.Writer, okStyle.Render(msg))
	return nil
}

func (s *Shell) listTools(c *cli.Context) error {
	all := s.app.Tools.All()
	rows := make([][]string, 0, len(all))
	for _, id := range sortedKeys(all) {
		t := all[id]
		state := "-"
		if t.IsInstalled(s.app.Tools.BaseDir()) {
			state = "installed"
		}
		rows = append(rows, []string{id, t.Name, state, t.DownloadURL, t.Homepage})
	}
	fmt.Fprintln(c.App.Writer, renderTable([]string{"ID", "Name", "State", "Download URL", "Homepage"}, rows))
	fmt.Fprintln(c.App.Writer, mutedStyle.Render("install directory: "+s.app.Tools.BaseDir()))
	return nil
}

func (s *Shell) listMembers(c *cli.Context) error {
	if err := requireArgs(c, 1, "ID"); err != nil {
		return err
	}
	members, err := s.app.Tools.MemberCatalog(c.Args().First(), c.String("filter"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		state := "-"
		if m.Installed {
			state = "installed"
		}
		rows = append(rows, []string{m.Exe, m.Name, m.Description, state})
	}
	fmt.Fprintln(c.App.Writer, renderTable([]string{"File", "Name", "Description", "State"}, rows))
	return nil
}

func (s *Shell) installTools(c *cli.Context) error {
	ids := c.Args().Slice()
	if c.Bool("all") {
		ids = sortedKeys(s.app.Tools.All())
		return s.installBatch(c, ids)
	}
	if len(ids) == 0 {
		return cli.Exit("usage: "+c.Command.HelpName+" ID... | --all", 2)
	}

	failed := 0
	for _, id := range ids {
		name := id
		if t, ok := s.app.Tools.Get(id); ok {
			name = t.Name
		}
		task := s.app.Tools.Install(c.Context, id)
		var res common.Result
		if s.Interactive {
			var err error
			if res, err = runDownloadView(c.App.Writer, name, task); err != nil {
				log.Warning("progress view failed: %v", err)
			}
		} else {
			res = runDownloadPlain(c.App.Writer, name, task)
		}
		if !res.Success {
			fmt.Fprintln(c.App.ErrWriter, errStyle.Render(res.Message))
			failed++
			continue
		}
		fmt.Fprintln(c.App.Writer, okStyle.Render(res.Message))
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d installs failed", failed, len(ids)), 1)
	}
	return nil
}

func (s *Shell) installBatch(c *cli.Context, ids []string) error {
	fmt.Fprintln(c.App.Writer, mutedStyle.Render(fmt.Sprintf("installing %d tools...", len(ids))))
	results := s.app.Tools.InstallAll(c.Context, ids)
	rows := make([][]string, 0, len(ids))
	failed := 0
	for _, id := range ids {
		res := results[id]
		status := "ok"
		if !res.Success {
			status = res.Kind.String()
			failed++
		}
		rows = append(rows, []string{id, status, res.Message})
	}
	fmt.Fprintln(c.App.Writer, renderTable([]string{"ID", "Status", "Message"}, rows))
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d installs failed", failed, len(ids)), 1)
	}
	return nil
}
