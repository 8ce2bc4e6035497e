package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/YongboStudio/WinToolbox/common"
	"github.com/YongboStudio/WinToolbox/hosts"
	"github.com/YongboStudio/WinToolbox/system"
)

func (s *Shell) hostsCommand() *cli.Command {
	return &cli.Command{
		Name:  "hosts",
		Usage: "view and edit the HOSTS file",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the HOSTS file",
				Action: func(c *cli.Context) error {
					content, err := s.app.Hosts.Read()
					if err != nil {
						return cli.Exit(fmt.Sprintf("read hosts failed: %v", err), 1)
					}
					fmt.Fprintln(c.App.Writer, titleStyle.Render(s.app.Hosts.Path()))
					fmt.Fprintln(c.App.Writer, content)
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "append an entry",
				ArgsUsage: "IP DOMAIN",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2, "IP DOMAIN"); err != nil {
						return err
					}
					warnIfNotAdmin(c, "editing the HOSTS file")
					return report(c, s.app.Hosts.Append(hosts.Entry{IP: c.Args().Get(0), Domain: c.Args().Get(1)}))
				},
			},
			{
				Name:  "edit",
				Usage: "replace the HOSTS file with the content of another file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "source file", Required: true},
				},
				Action: func(c *cli.Context) error {
					data, err := os.ReadFile(c.String("file"))
					if err != nil {
						return cli.Exit(fmt.Sprintf("read %s failed: %v", c.String("file"), err), 1)
					}
					warnIfNotAdmin(c, "editing the HOSTS file")
					return report(c, s.app.Hosts.Save(string(data)))
				},
			},
			{
				Name:  "open",
				Usage: "open the HOSTS directory in the file manager",
				Action: func(c *cli.Context) error {
					if err := system.OpenDirectory(s.app.Runner, s.app.Hosts.Dir()); err != nil {
						return cli.Exit(fmt.Sprintf("open %s failed: %v", s.app.Hosts.Dir(), err), 1)
					}
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "compare a domain's HOSTS entries with DNS resolution",
				ArgsUsage: "DOMAIN",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "server", Usage: "DNS server, defaults to the first adapter's DNS server"},
				},
				Action: s.checkHost,
			},
		},
	}
}

func (s *Shell) checkHost(c *cli.Context) error {
	if err := requireArgs(c, 1, "DOMAIN"); err != nil {
		return err
	}
	domain := c.Args().First()
	content, err := s.app.Hosts.Read()
	if err != nil {
		return cli.Exit(fmt.Sprintf("read hosts failed: %v", err), 1)
	}
	local := hosts.Lookup(content, domain)

	server := c.String("server")
	if server == "" {
		server = s.defaultDNSServer(c)
	}
	resolved, err := s.app.Resolver.LookupA(c.Context, domain, server)

	w := c.App.Writer
	rows := [][]string{{"hosts", joinOrDash(local)}}
	if err != nil {
		rows = append(rows, []string{server, errStyle.Render(err.Error())})
	} else {
		rows = append(rows, []string{server, joinOrDash(resolved)})
	}
	fmt.Fprintln(w, renderTable([]string{"Source", domain}, rows))
	if len(local) > 0 && err == nil {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s is overridden by the HOSTS file", domain)))
	}
	return nil
}

func (s *Shell) defaultDNSServer(c *cli.Context) string {
	adapters, err := s.app.Network.Adapters(c.Context)
	if err == nil {
		for _, a := range adapters {
			if a.DNS != "" {
				return a.DNS
			}
		}
	}
	return common.DefaultUpstreamDNS
}

func joinOrDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ", ")
}
