package ui

import (
	"encoding/json"
	"fmt"

	"github.com/OpenNHP/opennhp/nhp/log"
	"github.com/jackpal/gateway"
	"github.com/urfave/cli/v2"

	"github.com/YongboStudio/WinToolbox/network"
)

// discoverGateway is replaced in tests.
var discoverGateway = func() (string, error) {
	ip, err := gateway.DiscoverGateway()
	if err != nil {
		return "", err
	}
	return ip.String(), nil
}

func (s *Shell) adaptersCommand() *cli.Command {
	return &cli.Command{
		Name:  "adapters",
		Usage: "show IPv4 configuration of network adapters",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "wmi", Usage: "query WMI instead of parsing ipconfig /all"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
		},
		Action: func(c *cli.Context) error {
			var (
				adapters []network.AdapterInfo
				err      error
			)
			if c.Bool("wmi") {
				adapters, err = network.WMIAdapters()
			} else {
				adapters, err = s.app.Network.Adapters(c.Context)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("read adapters failed: %v", err), 1)
			}

			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(adapters)
			}
			rows := make([][]string, 0, len(adapters))
			for _, a := range adapters {
				rows = append(rows, []string{a.Name, a.IPv4, a.Mask, a.Gateway, a.DNS, a.MAC})
			}
			fmt.Fprintln(c.App.Writer, renderTable([]string{"Adapter", "IPv4", "Mask", "Gateway", "DNS", "MAC"}, rows))
			return nil
		},
	}
}

func (s *Shell) routesCommand() *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "view and modify the IPv4 routing table",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "print the IPv4 routing table",
				Action: s.listRoutes,
			},
			{
				Name:  "add",
				Usage: "add a route",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dest", Aliases: []string{"d"}, Usage: "destination network", Required: true},
					&cli.StringFlag{Name: "mask", Aliases: []string{"m"}, Value: "255.255.255.0", Usage: "subnet mask"},
					&cli.StringFlag{Name: "gateway", Aliases: []string{"g"}, Usage: "next hop, defaults to the current default gateway"},
					&cli.StringFlag{Name: "metric", Usage: "route metric"},
					&cli.BoolFlag{Name: "persistent", Aliases: []string{"p"}, Usage: "keep the route across reboots"},
				},
				Action: s.addRoute,
			},
			{
				Name:      "delete",
				Usage:     "delete routes to a destination",
				ArgsUsage: "DESTINATION",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, "DESTINATION"); err != nil {
						return err
					}
					warnIfNotAdmin(c, "deleting a route")
					return report(c, s.app.Network.DeleteRoute(c.Context, c.Args().First()))
				},
			},
		},
	}
}

func (s *Shell) listRoutes(c *cli.Context) error {
	routes, err := s.app.Network.Routes(c.Context)
	if err != nil {
		return cli.Exit(fmt.Sprintf("read routes failed: %v", err), 1)
	}
	rows := make([][]string, 0, len(routes))
	for _, r := range routes {
		rows = append(rows, []string{r.Destination, r.Mask, r.Gateway, r.Interface, r.Metric})
	}
	fmt.Fprintln(c.App.Writer, renderTable([]string{"Destination", "Mask", "Gateway", "Interface", "Metric"}, rows))
	return nil
}

func (s *Shell) addRoute(c *cli.Context) error {
	req := network.AddRouteRequest{
		Destination: c.String("dest"),
		Mask:        c.String("mask"),
		Gateway:     c.String("gateway"),
		Metric:      c.String("metric"),
		Persistent:  c.Bool("persistent"),
	}
	if req.Gateway == "" {
		gw, err := discoverGateway()
		if err != nil {
			log.Warning("default gateway discovery failed: %v", err)
		} else {
			req.Gateway = gw
			fmt.Fprintln(c.App.Writer, mutedStyle.Render("using default gateway "+gw))
		}
	}
	warnIfNotAdmin(c, "adding a route")
	return report(c, s.app.Network.AddRoute(c.Context, req))
}
