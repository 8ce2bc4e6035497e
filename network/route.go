package network

import (
	"strings"
)

// RouteEntry is one row of the IPv4 active routes table.
type RouteEntry struct {
	Destination string `json:"destination"`
	Mask        string `json:"mask"`
	Gateway     string `json:"gateway"`
	Interface   string `json:"interface"`
	Metric      string `json:"metric"`
}

// ParseRoutes reads the rows following the "Network Destination" header of
// route print output. Reading stops at a separator line or at the first line
// that does not start with a digit; rows with fewer than five columns are
// skipped.
func ParseRoutes(output string, m *Markers) []RouteEntry {
	if m == nil {
		m = DefaultMarkers()
	}
	var routes []RouteEntry
	inTable := false

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if containsAny(line, m.RouteHeader) {
			inTable = true
			continue
		}
		if !inTable || line == "" {
			continue
		}
		if strings.Contains(line, "==") || line[0] < '0' || line[0] > '9' {
			inTable = false
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 5 {
			continue
		}
		routes = append(routes, RouteEntry{
			Destination: parts[0],
			Mask:        parts[1],
			Gateway:     parts[2],
			Interface:   parts[3],
			Metric:      parts[4],
		})
	}
	return routes
}

type AddRouteRequest struct {
	Destination string
	Mask        string
	Gateway     string
	// Metric is optional; empty leaves the metric to the system.
	Metric     string
	Persistent bool
}

// AddRouteCommand builds the argv for route add.
func AddRouteCommand(req AddRouteRequest) []string {
	cmd := []string{"route"}
	if req.Persistent {
		cmd = append(cmd, "-p")
	}
	cmd = append(cmd, "add", req.Destination, "mask", req.Mask, req.Gateway)
	if req.Metric != "" {
		cmd = append(cmd, "metric", req.Metric)
	}
	return cmd
}

func DeleteRouteCommand(destination string) []string {
	return []string{"route", "delete", destination}
}
