package network

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed markers.toml
var defaultMarkersTOML []byte

// Markers lists the label substrings that identify sections and fields in
// localized command output. Adapter headers are matched case-insensitively,
// everything else verbatim.
type Markers struct {
	Adapter     []string `toml:"adapter"`
	IPv4        []string `toml:"ipv4"`
	Mask        []string `toml:"mask"`
	Gateway     []string `toml:"gateway"`
	DNS         []string `toml:"dns"`
	MAC         []string `toml:"mac"`
	RouteHeader []string `toml:"route_header"`
}

func DefaultMarkers() *Markers {
	m := &Markers{}
	if err := toml.Unmarshal(defaultMarkersTOML, m); err != nil {
		panic(fmt.Sprintf("embedded markers.toml: %v", err))
	}
	return m
}

// LoadMarkers reads a user marker file. Lists present in the file replace the
// defaults, missing ones keep them.
func LoadMarkers(file string) (*Markers, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var user Markers
	if err := toml.Unmarshal(content, &user); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return DefaultMarkers().merge(&user), nil
}

func (m *Markers) merge(o *Markers) *Markers {
	pick := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	pick(&m.Adapter, o.Adapter)
	pick(&m.IPv4, o.IPv4)
	pick(&m.Mask, o.Mask)
	pick(&m.Gateway, o.Gateway)
	pick(&m.DNS, o.DNS)
	pick(&m.MAC, o.MAC)
	pick(&m.RouteHeader, o.RouteHeader)
	return m
}

func containsAny(line string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func containsAnyFold(line string, markers []string) bool {
	lower := strings.ToLower(line)
	for _, marker := range markers {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
