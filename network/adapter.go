package network

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// AdapterInfo is one configured network adapter.
type AdapterInfo struct {
	Name    string `json:"name"`
	IPv4    string `json:"ipv4"`
	Mask    string `json:"mask"`
	Gateway string `json:"gateway"`
	DNS     string `json:"dns"`
	MAC     string `json:"mac"`
}

var (
	ipv4Pattern = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)
	macPattern  = regexp.MustCompile(`[0-9A-Fa-f]{2}(?:[-:][0-9A-Fa-f]{2}){5}`)
)

// ParseIPConfig extracts adapters from ipconfig /all output. Adapters without
// an IPv4 address are dropped. Lines it does not understand are skipped.
func ParseIPConfig(output string, m *Markers) []AdapterInfo {
	if m == nil {
		m = DefaultMarkers()
	}
	var (
		adapters []AdapterInfo
		current  *AdapterInfo
	)
	flush := func() {
		if current != nil && current.IPv4 != "" {
			adapters = append(adapters, *current)
		}
	}

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimRight(raw, "\r")
		if isAdapterHeader(line, m) {
			flush()
			current = &AdapterInfo{Name: adapterName(line)}
			continue
		}
		if current != nil {
			parseAdapterLine(current, strings.TrimSpace(line), m)
		}
	}
	flush()
	return adapters
}

// isAdapterHeader accepts any line carrying an adapter marker, indented or
// not, unless it is a "label : value" field line such as a Description that
// happens to end in "Adapter".
func isAdapterHeader(line string, m *Markers) bool {
	if !containsAnyFold(line, m.Adapter) {
		return false
	}
	return !hasFieldValue(line)
}

// hasFieldValue reports whether text follows the first colon of the line.
func hasFieldValue(line string) bool {
	i := strings.IndexAny(line, ":：")
	if i < 0 {
		return false
	}
	_, size := utf8.DecodeRuneInString(line[i:])
	return strings.TrimSpace(line[i+size:]) != ""
}

func adapterName(line string) string {
	name := strings.TrimSpace(line)
	name = strings.TrimSuffix(name, ":")
	name = strings.TrimSuffix(name, "：")
	return strings.TrimSpace(name)
}

func parseAdapterLine(a *AdapterInfo, line string, m *Markers) {
	switch {
	case containsAny(line, m.IPv4):
		setMatch(&a.IPv4, ipv4Pattern, line)
	case containsAny(line, m.Mask):
		setMatch(&a.Mask, ipv4Pattern, line)
	case containsAny(line, m.Gateway):
		setMatch(&a.Gateway, ipv4Pattern, line)
	case containsAny(line, m.DNS):
		setMatch(&a.DNS, ipv4Pattern, line)
	case containsAny(line, m.MAC):
		setMatch(&a.MAC, macPattern, line)
	}
}

func setMatch(dst *string, re *regexp.Regexp, line string) {
	if v := re.FindString(line); v != "" {
		*dst = v
	}
}
