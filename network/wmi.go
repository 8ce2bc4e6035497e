package network

import (
	"strings"
)

// adapterConfig mirrors the Win32_NetworkAdapterConfiguration properties we read.
type adapterConfig struct {
	Description          string   `wmi:"Description"`
	IPAddress            []string `wmi:"IPAddress"`
	IPSubnet             []string `wmi:"IPSubnet"`
	DefaultIPGateway     []string `wmi:"DefaultIPGateway"`
	DNSServerSearchOrder []string `wmi:"DNSServerSearchOrder"`
	MACAddress           string   `wmi:"MACAddress"`
}

func isIPv4(s string) bool {
	return ipv4Pattern.MatchString(s) && !strings.Contains(s, ":")
}

func firstIPv4(list []string) string {
	for _, s := range list {
		if isIPv4(s) {
			return s
		}
	}
	return ""
}

// adaptersFromWMI converts WMI rows to the same records ParseIPConfig emits.
func adaptersFromWMI(configs []adapterConfig) []AdapterInfo {
	var adapters []AdapterInfo
	for _, cfg := range configs {
		a := AdapterInfo{
			Name:    cfg.Description,
			Gateway: firstIPv4(cfg.DefaultIPGateway),
			DNS:     firstIPv4(cfg.DNSServerSearchOrder),
			MAC:     strings.ReplaceAll(strings.ToUpper(cfg.MACAddress), ":", "-"),
		}
		for i, ip := range cfg.IPAddress {
			if !isIPv4(ip) {
				continue
			}
			a.IPv4 = ip
			if i < len(cfg.IPSubnet) {
				a.Mask = cfg.IPSubnet[i]
			}
			break
		}
		if a.IPv4 != "" {
			adapters = append(adapters, a)
		}
	}
	return adapters
}
