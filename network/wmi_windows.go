//go:build windows

package network

import (
	"github.com/StackExchange/wmi"
)

const adapterQuery = "SELECT Description, IPAddress, IPSubnet, DefaultIPGateway, DNSServerSearchOrder, MACAddress " +
	"FROM Win32_NetworkAdapterConfiguration WHERE IPEnabled=True"

// WMIAdapters lists configured adapters through WMI instead of parsing
// ipconfig output, which makes it independent of the display language.
func WMIAdapters() ([]AdapterInfo, error) {
	var configs []adapterConfig
	if err := wmi.Query(adapterQuery, &configs); err != nil {
		return nil, err
	}
	return adaptersFromWMI(configs), nil
}
