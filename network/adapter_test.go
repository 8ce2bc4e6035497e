package network

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ipconfigEnglish = `
Windows IP Configuration

   Host Name . . . . . . . . . . . . : DESKTOP-7Q1
   Primary Dns Suffix  . . . . . . . :
   Node Type . . . . . . . . . . . . : Hybrid

Ethernet adapter Ethernet:

   Connection-specific DNS Suffix  . : lan
   Description . . . . . . . . . . . : Intel(R) Ethernet Connection (7) I219-V Adapter
   Physical Address. . . . . . . . . : 00-1A-2B-3C-4D-5E
   DHCP Enabled. . . . . . . . . . . : Yes
   IPv4 Address. . . . . . . . . . . : 192.168.1.23(Preferred)
   Subnet Mask . . . . . . . . . . . : 255.255.255.0
   Default Gateway . . . . . . . . . : 192.168.1.1
   DNS Servers . . . . . . . . . . . : 192.168.1.1
                                       8.8.8.8

Wireless LAN adapter Wi-Fi:

   Media State . . . . . . . . . . . : Media disconnected
   Physical Address. . . . . . . . . : 10-20-30-40-50-60

Ethernet adapter VPN:
   IPv4 Address. . . . . . . . . . . : 10.8.0.2(Preferred)
   Subnet Mask . . . . . . . . . . . : 255.255.255.0
`

const ipconfigChinese = "Windows IP 配置\r\n\r\n" +
	"以太网适配器 以太网:\r\n\r\n" +
	"   连接特定的 DNS 后缀 . . . . . . . :\r\n" +
	"   描述. . . . . . . . . . . . . . . : Realtek PCIe GbE Family Controller\r\n" +
	"   物理地址. . . . . . . . . . . . . : 00-E0-4C-68-01-02\r\n" +
	"   IPv4 地址 . . . . . . . . . . . . : 192.168.0.8(首选)\r\n" +
	"   子网掩码  . . . . . . . . . . . . : 255.255.255.0\r\n" +
	"   默认网关. . . . . . . . . . . . . : 192.168.0.1\r\n" +
	"   DNS 服务器  . . . . . . . . . . . : 114.114.114.114\r\n\r\n" +
	"无线局域网适配器 WLAN:\r\n\r\n" +
	"   媒体状态  . . . . . . . . . . . . : 媒体已断开连接\r\n"

func TestParseIPConfigEnglish(t *testing.T) {
	adapters := ParseIPConfig(ipconfigEnglish, nil)
	require.Len(t, adapters, 2)

	assert.Equal(t, AdapterInfo{
		Name:    "Ethernet adapter Ethernet",
		IPv4:    "192.168.1.23",
		Mask:    "255.255.255.0",
		Gateway: "192.168.1.1",
		DNS:     "192.168.1.1",
		MAC:     "00-1A-2B-3C-4D-5E",
	}, adapters[0])

	assert.Equal(t, "Ethernet adapter VPN", adapters[1].Name)
	assert.Equal(t, "10.8.0.2", adapters[1].IPv4)
	assert.Empty(t, adapters[1].MAC)
}

func TestParseIPConfigChinese(t *testing.T) {
	adapters := ParseIPConfig(ipconfigChinese, DefaultMarkers())
	require.Len(t, adapters, 1)

	assert.Equal(t, AdapterInfo{
		Name:    "以太网适配器 以太网",
		IPv4:    "192.168.0.8",
		Mask:    "255.255.255.0",
		Gateway: "192.168.0.1",
		DNS:     "114.114.114.114",
		MAC:     "00-E0-4C-68-01-02",
	}, adapters[0])
}

func TestParseIPConfigKeepsOnlyConfiguredAdapters(t *testing.T) {
	// Build N headers where every third one has an address.
	const n = 10
	var b strings.Builder
	var want []string
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Ethernet adapter eth%d:\n\n", i)
		fmt.Fprintf(&b, "   Physical Address. . . . . . . . . : 00-00-00-00-00-%02d\n", i)
		if i%3 == 0 {
			fmt.Fprintf(&b, "   IPv4 Address. . . . . . . . . . . : 10.0.0.%d\n", i+1)
			want = append(want, fmt.Sprintf("Ethernet adapter eth%d", i))
		}
		b.WriteString("\n")
	}

	adapters := ParseIPConfig(b.String(), nil)
	var got []string
	for _, a := range adapters {
		got = append(got, a.Name)
	}
	assert.Equal(t, want, got)
}

func TestParseIPConfigIgnoresGarbage(t *testing.T) {
	assert.Empty(t, ParseIPConfig("", nil))
	assert.Empty(t, ParseIPConfig("IPv4 Address . . : 1.2.3.4\nno header here", nil))
}

func TestParseIPConfigIndentedHeader(t *testing.T) {
	text := "Ethernet adapter A:\n   IPv4 Address : 10.0.0.1\n  Tunnel adapter B:\n   IPv4 Address : 10.0.0.2\n"
	adapters := ParseIPConfig(text, nil)
	require.Len(t, adapters, 2)
	assert.Equal(t, AdapterInfo{Name: "Ethernet adapter A", IPv4: "10.0.0.1"}, adapters[0])
	assert.Equal(t, AdapterInfo{Name: "Tunnel adapter B", IPv4: "10.0.0.2"}, adapters[1])
}

func TestParseIPConfigHeaderWithoutColon(t *testing.T) {
	text := "Ethernet adapter A\n   IPv4 Address : 10.0.0.1\n   Description . . . : Hyper-V Virtual Ethernet Adapter\n   Subnet Mask : 255.0.0.0\n"
	adapters := ParseIPConfig(text, nil)
	require.Len(t, adapters, 1)
	assert.Equal(t, "Ethernet adapter A", adapters[0].Name)
	assert.Equal(t, "255.0.0.0", adapters[0].Mask)
}

func TestParseIPConfigFirstLabelWins(t *testing.T) {
	// The IPv4 label claims the line even though it carries no address, so
	// the mask label on the same line is never considered.
	text := "Ethernet adapter A:\n   IPv4 Address Subnet Mask : none\n   IPv4 Address : 10.0.0.1\n"
	adapters := ParseIPConfig(text, nil)
	require.Len(t, adapters, 1)
	assert.Equal(t, "10.0.0.1", adapters[0].IPv4)
	assert.Empty(t, adapters[0].Mask)
}

func TestLoadMarkersOverridesSomeLists(t *testing.T) {
	file := filepath.Join(t.TempDir(), "markers.toml")
	require.NoError(t, os.WriteFile(file, []byte(`adapter = ["Adaptateur"]
ipv4 = ["Adresse IPv4"]
`), 0644))

	m, err := LoadMarkers(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"Adaptateur"}, m.Adapter)
	assert.Equal(t, []string{"Adresse IPv4"}, m.IPv4)
	assert.Equal(t, DefaultMarkers().Mask, m.Mask)

	text := "Carte Ethernet Adaptateur Ethernet :\n   Adresse IPv4. . . : 192.168.2.5\n"
	adapters := ParseIPConfig(text, m)
	require.Len(t, adapters, 1)
	assert.Equal(t, "192.168.2.5", adapters[0].IPv4)
}

func TestLoadMarkersInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "markers.toml")
	require.NoError(t, os.WriteFile(file, []byte("adapter = ["), 0644))
	_, err := LoadMarkers(file)
	assert.Error(t, err)
}

func TestAdaptersFromWMI(t *testing.T) {
	adapters := adaptersFromWMI([]adapterConfig{
		{
			Description:          "Intel(R) Ethernet",
			IPAddress:            []string{"fe80::1", "192.168.1.23"},
			IPSubnet:             []string{"64", "255.255.255.0"},
			DefaultIPGateway:     []string{"192.168.1.1"},
			DNSServerSearchOrder: []string{"192.168.1.1", "8.8.8.8"},
			MACAddress:           "00:1a:2b:3c:4d:5e",
		},
		{Description: "Loopback only v6", IPAddress: []string{"::1"}},
	})
	require.Len(t, adapters, 1)
	assert.Equal(t, AdapterInfo{
		Name:    "Intel(R) Ethernet",
		IPv4:    "192.168.1.23",
		Mask:    "255.255.255.0",
		Gateway: "192.168.1.1",
		DNS:     "192.168.1.1",
		MAC:     "00-1A-2B-3C-4D-5E",
	}, adapters[0])
}
