package hosts

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenNHP/opennhp/nhp/log"

	"github.com/YongboStudio/WinToolbox/common"
)

// Entry is an address/name pair destined for the hosts file.
type Entry struct {
	IP     string
	Domain string
}

// Accessor reads and writes the hosts file verbatim. It takes no backup.
type Accessor struct {
	path string
}

func NewAccessor() *Accessor {
	return &Accessor{path: common.HostsPath}
}

// NewAccessorAt points the accessor at another file.
func NewAccessorAt(path string) *Accessor {
	return &Accessor{path: path}
}

func (a *Accessor) Path() string {
	return a.path
}

func (a *Accessor) Dir() string {
	return filepath.Dir(a.path)
}

func (a *Accessor) Read() (string, error) {
	log.Debug("read hosts file: %s", a.path)
	content, err := os.ReadFile(a.path)
	if err != nil {
		log.Error("read hosts file fail: %v", err)
		return "", err
	}
	return string(content), nil
}

// Write replaces the whole file with content.
func (a *Accessor) Write(content string) error {
	log.Info("write hosts file: %s", a.path)
	if err := os.WriteFile(a.path, []byte(content), 0644); err != nil {
		log.Error("write hosts file fail: %v", err)
		return err
	}
	log.Info("hosts file saved")
	return nil
}

// FormatEntry returns a line ready to be appended to existing content. The
// values are not validated.
func FormatEntry(ip, domain string) string {
	return fmt.Sprintf("\n%s\t%s", ip, domain)
}

// Append adds one entry to the end of the file.
func (a *Accessor) Append(e Entry) common.Result {
	ip, domain := strings.TrimSpace(e.IP), strings.TrimSpace(e.Domain)
	if ip == "" {
		return a.reject(&common.ValidationError{Field: "ip"})
	}
	if domain == "" {
		return a.reject(&common.ValidationError{Field: "domain"})
	}
	content, err := a.Read()
	if err != nil {
		return common.Fail("read hosts failed", err)
	}
	if err := a.Write(content + FormatEntry(ip, domain)); err != nil {
		return common.Fail("write hosts failed", err)
	}
	return common.OK(fmt.Sprintf("added %s %s", ip, domain))
}

// Save writes content and converts the outcome into a Result.
func (a *Accessor) Save(content string) common.Result {
	if err := a.Write(content); err != nil {
		return common.Fail("write hosts failed", err)
	}
	return common.OK("hosts saved")
}

func (a *Accessor) reject(err error) common.Result {
	log.Warning("hosts change rejected: %v", err)
	return common.Fail("", err)
}

// Lookup returns the addresses the file maps domain to, ignoring comments.
func Lookup(content, domain string) []string {
	var ips []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for _, name := range fields[1:] {
			if strings.EqualFold(name, domain) {
				ips = append(ips, fields[0])
				break
			}
		}
	}
	return ips
}
