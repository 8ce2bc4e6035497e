package tools

import (
	"os"
	"path/filepath"
	"strings"
)

// Member is one executable of a tool suite.
type Member struct {
	Exe         string
	Name        string
	Description string
	Installed   bool
}

// sysinternalsMembers is the curated list shown for the Sysinternals Suite.
var sysinternalsMembers = []Member{
	{Exe: "procmon.exe", Name: "Process Monitor", Description: "Live file system, registry and process activity"},
	{Exe: "procexp.exe", Name: "Process Explorer", Description: "Task manager with per-process detail"},
	{Exe: "autoruns.exe", Name: "Autoruns", Description: "Every auto-starting program and its location"},
	{Exe: "tcpview.exe", Name: "TCPView", Description: "All TCP and UDP endpoints"},
	{Exe: "psexec.exe", Name: "PsExec", Description: "Run processes on remote systems"},
	{Exe: "handle.exe", Name: "Handle", Description: "Handles opened by processes"},
	{Exe: "listdlls.exe", Name: "ListDLLs", Description: "DLLs loaded by processes"},
	{Exe: "diskmon.exe", Name: "DiskMon", Description: "Disk activity monitor"},
	{Exe: "portmon.exe", Name: "Portmon", Description: "Serial and parallel port monitor"},
	{Exe: "dbgview.exe", Name: "DebugView", Description: "Debug output viewer"},
	{Exe: "accesschk.exe", Name: "AccessChk", Description: "Effective permission checker"},
	{Exe: "adexplorer.exe", Name: "AD Explorer", Description: "Active Directory browser"},
	{Exe: "bginfo.exe", Name: "BgInfo", Description: "System information on the desktop background"},
	{Exe: "Coreinfo.exe", Name: "Coreinfo", Description: "CPU and memory topology"},
	{Exe: "desktops.exe", Name: "Desktops", Description: "Virtual desktops"},
	{Exe: "disk2vhd.exe", Name: "Disk2vhd", Description: "Convert physical disks to VHD"},
	{Exe: "du.exe", Name: "Du", Description: "Disk usage by directory"},
	{Exe: "hex2dec.exe", Name: "Hex2dec", Description: "Hex and decimal conversion"},
	{Exe: "junction.exe", Name: "Junction", Description: "Create and list directory junctions"},
	{Exe: "livekd.exe", Name: "LiveKd", Description: "Local kernel debugging"},
	{Exe: "logonsessions.exe", Name: "LogonSessions", Description: "Active logon sessions"},
	{Exe: "notmyfault.exe", Name: "NotMyFault", Description: "Crash and hang testing"},
	{Exe: "pendmoves.exe", Name: "PendMoves", Description: "Pending file rename operations"},
	{Exe: "pipelist.exe", Name: "PipeList", Description: "Named pipes"},
	{Exe: "procdump.exe", Name: "ProcDump", Description: "Process dump capture"},
	{Exe: "psgetsid.exe", Name: "PsGetSid", Description: "Show SIDs"},
	{Exe: "psinfo.exe", Name: "PsInfo", Description: "System information"},
	{Exe: "pskill.exe", Name: "PsKill", Description: "Terminate processes"},
	{Exe: "pslist.exe", Name: "PsList", Description: "Process list"},
	{Exe: "psloggedon.exe", Name: "PsLoggedOn", Description: "Logged-on users"},
	{Exe: "pspasswd.exe", Name: "PsPasswd", Description: "Change account passwords"},
	{Exe: "psservice.exe", Name: "PsService", Description: "Service control"},
	{Exe: "psshutdown.exe", Name: "PsShutdown", Description: "Shut down or reboot"},
	{Exe: "pssuspend.exe", Name: "PsSuspend", Description: "Suspend processes"},
	{Exe: "RAMMap.exe", Name: "RAMMap", Description: "Physical memory usage analysis"},
	{Exe: "RegDelNull.exe", Name: "RegDelNull", Description: "Delete registry keys with embedded nulls"},
	{Exe: "regjump.exe", Name: "RegJump", Description: "Open Regedit at a key path"},
	{Exe: "ru.exe", Name: "Registry Usage", Description: "Registry space usage"},
	{Exe: "sdelete.exe", Name: "SDelete", Description: "Secure delete"},
	{Exe: "ShareEnum.exe", Name: "ShareEnum", Description: "Enumerate file shares"},
	{Exe: "shellrunas.exe", Name: "ShellRunas", Description: "Run as another user"},
	{Exe: "sigcheck.exe", Name: "Sigcheck", Description: "File signature verification"},
	{Exe: "streams.exe", Name: "Streams", Description: "NTFS alternate data streams"},
	{Exe: "strings.exe", Name: "Strings", Description: "Extract strings from binaries"},
	{Exe: "sync.exe", Name: "Sync", Description: "Flush cached disk data"},
	{Exe: "Testlimit.exe", Name: "Testlimit", Description: "Resource limit testing"},
	{Exe: "vmmap.exe", Name: "VMMap", Description: "Virtual memory analysis"},
	{Exe: "volumeid.exe", Name: "VolumeId", Description: "Change volume serial numbers"},
	{Exe: "whois.exe", Name: "Whois", Description: "Domain registration lookup"},
	{Exe: "Winobj.exe", Name: "WinObj", Description: "Object manager namespace viewer"},
	{Exe: "ZoomIt.exe", Name: "ZoomIt", Description: "Screen zoom and annotation"},
}

// Match reports whether keyword occurs in the executable, name or
// description, ignoring case. An empty keyword matches everything.
func (m Member) Match(keyword string) bool {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Exe), k) ||
		strings.Contains(strings.ToLower(m.Name), k) ||
		strings.Contains(strings.ToLower(m.Description), k)
}

// MemberCatalog lists the members of a tool filtered by keyword. Suites with
// a curated list report every known member with its install state; other
// tools report the executables found on disk.
func (r *Registry) MemberCatalog(id, keyword string) ([]Member, error) {
	tool, ok := r.Get(id)
	if !ok {
		return nil, errToolNotFound(id)
	}

	var members []Member
	if id == Sysinternals {
		dir := tool.InstallDir(r.baseDir())
		for _, m := range sysinternalsMembers {
			if !m.Match(keyword) {
				continue
			}
			info, err := os.Stat(filepath.Join(dir, m.Exe))
			m.Installed = err == nil && !info.IsDir()
			members = append(members, m)
		}
		return members, nil
	}

	names, err := r.Members(id)
	if err != nil {
		return nil, err
	}
	for _, exe := range names {
		m := Member{Exe: exe, Name: strings.TrimSuffix(exe, filepath.Ext(exe)), Installed: true}
		if exe == tool.ExeName {
			m.Name, m.Description = tool.Name, tool.Description
		}
		if m.Match(keyword) {
			members = append(members, m)
		}
	}
	return members, nil
}
