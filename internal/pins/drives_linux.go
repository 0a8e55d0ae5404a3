//go:build linux

package pins

import (
	"bufio"
	"os"
	"strings"
)

var pseudoFS = map[string]bool{
	"autofs": true, "devfs": true, "devtmpfs": true, "tmpfs": true, "proc": true,
	"sysfs": true, "cgroup": true, "cgroup2": true, "devpts": true, "mqueue": true,
	"overlay": true, "securityfs": true, "debugfs": true, "tracefs": true,
	"pstore": true, "bpf": true, "configfs": true, "fusectl": true, "hugetlbfs": true,
	"binfmt_misc": true, "nsfs": true, "squashfs": true, "efivarfs": true,
}

// Drives lists mounted filesystems, skipping pseudo and virtual ones. The
// home directory is returned when the mount table is unreadable.
func Drives() []string {
	f, err := os.Open("/proc/self/mounts")
	if err != nil {
		return homeOnly()
	}
	defer func() { _ = f.Close() }()

	seen := make(map[string]bool)
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 || pseudoFS[fields[2]] {
			continue
		}
		mount := unescapeMount(fields[1])
		if seen[mount] || strings.HasPrefix(mount, "/proc") || strings.HasPrefix(mount, "/sys") {
			continue
		}
		seen[mount] = true
		out = append(out, mount)
	}
	if len(out) == 0 {
		return homeOnly()
	}
	return out
}

// unescapeMount decodes the octal escapes used in the mount table for
// spaces, tabs and backslashes.
func unescapeMount(s string) string {
	r := strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`)
	return r.Replace(s)
}
