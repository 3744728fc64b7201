package hello

import (
	"bytes"
	"os"
	"runtime"
	"syscall"
)

type hostIdentityInfo struct {
	sysname  string
	nodename string
	release  string
}

// hostIdentity gathers the OS name, node name, and kernel release the way
// Python's os.uname() does for the original hello module. On non-Linux
// platforms (where syscall.Utsname isn't available) it falls back to
// runtime.GOOS and os.Hostname.
func hostIdentity() (hostIdentityInfo, error) {
	if runtime.GOOS != "linux" {
		hostname, err := os.Hostname()
		if err != nil {
			return hostIdentityInfo{}, err
		}
		return hostIdentityInfo{sysname: runtime.GOOS, nodename: hostname, release: "unknown"}, nil
	}

	var uts syscall.Utsname
	if err := syscall.Uname(&uts); err != nil {
		return hostIdentityInfo{}, err
	}

	return hostIdentityInfo{
		sysname:  utsToString(uts.Sysname[:]),
		nodename: utsToString(uts.Nodename[:]),
		release:  utsToString(uts.Release[:]),
	}, nil
}

func utsToString(field []int8) string {
	buf := make([]byte, 0, len(field))
	for _, c := range field {
		if c == 0 {
			break
		}
		buf = append(buf, byte(c))
	}
	return string(bytes.TrimRight(buf, "\x00"))
}
