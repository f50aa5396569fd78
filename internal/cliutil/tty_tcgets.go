//go:build linux || aix || zos

package cliutil

import "golang.org/x/sys/unix"

// IsTty reports whether fd refers to a terminal.
func IsTty(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}
