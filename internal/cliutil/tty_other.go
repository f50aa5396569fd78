//go:build !linux && !aix && !zos && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package cliutil

// IsTty reports whether fd refers to a terminal. Platforms without
// termios report false, which makes the tools require explicit file
// arguments instead of waiting on stdin.
func IsTty(fd uintptr) bool {
	return false
}
