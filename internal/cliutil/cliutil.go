// Package cliutil provides small helpers shared by the command line
// tools.
package cliutil
