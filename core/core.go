// Package core provides the stack facade: it wires the interrupt subsystem,
// device registry, protocol dispatcher and IPv4 interface layer into a single
// Stack, and owns their init/run/shutdown ordering.
package core

import (
	"fmt"
	"runtime"
)

var (
	Version_x byte = 0
	Version_y byte = 1
	Version_z byte = 0
)

const codename = "netcore, a userspace device/protocol plane."

// Version returns the core's version as "x.y.z".
func Version() string {
	return fmt.Sprintf("%v.%v.%v", Version_x, Version_y, Version_z)
}

// VersionStatement returns a short multi-line description of this build.
func VersionStatement() []string {
	return []string{
		fmt.Sprintf("netcore %s (%s) %s/%s", Version(), runtime.Version(), runtime.GOOS, runtime.GOARCH),
		codename,
	}
}
