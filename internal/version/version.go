// Package version reports which bandtint build is running.
package version

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X github.com/jmylchreest/bandtint/internal/version.<Name>=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the release version. A dev build installed with
// "go install ...@vX.Y.Z" reports the module version instead.
func Short() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}

// String describes the build for "bandtint version".
func String() string {
	var b strings.Builder
	b.WriteString("bandtint version ")
	b.WriteString(Short())
	b.WriteString(" (")
	if Commit != "unknown" && Date != "unknown" {
		b.WriteString("commit: " + shortCommit(Commit) + ", built: " + Date + ", ")
	}
	b.WriteString(runtime.Version() + ", " + runtime.GOOS + "/" + runtime.GOARCH + ")")
	return b.String()
}

// UserAgent is the product token sent with outbound HTTP requests.
func UserAgent() string {
	return "bandtint/" + Short()
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}
