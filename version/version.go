// Package version reports how the schemagen binary was built.
//
// Release builds stamp the variables below with ldflags:
//
//	-X github.com/teranos/schemagen/version.Version=1.2.0
//	-X github.com/teranos/schemagen/version.CommitHash=$(git rev-parse HEAD)
//
// Anything left unstamped is taken from the module and VCS data the Go
// toolchain embeds, so `go install` binaries still know their version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/schemagen/errors"
)

// DevVersion marks an untagged build
const DevVersion = "dev"

const unknownTime = "unknown"

// Stamped at link time
var (
	Version    = DevVersion
	CommitHash = DevVersion
	BuildTime  = unknownTime
)

// readBuildInfo is replaced in tests
var readBuildInfo = debug.ReadBuildInfo

// Info describes one build
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit_hash"`
	BuiltAt   string `json:"build_time"`
	Modified  bool   `json:"modified,omitzero"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the running binary's build info
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    CommitHash,
		BuiltAt:   BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := readBuildInfo(); ok {
		info.fill(bi)
	}
	return info
}

// fill completes what ldflags left unset. Stamped values always win.
func (i *Info) fill(bi *debug.BuildInfo) {
	if i.Version == DevVersion {
		v := strings.TrimPrefix(bi.Main.Version, "v")
		if v != "" && v != "(devel)" {
			i.Version = v
		}
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.Commit == DevVersion {
				i.Commit = s.Value
			}
		case "vcs.time":
			if i.BuiltAt == unknownTime {
				i.BuiltAt = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

// IsDev reports an untagged build
func (i Info) IsDev() bool {
	return i.Version == "" || i.Version == DevVersion
}

// Semver parses the version. Development builds have none.
func (i Info) Semver() (*semver.Version, error) {
	if i.IsDev() {
		return nil, errors.New("development build has no release version")
	}
	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schemagen version %s", i.Version)
	}
	return v, nil
}

func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schemagen %s (commit %s", i.Version, i.Short())
	if i.Modified {
		b.WriteString(", modified")
	}
	fmt.Fprintf(&b, ", built %s)", i.BuiltAt)
	return b.String()
}

// Short is the abbreviated commit
func (i Info) Short() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}
