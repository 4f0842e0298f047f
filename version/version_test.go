package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	original := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = original })
}

func TestGet_Stamped(t *testing.T) {
	withBuildInfo(t, nil)

	info := Get()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, CommitHash, info.Commit)
}

func TestGet_EmbeddedBuildInfo(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/teranos/schemagen", Version: "v1.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "89abcdef0123"},
			{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	info := Get()
	assert.Equal(t, "1.3.0", info.Version)
	assert.Equal(t, "89abcdef0123", info.Commit)
	assert.Equal(t, "2026-03-04T05:06:07Z", info.BuiltAt)
	assert.True(t, info.Modified)
}

func TestFill_StampedValuesWin(t *testing.T) {
	info := Info{Version: "2.0.0", Commit: "feedface", BuiltAt: "yesterday"}
	info.fill(&debug.BuildInfo{
		Main:     debug.Module{Version: "v1.0.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "other"}, {Key: "vcs.time", Value: "now"}},
	})
	assert.Equal(t, "2.0.0", info.Version)
	assert.Equal(t, "feedface", info.Commit)
	assert.Equal(t, "yesterday", info.BuiltAt)

	// go run and go test report (devel)
	dev := Info{Version: DevVersion}
	dev.fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.True(t, dev.IsDev())
}

func TestSemver(t *testing.T) {
	v, err := Info{Version: "1.4.1"}.Semver()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), v.Minor())

	_, err = Info{Version: DevVersion}.Semver()
	assert.Error(t, err)

	_, err = Info{Version: "not-semver"}.Semver()
	assert.Error(t, err)
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "tagged",
			info: Info{Version: "1.2.0", Commit: "0123456789abcdef", BuiltAt: "2026-01-02"},
			want: "schemagen 1.2.0 (commit 0123456, built 2026-01-02)",
		},
		{
			name: "dev",
			info: Info{Version: DevVersion, Commit: DevVersion, BuiltAt: "unknown"},
			want: "schemagen dev (commit dev, built unknown)",
		},
		{
			name: "modified tree",
			info: Info{Version: "1.2.0", Commit: "abc", BuiltAt: "now", Modified: true},
			want: "schemagen 1.2.0 (commit abc, modified, built now)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abcdef0", Info{Commit: "abcdef0123"}.Short())
	assert.Equal(t, "abc", Info{Commit: "abc"}.Short())
}
