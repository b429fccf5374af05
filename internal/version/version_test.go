package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func withVars(t *testing.T, version, commit, built string) {
	t.Helper()
	v, c, b := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = v, c, b })
}

func TestGetFromLdflags(t *testing.T) {
	withVars(t, "v1.2.3", "abcdef1234567", "2026-01-02T03:04:05Z")
	withBuildInfo(t, nil)

	info := Get()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "abcdef1234567", info.GitCommit)
	assert.True(t, info.Release)
	assert.False(t, info.Dirty)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)
	assert.Equal(t, "v1.2.3 (abcdef1)", info.Short())
	assert.Contains(t, info.Platform, "/")
}

func TestGetFromVCSSettings(t *testing.T) {
	withVars(t, "dev", "unknown", "unknown")
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	info := Get()
	assert.Equal(t, "dev-0123456", info.Version)
	assert.Equal(t, "0123456789abcdef", info.GitCommit)
	assert.False(t, info.Release)
	assert.True(t, info.Dirty)
	assert.True(t, info.BuildTime.IsZero())
	assert.Equal(t, "dev-0123456 (0123456)", info.Short())
	assert.Contains(t, info.Detailed(), "Working directory: dirty")
}

func TestGetWithoutAnyInfo(t *testing.T) {
	withVars(t, "dev", "unknown", "garbage")
	withBuildInfo(t, nil)

	info := Get()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "unknown", info.GitCommit)
	assert.Equal(t, "dev", info.Short())

	detailed := info.Detailed()
	assert.True(t, strings.HasPrefix(detailed, "Version: dev\n"))
	assert.NotContains(t, detailed, "Commit:")
	assert.NotContains(t, detailed, "Built:")
}

func TestParseBuildTime(t *testing.T) {
	assert.False(t, parseBuildTime("2026-10-16 12:00:00").IsZero())
	assert.False(t, parseBuildTime("2026-10-16T12:00:00").IsZero())
	assert.True(t, parseBuildTime("yesterday").IsZero())
}
