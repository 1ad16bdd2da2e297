package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"
)

func setBuild(t *testing.T, version, commit, branch, buildTime string) {
	t.Helper()
	orig := [5]string{Version, GitCommit, GitBranch, BuildTime, GoVersion}
	t.Cleanup(func() {
		Version, GitCommit, GitBranch, BuildTime, GoVersion = orig[0], orig[1], orig[2], orig[3], orig[4]
	})
	Version, GitCommit, GitBranch, BuildTime, GoVersion = version, commit, branch, buildTime, "go1.26.0"
}

func TestGet(t *testing.T) {
	tests := []struct {
		name        string
		version     string
		buildTime   string
		wantRelease bool
		wantDate    time.Time
	}{
		{"dev", "dev", "", false, time.Time{}},
		{"release", "1.0.0", "2026-01-15T10:30:00Z", true, time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"dirty", "1.0.0-dirty", "", false, time.Time{}},
		{"bad build time", "1.0.0", "yesterday", true, time.Time{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setBuild(t, tc.version, "abc1234", "main", tc.buildTime)
			info := Get()
			if info.Version != tc.version || info.GitCommit != "abc1234" || info.GoVersion != "go1.26.0" {
				t.Errorf("unexpected info: %+v", info)
			}
			if info.IsRelease != tc.wantRelease {
				t.Errorf("IsRelease = %v, want %v", info.IsRelease, tc.wantRelease)
			}
			if info.BuildDate.IsZero() {
				t.Error("BuildDate should never be zero")
			}
			if !tc.wantDate.IsZero() && !info.BuildDate.Equal(tc.wantDate) {
				t.Errorf("BuildDate = %v, want %v", info.BuildDate, tc.wantDate)
			}
		})
	}
}

func TestApplyBuildInfo(t *testing.T) {
	info := &Info{}
	applyBuildInfo(info, &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2026-03-01T08:00:00Z"},
		},
	})
	if info.GitCommit != "0123456" {
		t.Errorf("GitCommit = %q", info.GitCommit)
	}
	if !info.IsDirty {
		t.Error("expected dirty build")
	}
	if info.GoVersion != "go1.26.0" || info.BuildTime != "2026-03-01T08:00:00Z" {
		t.Errorf("unexpected info: %+v", info)
	}

	pinned := &Info{GitCommit: "fixed", GoVersion: "go1.25.0"}
	applyBuildInfo(pinned, &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings:  []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
	})
	if pinned.GitCommit != "fixed" || pinned.GoVersion != "go1.25.0" {
		t.Errorf("ldflags values overwritten: %+v", pinned)
	}
}

func TestShort(t *testing.T) {
	setBuild(t, "1.2.0", "abc1234", "", "")
	if got := Short(); !strings.HasPrefix(got, "1.2.0-abc1234") {
		t.Errorf("Short() = %q", got)
	}
}

func TestFull(t *testing.T) {
	tests := []struct {
		name   string
		branch string
		want   string
	}{
		{"main branch omitted", "main", "1.2.0-abc1234 (built 2026-01-15T10:30:00Z)"},
		{"feature branch", "feature/x", "1.2.0-abc1234-feature/x (built 2026-01-15T10:30:00Z)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setBuild(t, "1.2.0", "abc1234", tc.branch, "2026-01-15T10:30:00Z")
			got := Full()
			if strings.Contains(got, "-dirty") {
				t.Skip("test binary built from a modified tree")
			}
			if got != tc.want {
				t.Errorf("Full() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	setBuild(t, "1.2.0", "", "", "")
	if got := UserAgent(); got != "strata/1.2.0" {
		t.Errorf("UserAgent() = %q", got)
	}
}
