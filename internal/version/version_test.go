package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })
	Version = "1.4.0"

	tests := []struct {
		name    string
		commit  string
		date    string
		want    []string
		notWant string
	}{
		{
			name:    "no build metadata",
			commit:  "unknown",
			date:    "unknown",
			want:    []string{"bandtint version 1.4.0 (" + runtime.Version()},
			notWant: "commit:",
		},
		{
			name:   "long commit truncated",
			commit: "0123456789abcdef",
			date:   "2026-01-02T03:04:05Z",
			want:   []string{"commit: 01234567,", "built: 2026-01-02T03:04:05Z,"},
		},
		{
			name:   "short commit kept",
			commit: "abc",
			date:   "2026-01-02T03:04:05Z",
			want:   []string{"commit: abc,"},
		},
		{
			name:    "commit without date",
			commit:  "0123456789abcdef",
			date:    "unknown",
			notWant: "commit:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Commit, Date = tt.commit, tt.date
			got := String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("String() = %q, want it to contain %q", got, w)
				}
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("String() = %q, should not contain %q", got, tt.notWant)
			}
			if platform := runtime.GOOS + "/" + runtime.GOARCH + ")"; !strings.HasSuffix(got, platform) {
				t.Errorf("String() = %q, want suffix %q", got, platform)
			}
		})
	}
}

func TestShortAndUserAgent(t *testing.T) {
	oldVersion := Version
	t.Cleanup(func() { Version = oldVersion })

	Version = "2.0.1"
	if got := Short(); got != "2.0.1" {
		t.Errorf("Short() = %q", got)
	}
	if got := UserAgent(); got != "bandtint/2.0.1" {
		t.Errorf("UserAgent() = %q", got)
	}

	Version = "dev"
	if got := UserAgent(); got != "bandtint/"+Short() {
		t.Errorf("UserAgent() = %q, want bandtint/%s", got, Short())
	}
}
