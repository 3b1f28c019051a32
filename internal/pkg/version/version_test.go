package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapBuildInfo 전역 빌드 정보를 교체하고 테스트 종료 시 복원합니다.
func swapBuildInfo(t *testing.T, bi Info) {
	t.Helper()

	original := Get()
	set(bi)
	t.Cleanup(func() { set(original) })
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    Info
		expected string
	}{
		{
			name: "Complete",
			input: Info{
				Version:   "v1.0.0",
				Commit:    "f25b8bf0123456",
				BuildDate: "2025-01-01",
				GoVersion: "go1.24.0",
				OS:        "linux",
				Arch:      "amd64",
			},
			expected: "v1.0.0 (commit: f25b8bf, date: 2025-01-01, go_version: go1.24.0, os: linux, arch: amd64)",
		},
		{"Dirty", Info{Version: "v1.0.0", DirtyBuild: true}, "v1.0.0+dirty"},
		{"Unknown commit hidden", Info{Version: "v1.0.0", Commit: unknown}, "v1.0.0"},
		{"Empty", Info{}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.input.String())
		})
	}
}

func TestEnrich(t *testing.T) {
	original := readBuildInfo
	t.Cleanup(func() { readBuildInfo = original })

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v0.9.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abcdef1234"},
				{Key: "vcs.time", Value: "2025-02-03T04:05:06Z"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	t.Run("Fills missing fields", func(t *testing.T) {
		bi := enrich(Info{})

		assert.Equal(t, "v0.9.0", bi.Version)
		assert.Equal(t, "abcdef1234", bi.Commit)
		assert.Equal(t, "2025-02-03T04:05:06Z", bi.BuildDate)
		assert.True(t, bi.DirtyBuild)
		assert.Equal(t, runtime.Version(), bi.GoVersion)
		assert.Equal(t, runtime.GOOS, bi.OS)
		assert.Equal(t, runtime.GOARCH, bi.Arch)
	})

	t.Run("Injected values win", func(t *testing.T) {
		bi := enrich(Info{Version: "v1.2.0", Commit: "1111111", BuildDate: "2025-01-01"})

		assert.Equal(t, "v1.2.0", bi.Version)
		assert.Equal(t, "1111111", bi.Commit)
		assert.Equal(t, "2025-01-01", bi.BuildDate)
	})

	t.Run("No build info", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

		bi := enrich(Info{Commit: none})

		assert.Equal(t, unknown, bi.Version)
		assert.Equal(t, unknown, bi.Commit)
	})
}

func TestUserAgent(t *testing.T) {
	swapBuildInfo(t, Info{Version: "v1.2.0"})

	assert.Equal(t, "hms-push-go/v1.2.0", UserAgent())
	assert.Equal(t, "v1.2.0", Version())
}

func TestInfo_JSONAndFields(t *testing.T) {
	t.Parallel()

	info := Info{Version: "v1.0.0", Commit: "abc"}

	data, err := json.Marshal(info)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "v1.0.0", decoded["version"])
	assert.Equal(t, "abc", info.Fields()["commit"])
}

// TestConcurrentAccess -race 플래그와 함께 실행해야 의미가 있습니다.
func TestConcurrentAccess(t *testing.T) {
	swapBuildInfo(t, Info{Version: "initial"})

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				set(Info{Version: fmt.Sprintf("v1.%d.%d", i, j)})
				runtime.Gosched()
			}
		}()
	}
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.NotEmpty(t, Get().Version)
			}
		}()
	}
	wg.Wait()
}
