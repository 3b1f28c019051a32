// Package version SDK와 hmspush CLI의 빌드 정보를 제공합니다.
//
// 버전, 커밋 해시, 빌드 시간은 링커 플래그(-ldflags "-X ...")로 주입되며,
// 주입되지 않은 값은 debug.ReadBuildInfo의 VCS 메타데이터로 보강합니다.
// 푸시 서비스로 보내는 요청의 기본 User-Agent("hms-push-go/<버전>")도 이 정보로 만들어집니다.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

const (
	unknown = "unknown"
	none    = "none"

	// sdkName User-Agent 헤더에 사용하는 SDK 이름
	sdkName = "hms-push-go"
)

var current atomic.Value

// readBuildInfo 테스트에서 교체할 수 있도록 변수로 선언합니다.
var readBuildInfo = debug.ReadBuildInfo

// 링커 플래그로 주입되는 값입니다. 직접 참조하지 말고 Get()을 사용합니다.
//
//	go build -ldflags "-X github.com/darkkaiser/hms-push/internal/pkg/version.appVersion=v1.2.0"
var (
	appVersion    = ""
	gitCommitHash = ""
	gitTreeState  = ""
	buildDate     = ""
)

func init() {
	bi := Info{
		Version:   strings.TrimSpace(appVersion),
		Commit:    strings.TrimSpace(gitCommitHash),
		BuildDate: strings.TrimSpace(buildDate),
	}
	if strings.EqualFold(strings.TrimSpace(gitTreeState), "dirty") {
		bi.DirtyBuild = true
	}

	set(enrich(bi))
}

// Info 빌드 정보
type Info struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	DirtyBuild bool   `json:"dirty_build"`
}

// Get 현재 빌드 정보를 반환합니다.
func Get() Info {
	bi, ok := current.Load().(Info)
	if !ok {
		return Info{Version: unknown, Commit: unknown, BuildDate: unknown}
	}
	return bi
}

func set(bi Info) {
	current.Store(bi)
}

// enrich 비어 있는 필드를 런타임 정보와 모듈의 VCS 메타데이터로 채웁니다.
// ldflags가 주입되지 않은 go run, go test 환경에서도 최소한의 정보를 얻기 위함입니다.
func enrich(bi Info) Info {
	if bi.GoVersion == "" {
		bi.GoVersion = runtime.Version()
	}
	if bi.OS == "" {
		bi.OS = runtime.GOOS
	}
	if bi.Arch == "" {
		bi.Arch = runtime.GOARCH
	}

	if info, ok := readBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if bi.Commit == "" || bi.Commit == unknown || bi.Commit == none {
					bi.Commit = s.Value
				}
			case "vcs.time":
				if bi.BuildDate == "" || bi.BuildDate == unknown {
					bi.BuildDate = s.Value
				}
			case "vcs.modified":
				if s.Value == "true" {
					bi.DirtyBuild = true
				}
			}
		}
		if bi.Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			bi.Version = info.Main.Version
		}
	}

	if bi.Version == "" {
		bi.Version = unknown
	}
	if bi.Commit == "" || bi.Commit == none {
		bi.Commit = unknown
	}

	return bi
}

// Version SDK 버전 문자열을 반환합니다.
func Version() string {
	return Get().Version
}

// UserAgent 푸시 서비스로 보내는 요청의 기본 User-Agent를 반환합니다. (예: "hms-push-go/v1.2.0")
func UserAgent() string {
	return sdkName + "/" + Version()
}

// Fields 구조적 로깅용 필드
func (i Info) Fields() map[string]any {
	return map[string]any{
		"version":     i.Version,
		"commit":      i.Commit,
		"build_date":  i.BuildDate,
		"go_version":  i.GoVersion,
		"os":          i.OS,
		"arch":        i.Arch,
		"dirty_build": i.DirtyBuild,
	}
}

// String 빌드 정보를 한 줄로 요약합니다. (예: "v1.2.0 (commit: f25b8bf, go_version: go1.24.0, os: linux, arch: amd64)")
func (i Info) String() string {
	if i.Version == "" {
		return unknown
	}

	v := i.Version
	if i.DirtyBuild {
		v += "+dirty"
	}

	var details []string
	if i.Commit != "" && i.Commit != unknown {
		commit := i.Commit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		details = append(details, "commit: "+commit)
	}
	if i.BuildDate != "" && i.BuildDate != unknown {
		details = append(details, "date: "+i.BuildDate)
	}
	if i.GoVersion != "" {
		details = append(details, "go_version: "+i.GoVersion)
	}
	if i.OS != "" {
		details = append(details, "os: "+i.OS)
	}
	if i.Arch != "" {
		details = append(details, "arch: "+i.Arch)
	}

	if len(details) == 0 {
		return v
	}
	return fmt.Sprintf("%s (%s)", v, strings.Join(details, ", "))
}
