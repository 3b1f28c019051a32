// hmspush 푸시 서비스로 메시지를 보내고 토픽 구독을 관리하는 명령행 도구입니다.
//
//	hmspush [-config hmspush.json] [-env-file .env] <command> [arguments]
//
//	send [-dry-run] <message.json>      메시지(또는 메시지 배열)를 전송하고 요청 ID를 출력
//	subscribe <topic> <token>...        토큰을 토픽에 구독
//	unsubscribe <topic> <token>...      토큰의 토픽 구독을 해지
//	topics <token>                      토큰이 구독 중인 토픽 목록을 출력
//	version                             빌드 정보를 출력
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/darkkaiser/hms-push/internal/config"
	"github.com/darkkaiser/hms-push/internal/pkg/version"
	"github.com/darkkaiser/hms-push/pkg/app"
	"github.com/darkkaiser/hms-push/pkg/auth"
	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	applog "github.com/darkkaiser/hms-push/pkg/log"
	"github.com/joho/godotenv"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// newApp 테스트에서 Fetcher를 주입하기 위해 교체합니다.
var newApp = app.New

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run 명령행 인자를 해석하고 명령을 실행한 뒤 종료 코드를 반환합니다.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fset.SetOutput(stderr)

	configFile := fset.String("config", "", "설정 파일 경로 (.json, .yaml). 비어 있으면 "+config.DefaultFilename+"이 있을 때만 사용")
	envFile := fset.String("env-file", ".env", "HMSPUSH_ 환경 변수를 담은 dotenv 파일 (없으면 무시)")
	fset.Usage = func() { usage(fset) }

	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fset.NArg() == 0 {
		usage(fset)
		return exitUsage
	}

	command, cmdArgs := fset.Arg(0), fset.Args()[1:]

	if command == "version" {
		fmt.Fprintln(stdout, version.Get().String())
		return exitOK
	}

	handler, ok := commands[command]
	if !ok {
		fmt.Fprintf(stderr, "알 수 없는 명령입니다: %s\n\n", command)
		usage(fset)
		return exitUsage
	}

	if err := loadEnvFile(*envFile); err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitError
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력합니다.
		fmt.Fprintf(stderr, "[ERROR] 설정 로드 실패: %v\n", err)
		return exitError
	}

	logCloser, err := applog.Setup(cfg.LogOptions())
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] 로그 초기화 실패: %v\n", err)
		return exitError
	}
	defer logCloser.Close()
	applog.SetDebugMode(cfg.Debug)

	a, cleanup, err := openApp(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitError
	}
	defer cleanup()

	if err := handler(ctx, a, cmdArgs, stdout, stderr); err != nil {
		if errors.Is(err, errUsage) {
			usage(fset)
			return exitUsage
		}

		applog.WithComponentAndFields("main", applog.Fields{
			"command": command,
			"error":   err,
		}).Error("명령 실행 실패")

		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitError
	}

	return exitOK
}

func usage(fset *flag.FlagSet) {
	out := fset.Output()
	fmt.Fprintf(out, "사용법: %s [옵션] <명령> [인자]\n\n", config.AppName)
	fmt.Fprintln(out, "명령:")
	fmt.Fprintln(out, "  send [-dry-run] <message.json>   메시지(또는 메시지 배열)를 전송합니다")
	fmt.Fprintln(out, "  subscribe <topic> <token>...     토큰을 토픽에 구독합니다")
	fmt.Fprintln(out, "  unsubscribe <topic> <token>...   토큰의 토픽 구독을 해지합니다")
	fmt.Fprintln(out, "  topics <token>                   토큰이 구독 중인 토픽을 출력합니다")
	fmt.Fprintln(out, "  version                          빌드 정보를 출력합니다")
	fmt.Fprintln(out, "\n옵션:")
	fset.PrintDefaults()
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperrors.Wrapf(err, apperrors.ParsingFailed, "dotenv 파일을 읽지 못했습니다: '%s'", path)
	}
	return nil
}

// loadConfig 경로가 지정되지 않으면 기본 설정 파일이 있을 때만 읽고, 없으면 환경 변수만 사용합니다.
func loadConfig(path string) (*config.AppConfig, error) {
	if path != "" {
		return config.LoadWithFile(path)
	}
	if _, err := os.Stat(config.DefaultFilename); err == nil {
		return config.Load()
	}
	return config.LoadWithFile("")
}

// openApp App을 생성합니다. 공유 토큰 캐시가 설정되어 있으면 Redis에 연결합니다.
func openApp(ctx context.Context, cfg *config.AppConfig) (*app.App, func(), error) {
	var opts []app.Option
	var redisClient *auth.RedisClient

	if cfg.TokenCache.Enabled() {
		rc, err := auth.NewRedisClient(ctx, cfg.TokenCache.RedisAddr, cfg.TokenCache.RedisPassword, cfg.TokenCache.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		redisClient = rc
		opts = append(opts, app.WithTokenStore(rc))
	}

	a, err := newApp(cfg.Push, opts...)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		_ = a.Close()
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				applog.WithComponent("main").WithError(err).Warn("Redis 연결을 닫지 못했습니다")
			}
		}
	}

	return a, cleanup, nil
}
