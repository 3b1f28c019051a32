package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/darkkaiser/hms-push/pkg/app"
	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/darkkaiser/hms-push/pkg/messaging"
)

// errUsage 인자가 잘못되어 사용법을 출력해야 하는 경우
var errUsage = errors.New("usage")

type commandFunc func(ctx context.Context, a *app.App, args []string, stdout, stderr io.Writer) error

var commands = map[string]commandFunc{
	"send":        sendCommand,
	"subscribe":   topicCommand(true),
	"unsubscribe": topicCommand(false),
	"topics":      topicsCommand,
}

// sendCommand 파일의 메시지를 전송합니다. 파일이 JSON 배열이면 SendAll로 한 번에 전송합니다.
func sendCommand(ctx context.Context, a *app.App, args []string, stdout, stderr io.Writer) error {
	fset := flag.NewFlagSet("send", flag.ContinueOnError)
	fset.SetOutput(stderr)
	dryRun := fset.Bool("dry-run", false, "푸시 서비스가 메시지를 검증만 하고 전달하지 않습니다")
	if err := fset.Parse(args); err != nil {
		return errUsage
	}
	if fset.NArg() != 1 {
		return errUsage
	}

	data, err := os.ReadFile(fset.Arg(0))
	if err != nil {
		return apperrors.Wrapf(err, apperrors.System, "메시지 파일을 읽지 못했습니다: '%s'", fset.Arg(0))
	}

	client, err := a.Messaging()
	if err != nil {
		return err
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var messages []*messaging.Message
		if err := json.Unmarshal(data, &messages); err != nil {
			return apperrors.Wrap(err, apperrors.ParsingFailed, "메시지 배열을 해석하지 못했습니다")
		}

		batch, err := client.SendAll(ctx, messages, *dryRun)
		if err != nil {
			return err
		}
		for i, r := range batch.Responses {
			if r.Success {
				fmt.Fprintf(stdout, "[%d] %s\n", i, r.RequestID)
			} else {
				fmt.Fprintf(stdout, "[%d] 실패: %v\n", i, r.Error)
			}
		}
		fmt.Fprintf(stdout, "성공 %d, 실패 %d\n", batch.SuccessCount, batch.FailureCount)
		if batch.FailureCount > 0 {
			return apperrors.Newf(apperrors.ServiceFailed, "%d개 메시지 전송에 실패했습니다", batch.FailureCount)
		}
		return nil
	}

	var message messaging.Message
	if err := json.Unmarshal(data, &message); err != nil {
		return apperrors.Wrap(err, apperrors.ParsingFailed, "메시지를 해석하지 못했습니다")
	}

	requestID, err := client.Send(ctx, &message, *dryRun)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, requestID)
	return nil
}

func topicCommand(subscribe bool) commandFunc {
	return func(ctx context.Context, a *app.App, args []string, stdout, _ io.Writer) error {
		if len(args) < 2 {
			return errUsage
		}

		client, err := a.Messaging()
		if err != nil {
			return err
		}

		topic, tokens := args[0], args[1:]

		var resp *messaging.TopicManagementResponse
		if subscribe {
			resp, err = client.SubscribeToTopic(ctx, tokens, topic)
		} else {
			resp, err = client.UnsubscribeFromTopic(ctx, tokens, topic)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(stdout, "code=%s 성공 %d, 실패 %d (requestId=%s)\n", resp.Code, resp.SuccessCount, resp.FailureCount, resp.RequestID)
		for _, e := range resp.Errors {
			b, _ := json.Marshal(e)
			fmt.Fprintf(stdout, "  %s\n", b)
		}
		return nil
	}
}

func topicsCommand(ctx context.Context, a *app.App, args []string, stdout, _ io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}

	client, err := a.Messaging()
	if err != nil {
		return err
	}

	resp, err := client.GetTopicList(ctx, args[0])
	if err != nil {
		return err
	}

	if len(resp.Topics) == 0 {
		fmt.Fprintln(stdout, "구독 중인 토픽이 없습니다")
		return nil
	}
	for _, t := range resp.Topics {
		fmt.Fprintf(stdout, "%s\t%s\n", t.Name, strings.TrimSpace(t.AddDate))
	}
	return nil
}
