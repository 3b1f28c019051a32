package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	applog "github.com/darkkaiser/hms-push/pkg/log"
	"github.com/darkkaiser/hms-push/pkg/transport"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// component 메시징 클라이언트의 로깅용 컴포넌트 이름
const component = "messaging.client"

const (
	// maxTopicTokens 토픽 구독/구독 해지 요청 한 번에 담을 수 있는 최대 토큰 수
	maxTopicTokens = 1000

	// maxBatchSize SendAll 한 번에 보낼 수 있는 최대 메시지 수
	maxBatchSize = 500

	defaultBatchConcurrency = 16
)

// TokenSource 요청에 사용할 OAuth 2.0 액세스 토큰을 제공합니다.
// auth.TokenSource가 이 인터페이스를 구현합니다.
type TokenSource interface {
	Token(ctx context.Context) (string, error)

	// Invalidate 캐시된 토큰을 폐기합니다. 푸시 서비스가 토큰 만료를 알려온 경우 호출됩니다.
	Invalidate()
}

// Endpoints 메시징 클라이언트가 호출하는 푸시 서비스의 URL입니다.
type Endpoints struct {
	// Send 메시지 전송 URL (예: https://push-api.cloud.huawei.com/v1/{clientId}/messages:send)
	Send string

	// Topic 토픽 API의 공통 접두어 (예: https://push-api.cloud.huawei.com/v1/{clientId})
	Topic string
}

// Client 푸시 서비스에 메시지를 전송하고 토픽 구독을 관리합니다.
//
// Client는 여러 고루틴에서 동시에 사용해도 안전합니다. 공유되는 가변 상태는 TokenSource의 토큰 캐시뿐입니다.
type Client struct {
	fetcher   transport.Fetcher
	tokens    TokenSource
	endpoints Endpoints

	batchConcurrency int
}

// ClientOption Client 생성 시 적용할 옵션
type ClientOption func(*Client)

// WithBatchConcurrency SendAll이 동시에 진행하는 전송 요청 수의 상한을 설정합니다.
func WithBatchConcurrency(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.batchConcurrency = n
		}
	}
}

// NewClient 새로운 메시징 클라이언트를 생성합니다.
func NewClient(fetcher transport.Fetcher, tokens TokenSource, endpoints Endpoints, opts ...ClientOption) (*Client, error) {
	if fetcher == nil {
		return nil, apperrors.New(apperrors.InvalidArgument, "Fetcher는 nil일 수 없습니다")
	}
	if tokens == nil {
		return nil, apperrors.New(apperrors.InvalidArgument, "TokenSource는 nil일 수 없습니다")
	}
	if endpoints.Send == "" || endpoints.Topic == "" {
		return nil, apperrors.New(apperrors.InvalidArgument, "메시지 전송 URL과 토픽 URL은 필수입니다")
	}

	c := &Client{
		fetcher:          fetcher,
		tokens:           tokens,
		endpoints:        endpoints,
		batchConcurrency: defaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Send 메시지를 전송하고 푸시 서비스가 발급한 요청 ID를 반환합니다.
//
// 메시지는 전송 전에 CopyAndValidate로 검증되며, 호출자의 Message는 변경되지 않습니다.
// dryRun이 true이면 푸시 서비스는 메시지를 검증만 하고 실제로 전달하지 않습니다.
//
// 반환되는 에러의 종류:
//   - apperrors.InvalidArgument: 메시지 유효성 검사 실패
//   - apperrors.ServiceFailed: HTTP 200 이외의 응답 또는 성공 이외의 결과 코드 (*ServiceError 포함)
//   - apperrors.Transport: 네트워크 오류
//   - apperrors.Canceled / apperrors.Timeout: ctx 취소 또는 데드라인 초과
func (c *Client) Send(ctx context.Context, message *Message, dryRun bool) (string, error) {
	copied, err := message.CopyAndValidate()
	if err != nil {
		return "", err
	}

	ctx, correlationID := withCorrelationID(ctx)

	resp, err := c.post(ctx, c.endpoints.Send, sendRequest{Message: copied, ValidateOnly: dryRun})
	if err != nil {
		return "", err
	}

	var result serviceResponse
	if err := c.decode(resp, &result); err != nil {
		return "", err
	}
	if result.Code != SuccessCode {
		return "", c.serviceFailure(resp.StatusCode, result)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"correlation_id": correlationID,
		"request_id":     result.RequestID,
		"dry_run":        dryRun,
		"target":         describeTarget(copied),
	}).Debug("메시지 전송 완료")

	return result.RequestID, nil
}

// SendAll 여러 메시지를 동시에 전송합니다. 한 번에 최대 500개까지 보낼 수 있습니다.
//
// 모든 메시지를 먼저 검증하며, 하나라도 유효하지 않으면 아무것도 전송하지 않고 에러를 반환합니다.
// 개별 전송의 실패는 에러가 아니라 BatchResponse의 해당 항목에 기록됩니다.
func (c *Client) SendAll(ctx context.Context, messages []*Message, dryRun bool) (*BatchResponse, error) {
	if len(messages) == 0 {
		return nil, apperrors.New(apperrors.InvalidArgument, "messages: 전송할 메시지가 없습니다")
	}
	if len(messages) > maxBatchSize {
		return nil, apperrors.Newf(apperrors.InvalidArgument, "messages: 한 번에 최대 %d개까지 전송할 수 있습니다 (요청: %d개)", maxBatchSize, len(messages))
	}

	for i, m := range messages {
		if _, err := m.CopyAndValidate(); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.InvalidArgument, "messages[%d]: 유효하지 않은 메시지입니다", i)
		}
	}

	responses := make([]*SendResponse, len(messages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchConcurrency)
	for i, m := range messages {
		g.Go(func() error {
			requestID, err := c.Send(gctx, m, dryRun)
			responses[i] = &SendResponse{Success: err == nil, RequestID: requestID, Error: err}
			return nil
		})
	}
	_ = g.Wait()

	batch := &BatchResponse{Responses: responses}
	for _, r := range responses {
		if r.Success {
			batch.SuccessCount++
		} else {
			batch.FailureCount++
		}
	}

	return batch, nil
}

// SubscribeToTopic 토큰들을 토픽에 구독시킵니다.
func (c *Client) SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*TopicManagementResponse, error) {
	return c.manageTopic(ctx, tokens, topic, "subscribe")
}

// UnsubscribeFromTopic 토큰들의 토픽 구독을 해지합니다.
func (c *Client) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (*TopicManagementResponse, error) {
	return c.manageTopic(ctx, tokens, topic, "unsubscribe")
}

func (c *Client) manageTopic(ctx context.Context, tokens []string, topic, op string) (*TopicManagementResponse, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, apperrors.New(apperrors.InvalidArgument, "topic: 토픽은 비어 있을 수 없습니다")
	}
	if len(tokens) == 0 {
		return nil, apperrors.New(apperrors.InvalidArgument, "token_array: 토큰 목록은 비어 있을 수 없습니다")
	}
	if len(tokens) > maxTopicTokens {
		return nil, apperrors.Newf(apperrors.InvalidArgument, "token_array: 한 번에 최대 %d개의 토큰만 지정할 수 있습니다 (요청: %d개)", maxTopicTokens, len(tokens))
	}

	ctx, correlationID := withCorrelationID(ctx)

	body := topicManagementRequest{Topic: topic, Tokens: append([]string(nil), tokens...)}
	resp, err := c.post(ctx, c.endpoints.Topic+"/topic:"+op, body)
	if err != nil {
		return nil, err
	}

	var result TopicManagementResponse
	if err := c.decode(resp, &result); err != nil {
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"correlation_id": correlationID,
		"operation":      op,
		"topic":          topic,
		"tokens":         applog.MaskTokens(tokens, 3),
		"code":           result.Code,
		"success_count":  result.SuccessCount,
		"failure_count":  result.FailureCount,
	}).Debug("토픽 구독 변경 완료")

	return &result, nil
}

// GetTopicList 토큰이 구독 중인 토픽 목록을 조회합니다.
func (c *Client) GetTopicList(ctx context.Context, token string) (*TopicListResponse, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.New(apperrors.InvalidArgument, "token: 토큰은 비어 있을 수 없습니다")
	}

	ctx, correlationID := withCorrelationID(ctx)

	resp, err := c.post(ctx, c.endpoints.Topic+"/topic:list", topicListRequest{Token: token})
	if err != nil {
		return nil, err
	}

	var result TopicListResponse
	if err := c.decode(resp, &result); err != nil {
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"correlation_id": correlationID,
		"token":          applog.MaskSensitiveData(token),
		"topics":         len(result.Topics),
	}).Debug("토픽 목록 조회 완료")

	return &result, nil
}

// post 액세스 토큰을 발급받아 Bearer 인증 헤더와 함께 JSON 요청을 보냅니다.
func (c *Client) post(ctx context.Context, url string, payload any) (*transport.Response, error) {
	// 이미 취소된 요청은 토큰 발급이나 네트워크 I/O 없이 즉시 실패합니다.
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}

	accessToken, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+accessToken)

	return transport.PostJSON(ctx, c.fetcher, url, header, payload)
}

// decode 응답 상태를 확인하고 본문을 out으로 해석합니다.
// 200 이외의 응답에 결과 코드가 담겨 있으면 *ServiceError로 변환합니다.
func (c *Client) decode(resp *transport.Response, out any) error {
	if resp.StatusCode != http.StatusOK {
		var result serviceResponse
		if err := json.Unmarshal(resp.Body, &result); err == nil && result.Code != "" {
			return c.serviceFailure(resp.StatusCode, result)
		}
		return transport.CheckResponseStatus(resp)
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return apperrors.Wrapf(err, apperrors.ParsingFailed, "푸시 서비스 응답을 해석하지 못했습니다 (URL: %s)", resp.URL)
	}
	return nil
}

func (c *Client) serviceFailure(status int, result serviceResponse) error {
	serviceErr := &ServiceError{
		HTTPStatus: status,
		Code:       result.Code,
		Message:    result.Msg,
		RequestID:  result.RequestID,
	}

	if serviceErr.IsAccessTokenExpired() {
		c.tokens.Invalidate()
	}

	return apperrors.Wrap(serviceErr, apperrors.ServiceFailed, "푸시 서비스가 요청을 처리하지 못했습니다")
}

// withCorrelationID 호출 단위의 상관관계 ID를 context에 담습니다. 이미 있으면 그대로 사용합니다.
func withCorrelationID(ctx context.Context) (context.Context, string) {
	if id := transport.CorrelationID(ctx); id != "" {
		return ctx, id
	}

	id := uuid.NewString()
	return transport.WithCorrelationID(ctx, id), id
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.Timeout, "요청 데드라인이 초과되었습니다")
	}
	return apperrors.Wrap(err, apperrors.Canceled, "요청이 취소되었습니다")
}

func describeTarget(m *Message) string {
	switch {
	case m.Topic != "":
		return "topic:" + m.Topic
	case m.Condition != "":
		return "condition:" + m.Condition
	default:
		return "tokens:" + strconv.Itoa(len(m.Token))
	}
}
