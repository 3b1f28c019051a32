package messaging

// serviceResponse 모든 푸시 서비스 응답에 공통으로 포함되는 필드
type serviceResponse struct {
	Code      string `json:"code"`
	Msg       string `json:"msg"`
	RequestID string `json:"requestId"`
}

type sendRequest struct {
	Message      *Message `json:"message"`
	ValidateOnly bool     `json:"validate_only"`
}

type topicManagementRequest struct {
	Topic  string   `json:"topic"`
	Tokens []string `json:"tokenArray"`
}

type topicListRequest struct {
	Token string `json:"token"`
}

// TopicManagementResponse 토픽 구독/구독 해지 요청의 결과입니다.
//
// 일부 토큰만 실패한 경우에도 HTTP 200으로 응답되므로, 호출자는 FailureCount와 Errors를 확인해야 합니다.
type TopicManagementResponse struct {
	Code         string           `json:"code"`
	Msg          string           `json:"msg"`
	RequestID    string           `json:"requestId"`
	SuccessCount int              `json:"successCount"`
	FailureCount int              `json:"failureCount"`
	Errors       []map[string]any `json:"errors,omitempty"`
}

// TopicListResponse 토큰이 구독 중인 토픽 목록입니다.
type TopicListResponse struct {
	Code      string  `json:"code"`
	Msg       string  `json:"msg"`
	RequestID string  `json:"requestId"`
	Topics    []Topic `json:"topics"`
}

// Topic 구독 중인 토픽
type Topic struct {
	Name    string `json:"name"`
	AddDate string `json:"addDate"`
}

// SendResponse SendAll에서 개별 메시지의 전송 결과입니다.
type SendResponse struct {
	Success   bool
	RequestID string
	Error     error
}

// BatchResponse SendAll의 전체 결과입니다. Responses는 입력 메시지와 같은 순서입니다.
type BatchResponse struct {
	SuccessCount int
	FailureCount int
	Responses    []*SendResponse
}
