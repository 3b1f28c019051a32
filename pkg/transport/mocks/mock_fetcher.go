// Package mocks transport 패키지를 사용하는 컴포넌트의 테스트를 위한 Mock 구현체를 제공합니다.
package mocks

import (
	"io"
	"net/http"
	"strings"

	"github.com/darkkaiser/hms-push/pkg/transport"
	"github.com/stretchr/testify/mock"
)

var _ transport.Fetcher = (*MockFetcher)(nil)

// MockFetcher transport.Fetcher 인터페이스의 testify 기반 Mock 구현체입니다.
//
//	m := mocks.NewMockFetcher()
//	m.On("Do", mock.Anything).Return(mocks.NewResponse(200, `{"code":"80000000"}`), nil)
type MockFetcher struct {
	mock.Mock
}

// NewMockFetcher 새로운 MockFetcher 인스턴스를 생성합니다.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{}
}

// Do Mock 호출을 기록하고 설정된 응답을 반환합니다.
func (m *MockFetcher) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)

	var resp *http.Response
	if r := args.Get(0); r != nil {
		resp = r.(*http.Response)
	}

	return resp, args.Error(1)
}

// NewResponse 지정된 상태 코드와 본문을 가진 테스트용 HTTP 응답을 생성합니다.
func NewResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode:    statusCode,
		Status:        http.StatusText(statusCode),
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}
