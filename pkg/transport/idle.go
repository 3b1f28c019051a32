package transport

// idleConnectionsCloser 유휴 연결을 정리할 수 있는 Fetcher
type idleConnectionsCloser interface {
	CloseIdleConnections()
}

// CloseIdleConnections Fetcher 체인의 가장 안쪽 HTTP 클라이언트까지 전달되어 유휴 연결을 닫습니다.
// 진행 중인 요청에는 영향을 주지 않으며, 이후의 요청은 새 연결을 맺습니다.
// 연결 정리를 지원하지 않는 Fetcher이면 아무 일도 하지 않습니다.
func CloseIdleConnections(f Fetcher) {
	if c, ok := f.(idleConnectionsCloser); ok {
		c.CloseIdleConnections()
	}
}

// CloseIdleConnections 내부 http.Client의 유휴 연결을 닫습니다.
func (h *HTTPFetcher) CloseIdleConnections() {
	h.client.CloseIdleConnections()
}

// CloseIdleConnections delegate로 전달합니다.
func (f *MaxBytesFetcher) CloseIdleConnections() {
	CloseIdleConnections(f.delegate)
}

// CloseIdleConnections delegate로 전달합니다.
func (f *RateLimitFetcher) CloseIdleConnections() {
	CloseIdleConnections(f.delegate)
}

// CloseIdleConnections delegate로 전달합니다.
func (f *LoggingFetcher) CloseIdleConnections() {
	CloseIdleConnections(f.delegate)
}
