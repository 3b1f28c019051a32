package transport

import (
	"io"
	"sync"
)

// maxDrainBytes 커넥션 재사용을 위해 Body를 비울 때 읽을 최대 바이트 수 (64KB)
const maxDrainBytes = 64 * 1024

var drainBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 32*1024)
		return &b
	},
}

// drainAndCloseBody Keep-Alive 커넥션이 풀로 반환되도록 Body를 일정량 비운 뒤 닫습니다.
// maxDrainBytes를 넘는 Body를 가진 커넥션은 재사용되지 않습니다.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	defer body.Close()

	bufPtr := drainBufPool.Get().(*[]byte)
	defer drainBufPool.Put(bufPtr)

	_, _ = io.CopyBuffer(io.Discard, io.LimitReader(body, maxDrainBytes), *bufPtr)
}
