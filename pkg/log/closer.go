package log

import (
	"errors"
	"io"
	"sync"
)

// closer Setup이 만든 로그 파일들의 리소스 해제를 통합 관리합니다.
// Hook을 먼저 비활성화한 뒤 파일을 닫으며, 여러 번 호출해도 안전합니다.
type closer struct {
	closers []io.Closer
	hook    *hook

	once sync.Once
	err  error
}

func (c *closer) Close() error {
	c.once.Do(func() {
		if c.hook != nil {
			_ = c.hook.Close()
		}

		var errs []error
		for _, cl := range c.closers {
			if cl == nil {
				continue
			}
			if s, ok := cl.(interface{ Sync() error }); ok {
				_ = s.Sync()
			}
			if err := cl.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		c.err = errors.Join(errs...)
	})

	return c.err
}
