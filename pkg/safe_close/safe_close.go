// Package safe_close coordinates graceful shutdown of background goroutines.
// Package safe_close 协调后台协程的优雅退出
package safe_close

import (
	"sync"
)

// SafeClose fans a close signal out to attached goroutines and waits until
// every one of them reports done.
// SafeClose 将关闭信号广播给所有挂载的协程，并等待它们全部完成
type SafeClose struct {
	closeSignal chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup

	mu  sync.Mutex
	err error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach starts f in its own goroutine. f must call done exactly once when it
// has finished cleaning up, and should begin teardown when closeSignal fires.
// Attach 启动 f 协程，f 清理完成后必须调用 done
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	done := func() {
		once.Do(s.wg.Done)
	}
	go f(done, s.closeSignal)
}

// SendCloseSignal fires the close signal. The first non-nil err wins and is
// returned from WaitClosed. Safe to call multiple times.
// SendCloseSignal 发送关闭信号，可重复调用
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	if s.err == nil && err != nil {
		s.err = err
	}
	s.mu.Unlock()

	s.closeOnce.Do(func() {
		close(s.closeSignal)
	})
}

// CloseSignal exposes the signal channel for callers that select on it
// directly instead of attaching a goroutine.
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed blocks until every attached goroutine called done, then returns
// the error that triggered the shutdown, if any.
// WaitClosed 阻塞直到所有协程退出完成
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
