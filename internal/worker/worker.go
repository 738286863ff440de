package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTaskTimeout 單一背景工作的執行上限
const DefaultTaskTimeout = 30 * time.Second

// Task 是交給背景 worker 執行的工作，例如刪除舊的 bootcamp 圖片
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pool defines a simple worker pool.
type Pool interface {
	Submit(Task)
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int, log *logrus.Logger) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task, n*8), log: log, timeout: DefaultTaskTimeout}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.run(job)
			}
		}()
	}
	return p
}

type pool struct {
	jobs    chan Task
	wg      sync.WaitGroup
	log     *logrus.Logger
	timeout time.Duration
}

func (p *pool) run(t Task) {
	if t.Run == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			p.log.WithField("task", t.Name).Errorf("task panic: %v", r)
		}
	}()
	if err := t.Run(ctx); err != nil {
		p.log.WithField("task", t.Name).WithError(err).Warn("task failed")
	}
}

// Submit 不會阻塞呼叫端；佇列已滿時記錄並丟棄工作
func (p *pool) Submit(t Task) {
	select {
	case p.jobs <- t:
	default:
		p.log.WithField("task", t.Name).Warn("worker queue full, task dropped")
	}
}

// Stop 等待佇列中的工作全部完成
func (p *pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
