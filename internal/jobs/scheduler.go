// Package jobs runs the periodic batch work (popularity aggregation and
// project price snapshots) on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"
)

// Func is one unit of scheduled work.
type Func func(ctx context.Context) error

// Scheduler は cron で Job を起動する。同じ Job の実行は重ならない
type Scheduler struct {
	ctx     context.Context
	cron    *cron.Cron
	timeout time.Duration
	jobs    []*job
}

type job struct {
	name    string
	fn      Func
	timeout time.Duration
	running atomic.Bool
}

// NewScheduler は Scheduler を生成する。ctx が終了すると実行中の Job もキャンセルされる。
// timeout は 1 回の実行の上限（0 なら無制限）。
func NewScheduler(ctx context.Context, timeout time.Duration) *Scheduler {
	return &Scheduler{ctx: ctx, cron: cron.New(), timeout: timeout}
}

// Add は schedule（秒付き 6 フィールド、または "@daily" などの記述子）で Job を登録する
func (s *Scheduler) Add(name, schedule string, fn Func) error {
	if _, err := cron.Parse(schedule); err != nil {
		return fmt.Errorf("job %s: invalid schedule %q: %w", name, schedule, err)
	}
	j := &job{name: name, fn: fn, timeout: s.timeout}
	if err := s.cron.AddFunc(schedule, func() { j.run(s.ctx) }); err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}
	s.jobs = append(s.jobs, j)
	slog.Info("job scheduled", "job", name, "schedule", schedule)
	return nil
}

// RunNow は name の Job を即時に同期実行する。未登録なら false
func (s *Scheduler) RunNow(name string) bool {
	for _, j := range s.jobs {
		if j.name == name {
			j.run(s.ctx)
			return true
		}
	}
	return false
}

func (s *Scheduler) Start() { s.cron.Start() }

func (s *Scheduler) Stop() { s.cron.Stop() }

func (j *job) run(parent context.Context) {
	if !j.running.CompareAndSwap(false, true) {
		slog.Warn("job skipped: previous run still in progress", "job", j.name)
		return
	}
	defer j.running.Store(false)

	ctx := parent
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, j.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("job panicked", "job", j.name, "panic", fmt.Sprint(r))
		}
	}()
	if err := j.fn(ctx); err != nil {
		slog.Error("job failed", "job", j.name, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	slog.Info("job completed", "job", j.name, "duration_ms", time.Since(start).Milliseconds())
}
