package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	command "github.com/goliatone/go-command"
)

const everyPrefix = "@every "

func everyExpression(d time.Duration) command.HandlerConfig {
	return command.HandlerConfig{Expression: everyPrefix + d.String()}
}

type scheduledJob struct {
	every time.Duration
	run   func() error
}

// scheduler is a cron registrar for "@every <duration>" expressions. Jobs
// run once when Run starts and then on every tick until the context ends.
type scheduler struct {
	jobs []scheduledJob
	errs io.Writer
}

// Register satisfies the go-command cron registrar signature.
func (s *scheduler) Register(cfg command.HandlerConfig, handler any) error {
	spec := strings.TrimSpace(cfg.Expression)
	if !strings.HasPrefix(spec, everyPrefix) {
		return fmt.Errorf("unsupported schedule %q: expected %q followed by a duration", spec, strings.TrimSpace(everyPrefix))
	}
	every, err := time.ParseDuration(strings.TrimSpace(strings.TrimPrefix(spec, everyPrefix)))
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if every <= 0 {
		return fmt.Errorf("invalid schedule %q: interval must be positive", spec)
	}
	run, ok := handler.(func() error)
	if !ok {
		return fmt.Errorf("unsupported scheduled handler %T", handler)
	}
	s.jobs = append(s.jobs, scheduledJob{every: every, run: run})
	return nil
}

// Run blocks until ctx is done. Failed runs are reported and retried on the
// next tick.
func (s *scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func(job scheduledJob) {
			defer wg.Done()
			s.loop(ctx, job)
		}(job)
	}
	wg.Wait()
}

func (s *scheduler) loop(ctx context.Context, job scheduledJob) {
	ticker := time.NewTicker(job.every)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		if err := job.run(); err != nil && s.errs != nil {
			fmt.Fprintln(s.errs, "scheduled run failed:", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
