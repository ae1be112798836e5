package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/okian/homespark/pkg/logger"
)

// ErrNotReady is returned when the server reports no loaded model.
var ErrNotReady = errors.New("server has no model loaded")

const progressWidth = 40

type job struct {
	idx int
	req Request
}

// Run probes the server at cfg.BaseURL and returns a report. Transport
// errors on individual requests count as failures; only an unreachable or
// unready server aborts the run.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	cfg = cfg.withDefaults()
	log := logger.GetOrNop().Named("probe")
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers))

	health, err := client.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}
	if !health.ModelLoaded {
		return nil, ErrNotReady
	}

	info, err := client.ModelInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("model info: %w", err)
	}
	reqs := Generate(cfg.Requests, info.Vocabularies, cfg.Seed)

	report := &Report{StartTime: time.Now()}
	bar := newProgressBar(cfg.Progress, len(reqs))

	var (
		succeeded, failed, fallbacks, warnings int64
		mu                                     sync.Mutex
		wg                                     sync.WaitGroup
	)
	jobs := make(chan job, cfg.Workers*2)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				resp, err := client.Recommend(ctx, j.req)
				_ = bar.Add(1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					log.Debug(ctx, "request failed", logger.Int("request", j.idx), logger.Error(err))
					continue
				}
				atomic.AddInt64(&succeeded, 1)
				if resp.Fallback {
					atomic.AddInt64(&fallbacks, 1)
				}
				atomic.AddInt64(&warnings, int64(len(resp.Warnings)))
				if v := Verify(j.idx, j.req, resp); len(v) > 0 {
					mu.Lock()
					report.Violations = append(report.Violations, v...)
					mu.Unlock()
				}
			}
		}()
	}

feed:
	for i, r := range reqs {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{idx: i, req: r}:
		}
	}
	close(jobs)
	wg.Wait()
	_ = bar.Finish()

	report.Sent = int(succeeded + failed)
	report.Succeeded = int(succeeded)
	report.Failed = int(failed)
	report.Fallbacks = int(fallbacks)
	report.Warnings = int(warnings)
	report.Duration = time.Since(report.StartTime)

	log.Info(ctx, "probe finished",
		logger.Int("succeeded", report.Succeeded),
		logger.Int("failed", report.Failed),
		logger.Int("fallbacks", report.Fallbacks),
		logger.Int("violations", len(report.Violations)),
		logger.Float64("rps", report.RequestsPerSecond()))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("probing"),
		progressbar.OptionSetWidth(progressWidth),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
}
