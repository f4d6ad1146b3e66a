package debug

// Runtime loggers started only when config.Debug is true. They help tell Go
// heap growth apart from native (Tk photo) growth while previews and results
// are swapped in and out.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// Start launches the goroutine and memory loggers until ctx ends.
func Start(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		return
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go run(ctx, interval, func() { logRuntime(logger) })
	go run(ctx, interval, newMemLogger(logger))
}

func run(ctx context.Context, interval time.Duration, fn func()) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn()
		}
	}
}

// logRuntime logs goroutine count and stack usage.
func logRuntime(logger *slog.Logger) {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var goroutines uint64
	if samples[0].Value.Kind() == metrics.KindUint64 {
		goroutines = samples[0].Value.Uint64()
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	logger.Info("goroutine-stacks",
		slog.Uint64("goroutines", goroutines),
		slog.Uint64("stack_inuse", ms.StackInuse),
		slog.Uint64("stack_sys", ms.StackSys),
		slog.Uint64("heap_alloc", ms.HeapAlloc),
	)
}

// newMemLogger returns a tick function logging heap stats with the process
// resident set size where the platform reports it.
func newMemLogger(logger *slog.Logger) func() {
	var rssErrLogged bool
	return func() {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		rss, err := residentSetSize()
		if err != nil && !rssErrLogged {
			logger.Warn("memlog: resident set size unavailable", slog.String("err", err.Error()))
			rssErrLogged = true
		}
		logger.Info("memstats",
			slog.Int("goroutines", runtime.NumGoroutine()),
			slog.Uint64("heap_alloc", ms.HeapAlloc),
			slog.Uint64("heap_inuse", ms.HeapInuse),
			slog.Uint64("heap_idle", ms.HeapIdle),
			slog.Uint64("heap_sys", ms.HeapSys),
			slog.Uint64("next_gc", ms.NextGC),
			slog.Uint64("rss", rss),
			slog.Uint64("num_gc", uint64(ms.NumGC)),
		)
	}
}
