// Package observability carries session-side telemetry helpers.
package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Heartbeat periodically logs the client's own process stats while a
// session is up. Purely local: nothing is reported anywhere.
type Heartbeat struct {
	log      *slog.Logger
	interval time.Duration
}

func NewHeartbeat(log *slog.Logger, interval time.Duration) *Heartbeat {
	return &Heartbeat{log: log, interval: interval}
}

func (h *Heartbeat) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			mem, err := proc.MemoryInfo()
			if err != nil {
				h.log.Error("Failed to collect self stats", "error", err)
				continue
			}
			cpu, err := proc.CPUPercent()
			if err != nil {
				h.log.Error("Failed to collect self stats", "error", err)
				continue
			}
			h.log.Debug("Session heartbeat",
				"rss_mb", mem.RSS/1024/1024,
				"cpu_percent", cpu,
			)
		}
	}
}
