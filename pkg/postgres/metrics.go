package postgres

import (
	"context"
	"time"

	"github.com/jakechorley/trainer-directory/pkg/metrics"
)

func observeDB(ctx context.Context, operation string) func() {
	start := time.Now()
	return func() {
		metrics.ObserveDBLatency(ctx, operation, start)
	}
}
