package workflow

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// progress animates the progress text with 0 to 3 trailing dots until
// stopped. The animation goroutine is always joined by stop.
type progress struct {
	cancel context.CancelFunc
	group  *errgroup.Group
}

func (w *Workflow) startProgress(ctx context.Context, label string) *progress {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	w.view.SetProgress(label)
	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		dots := 0
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				dots = (dots + 1) % 4
				w.view.SetProgress(label + strings.Repeat(".", dots))
			}
		}
	})

	return &progress{cancel: cancel, group: g}
}

func (p *progress) stop() {
	p.cancel()
	_ = p.group.Wait()
}
