package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/invoice-capture/internal/bridge"
	"github.com/zombor/invoice-capture/internal/extraction"
)

const defaultProgressInterval = 500 * time.Millisecond

// Extractor turns one file into a tagged extraction result
type Extractor interface {
	Extract(ctx context.Context, f extraction.File) extraction.Result
}

// IDGenerator generates document IDs
type IDGenerator interface {
	Generate() string
}

// uuidGenerator generates time-ordered UUIDv7 ids
type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Workflow owns the document queue and drives the capture, review and
// submit steps. Its methods must be called from a single goroutine.
type Workflow struct {
	extractor Extractor
	view      View
	grid      Grid
	bridge    *bridge.Bridge
	queue     *Queue
	ids       IDGenerator
	interval  time.Duration
}

// New creates a Workflow with UUIDv7 document ids and the default progress
// animation interval
func New(extractor Extractor, view View, grid Grid, b *bridge.Bridge) *Workflow {
	return NewWithDeps(extractor, view, grid, b, &uuidGenerator{}, defaultProgressInterval)
}

// NewWithDeps creates a Workflow with custom dependencies for testing
func NewWithDeps(extractor Extractor, view View, grid Grid, b *bridge.Bridge, ids IDGenerator, interval time.Duration) *Workflow {
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	w := &Workflow{
		extractor: extractor,
		view:      view,
		grid:      grid,
		bridge:    b,
		queue:     NewQueue(),
		ids:       ids,
		interval:  interval,
	}

	w.queue.OnChange(w.renderDocument)
	w.grid.OnRowEdited(w.SaveCurrentDocument)
	w.bridge.OnMainButtonClick(func() {
		if err := w.SubmitCurrent(); err != nil {
			slog.Info("Submission blocked", "error", err)
		}
	})
	w.bridge.OnBackButtonClick(w.Back)

	return w
}

// Queue exposes the document queue for rendering and inspection
func (w *Workflow) Queue() *Queue {
	return w.queue
}
