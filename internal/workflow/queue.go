package workflow

import (
	"slices"

	"github.com/zombor/invoice-capture/internal/invoice"
)

// Queue holds the documents of the current session and the cursor of the
// one being reviewed. The cursor is -1 exactly when the queue is empty.
type Queue struct {
	docs     []*invoice.Document
	cursor   int
	onChange func(index int)
}

// NewQueue returns an empty queue
func NewQueue() *Queue {
	return &Queue{cursor: -1}
}

// OnChange registers the listener fired after a successful SetCurrent
func (q *Queue) OnChange(fn func(index int)) {
	q.onChange = fn
}

// Append adds doc at the end. The first document becomes current.
func (q *Queue) Append(doc *invoice.Document) {
	q.docs = append(q.docs, doc)
	if q.cursor < 0 {
		q.cursor = 0
	}
}

// RemoveAt deletes the document at i. The cursor stays on the same
// document when another one is removed, and is clamped otherwise.
func (q *Queue) RemoveAt(i int) bool {
	if i < 0 || i >= len(q.docs) {
		return false
	}
	q.docs = slices.Delete(q.docs, i, i+1)
	switch {
	case len(q.docs) == 0:
		q.cursor = -1
	case i < q.cursor:
		q.cursor--
	case q.cursor >= len(q.docs):
		q.cursor = len(q.docs) - 1
	}
	return true
}

// SetCurrent moves the cursor; out of range is a no-op
func (q *Queue) SetCurrent(i int) bool {
	if i < 0 || i >= len(q.docs) {
		return false
	}
	q.cursor = i
	if q.onChange != nil {
		q.onChange(i)
	}
	return true
}

// Current returns the document under the cursor
func (q *Queue) Current() (*invoice.Document, bool) {
	if q.cursor < 0 {
		return nil, false
	}
	return q.docs[q.cursor], true
}

func (q *Queue) Index() int {
	return q.cursor
}

func (q *Queue) Len() int {
	return len(q.docs)
}

// Documents returns a snapshot of the queue order
func (q *Queue) Documents() []*invoice.Document {
	out := make([]*invoice.Document, len(q.docs))
	copy(out, q.docs)
	return out
}

// At returns the document at i
func (q *Queue) At(i int) (*invoice.Document, bool) {
	if i < 0 || i >= len(q.docs) {
		return nil, false
	}
	return q.docs[i], true
}

// Reset empties the queue
func (q *Queue) Reset() {
	q.docs = nil
	q.cursor = -1
}
