package allocation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BatchError is the failure of one source within a batch.
type BatchError struct {
	SourceID string
	Err      error
}

func (e BatchError) Error() string {
	return fmt.Sprintf("linking source %s failed: %s", e.SourceID, e.Err)
}

func (e BatchError) Unwrap() error {
	return e.Err
}

// BatchResult accumulates the outcome of a batch link operation.
//
// A batch has three possible outcomes: all sources succeeded, all failed,
// or a mix. Callers are expected to surface partial failure instead of
// hiding it: the successes are committed and stay committed.
type BatchResult struct {
	Succeeded int
	Failed    []BatchError
}

func (r BatchResult) AllSucceeded() bool {
	return len(r.Failed) == 0
}

func (r BatchResult) AllFailed() bool {
	return r.Succeeded == 0 && len(r.Failed) > 0
}

// ErrorSummary lists every failed source and its reason. Empty when the
// batch fully succeeded.
func (r BatchResult) ErrorSummary() string {
	if len(r.Failed) == 0 {
		return ""
	}

	messages := make([]string, 0, len(r.Failed))
	for _, failure := range r.Failed {
		messages = append(messages, failure.Error())
	}

	return strings.Join(messages, "; ")
}

// ProgressFunc is called after every attempted source, successful or not.
type ProgressFunc func(current, total int)

// LinkBatch links every source to the target budget item, one at a time
// and strictly in input order.
//
// Sequential processing is deliberate: two sources linking to overlapping
// budget items would otherwise race on the replace-all write for the same
// scenario. Individual failures do not abort the batch.
//
// Cancelling the context stops the batch before the next source, already
// committed allocation sets are not rolled back.
func (e *Engine) LinkBatch(ctx context.Context, sources []Source, targetID, scenarioID uuid.UUID, progress ProgressFunc) (BatchResult, error) {
	var result BatchResult

	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		_, err := e.Link(ctx, source, targetID, scenarioID)
		if err != nil {
			result.Failed = append(result.Failed, BatchError{SourceID: source.ID, Err: err})
		} else {
			result.Succeeded++
		}

		if progress != nil {
			progress(i+1, len(sources))
		}
	}

	return result, nil
}
