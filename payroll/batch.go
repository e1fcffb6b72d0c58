/*
batch.go - Generic itemized batch execution

PURPOSE:
  Applies an action independently to each item in a requested set, capturing
  per-item success or failure without aborting the batch. Backs group
  clock-in/out and bulk payment status updates.

GUARANTEES:
  - Every item is attempted exactly once
  - One item's failure never prevents other items from being attempted
  - Successes and failures preserve the attempted order of the input,
    for determinism in tests and audit logs
  - The batch fails fast (no items attempted) on empty input or when the
    input exceeds the size limit; that is batch-level validation, distinct
    from per-item validation

EXECUTION ORDER:
  Items run sequentially in input order. Cross-item ordering must be
  deterministic, and most per-item actions acquire a transactional lock
  that would serialize concurrent items anyway.

EXAMPLE:
  result, err := payroll.RunBatch(ids, payroll.MaxPaymentBatch,
      func(id payroll.PaymentID) string { return string(id) },
      func(id payroll.PaymentID) (*payroll.Payment, error) { ... })
  if err != nil {
      // batch-level rejection, nothing was attempted
  }
  // result.Successes / result.Failures, itemized

SEE ALSO:
  - errors.go: ErrorCode carried on each failure
  - clock/service.go, payments/service.go: the two use sites
*/
package payroll

// Batch size limits. Clock batches are bounded by what a manager reasonably
// selects on screen; payment batches by a single company's period run.
const (
	MaxClockBatch   = 100
	MaxPaymentBatch = 500
)

// =============================================================================
// BATCH RESULT - Explicit two-list partial-failure result
// =============================================================================

// BatchSuccess is one succeeded item with its produced value.
type BatchSuccess[R any] struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	Value R      `json:"value"`
}

// BatchFailure is one failed item with a stable error code for client
// branching.
type BatchFailure struct {
	Index   int    `json:"index"`
	Key     string `json:"key"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchResult partitions a batch into successes and failures, each in
// attempted order. The operation as a whole "succeeds" even when every item
// fails; callers distinguish outcomes by comparing counts.
type BatchResult[R any] struct {
	Successes []BatchSuccess[R] `json:"successes"`
	Failures  []BatchFailure    `json:"failures"`
}

func (r BatchResult[R]) SuccessCount() int { return len(r.Successes) }
func (r BatchResult[R]) FailureCount() int { return len(r.Failures) }

// FullySuccessful reports that every item succeeded.
func (r BatchResult[R]) FullySuccessful() bool { return len(r.Failures) == 0 }

// FullyFailed reports that no item succeeded.
func (r BatchResult[R]) FullyFailed() bool { return len(r.Successes) == 0 }

// =============================================================================
// BATCH RUNNER
// =============================================================================

// RunBatch applies fn to every item. Batch-level validation (empty input,
// size limit) rejects upfront with an error and no items attempted. After
// that, per-item errors are captured, never propagated.
func RunBatch[I any, R any](items []I, limit int, key func(I) string, fn func(I) (R, error)) (BatchResult[R], error) {
	var result BatchResult[R]

	if len(items) == 0 {
		return result, ErrEmptyBatch
	}
	if len(items) > limit {
		return result, &BatchSizeError{Size: len(items), Max: limit}
	}

	result.Successes = make([]BatchSuccess[R], 0, len(items))
	result.Failures = make([]BatchFailure, 0)

	for i, item := range items {
		value, err := fn(item)
		if err != nil {
			result.Failures = append(result.Failures, BatchFailure{
				Index:   i,
				Key:     key(item),
				Code:    ErrorCode(err),
				Message: err.Error(),
			})
			continue
		}
		result.Successes = append(result.Successes, BatchSuccess[R]{
			Index: i,
			Key:   key(item),
			Value: value,
		})
	}
	return result, nil
}
