package payroll_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/warp/payroll-engine/payroll"
)

func identity(s string) string { return s }

func TestRunBatch_EmptyInput_RejectedUpfront(t *testing.T) {
	// GIVEN: No items
	// WHEN: Running the batch
	// THEN: ErrEmptyBatch, nothing attempted

	attempted := 0
	_, err := payroll.RunBatch(nil, 10, identity, func(string) (int, error) {
		attempted++
		return 0, nil
	})
	if !errors.Is(err, payroll.ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
	if attempted != 0 {
		t.Errorf("expected no items attempted, got %d", attempted)
	}
}

func TestRunBatch_Oversize_RejectedUpfront(t *testing.T) {
	// GIVEN: More items than the limit
	// WHEN: Running the batch
	// THEN: ErrBatchTooLarge with the size and limit, nothing attempted

	items := make([]string, 4)
	attempted := 0
	_, err := payroll.RunBatch(items, 3, identity, func(string) (int, error) {
		attempted++
		return 0, nil
	})
	if !errors.Is(err, payroll.ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}

	var sizeErr *payroll.BatchSizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("expected *BatchSizeError, got %T", err)
	}
	if sizeErr.Size != 4 || sizeErr.Max != 3 {
		t.Errorf("expected size 4 max 3, got size %d max %d", sizeErr.Size, sizeErr.Max)
	}
	if attempted != 0 {
		t.Errorf("expected no items attempted, got %d", attempted)
	}
}

func TestRunBatch_MixedOutcomes_Itemized(t *testing.T) {
	// GIVEN: Five items where the even-indexed ones fail
	// WHEN: Running the batch
	// THEN: Every item is attempted exactly once; successes and failures
	//       carry the original indexes in attempted order

	items := []string{"a", "b", "c", "d", "e"}
	attempts := map[string]int{}

	result, err := payroll.RunBatch(items, 10, identity, func(s string) (string, error) {
		attempts[s]++
		if s == "a" || s == "c" || s == "e" {
			return "", fmt.Errorf("%s: %w", s, payroll.ErrNoActiveShift)
		}
		return s + "!", nil
	})
	if err != nil {
		t.Fatalf("unexpected batch-level error: %v", err)
	}

	if result.SuccessCount() != 2 || result.FailureCount() != 3 {
		t.Fatalf("expected 2 successes, 3 failures; got %d/%d",
			result.SuccessCount(), result.FailureCount())
	}
	for _, s := range items {
		if attempts[s] != 1 {
			t.Errorf("item %s attempted %d times", s, attempts[s])
		}
	}

	// Attempted order preserved in each partition.
	if result.Successes[0].Index != 1 || result.Successes[1].Index != 3 {
		t.Errorf("success indexes out of order: %+v", result.Successes)
	}
	if result.Failures[0].Index != 0 || result.Failures[1].Index != 2 || result.Failures[2].Index != 4 {
		t.Errorf("failure indexes out of order: %+v", result.Failures)
	}
	if result.Failures[0].Code != "no_active_shift" {
		t.Errorf("expected stable error code, got %q", result.Failures[0].Code)
	}
	if result.Successes[0].Value != "b!" {
		t.Errorf("expected produced value carried, got %q", result.Successes[0].Value)
	}
}

func TestRunBatch_AllFail_StillSucceedsAtBatchLevel(t *testing.T) {
	// GIVEN: Items that all fail
	// WHEN: Running the batch
	// THEN: No batch-level error; the result reports FullyFailed

	result, err := payroll.RunBatch([]string{"x", "y"}, 10, identity,
		func(string) (int, error) { return 0, payroll.ErrPaymentNotFound })
	if err != nil {
		t.Fatalf("unexpected batch-level error: %v", err)
	}
	if !result.FullyFailed() || result.FullySuccessful() {
		t.Errorf("expected fully failed result, got %d/%d",
			result.SuccessCount(), result.FailureCount())
	}
}

func TestRunBatch_AtLimit_Accepted(t *testing.T) {
	// GIVEN: Exactly limit items
	// WHEN: Running the batch
	// THEN: Accepted; the limit is inclusive

	items := make([]string, 3)
	result, err := payroll.RunBatch(items, 3, identity,
		func(string) (int, error) { return 1, nil })
	if err != nil {
		t.Fatalf("unexpected error at the limit: %v", err)
	}
	if !result.FullySuccessful() {
		t.Errorf("expected full success, got %d failures", result.FailureCount())
	}
}
