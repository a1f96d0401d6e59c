package cli

import (
	"context"
	"testing"
)

func TestSpinner_StopIsNotCancellation(t *testing.T) {
	spin := newSpinner(context.Background(), "working...")
	spin.Start()
	spin.Stop()

	if spin.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop, want false")
	}
}

func TestSpinner_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	spin := newSpinner(ctx, "working...")
	spin.Start()

	cancel()
	spin.Stop()

	if !spin.Cancelled() {
		t.Error("Cancelled() = false after the parent context was cancelled, want true")
	}
}

func TestSpinner_StopTwiceIsSafe(t *testing.T) {
	spin := newSpinner(context.Background(), "working...")
	spin.Start()
	spin.Stop()
	spin.Stop()
}
