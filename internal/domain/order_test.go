package domain

import "testing"

func TestOrderStatus_Terminal(t *testing.T) {
	t.Parallel()

	if OrderStatusPending.Terminal() || OrderStatusSubmitted.Terminal() {
		t.Fatalf("open statuses must not be terminal")
	}
	if !OrderStatusCompleted.Terminal() || !OrderStatusCancelled.Terminal() {
		t.Fatalf("completed and cancelled must be terminal")
	}
}
