package orders

import "testing"

func TestClampedDecrement(t *testing.T) {
	cases := []struct{ stock, qty, want int }{
		{10, 2, 8},
		{3, 3, 0},
		{3, 5, 0},
		{0, 1, 0},
		{4, 0, 4},
		{4, -2, 4},
	}
	for _, c := range cases {
		if got := ClampedDecrement(c.stock, c.qty); got != c.want {
			t.Fatalf("ClampedDecrement(%d, %d) = %d, want %d", c.stock, c.qty, got, c.want)
		}
		if got := ClampedDecrement(c.stock, c.qty); got < 0 {
			t.Fatalf("negative stock %d", got)
		}
	}
}

func TestMergeItems(t *testing.T) {
	got := MergeItems([]ItemQty{
		{ProductID: 9, Qty: 1},
		{ProductID: 2, Qty: 2},
		{ProductID: 9, Qty: 3},
		{ProductID: 5, Qty: 0},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %v", got)
	}
	if got[0] != (ItemQty{ProductID: 2, Qty: 2}) || got[1] != (ItemQty{ProductID: 9, Qty: 4}) {
		t.Fatalf("unexpected merge: %v", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	if !CanTransition(StatusPending, StatusPaid) {
		t.Fatal("pending -> paid must be allowed")
	}
	if CanTransition(StatusPaid, StatusPaid) {
		t.Fatal("paid -> paid must not count as a transition")
	}
	if CanTransition(StatusPaid, StatusPending) {
		t.Fatal("paid must never revert")
	}
	if (Order{Paid: true}).Status() != StatusPaid || (Order{}).Status() != StatusPending {
		t.Fatal("status mapping broken")
	}
}
