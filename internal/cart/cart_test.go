package cart

import (
	"errors"
	"testing"
)

func TestDecode_Valid(t *testing.T) {
	c, err := Decode(`{"7": 2, "12":1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c["7"] != 2 || c["12"] != 1 || len(c) != 2 {
		t.Fatalf("unexpected cart: %v", c)
	}
	items := c.Items()
	if items[0].ProductID != 7 || items[1].ProductID != 12 {
		t.Fatalf("items not sorted by id: %v", items)
	}
}

func TestDecode_Empty(t *testing.T) {
	c, err := Decode(`{}`)
	if err != nil || len(c) != 0 {
		t.Fatalf("expected empty cart, got %v %v", c, err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	bad := []string{
		``,
		`null`,
		`[]`,
		`{"7":0}`,
		`{"7":-1}`,
		`{"7":1.5}`,
		`{"7":"2"}`,
		`{"abc":1}`,
		`{"07":1}`,
		`{"0":1}`,
		`{"7":1} {"8":1}`,
		`{"7":1`,
	}
	for _, s := range bad {
		if _, err := Decode(s); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%q): expected ErrMalformed, got %v", s, err)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	c := Cart{"7": 2, "3": 5}
	got, err := Decode(c.Encode())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got["7"] != 2 || got["3"] != 5 {
		t.Fatalf("round trip mismatch: %v", got)
	}
	if (Cart{}).Encode() != "{}" {
		t.Fatal("empty cart should encode as {}")
	}
}
