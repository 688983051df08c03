package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Cart maps a product id (decimal string) to a positive quantity.
// The JSON object form, e.g. {"7":2}, is also the wire format carried in checkout metadata.
type Cart map[string]int

var ErrMalformed = errors.New("malformed cart")

func Key(productID int64) string { return strconv.FormatInt(productID, 10) }

func (c Cart) Encode() string {
	if len(c) == 0 {
		return "{}"
	}
	b, err := json.Marshal(map[string]int(c))
	if err != nil {
		// map[string]int selalu bisa di-marshal
		panic(err)
	}
	return string(b)
}

// Decode parses the wire format strictly: every key must be a canonical positive
// integer and every value a positive integer literal.
func Decode(s string) (Cart, error) {
	raw := map[string]json.RawMessage{}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null cart", ErrMalformed)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	out := make(Cart, len(raw))
	for k, v := range raw {
		id, err := ParseProductID(k)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q", ErrMalformed, k)
		}
		qty, err := strconv.Atoi(string(bytes.TrimSpace(v)))
		if err != nil || qty < 1 {
			return nil, fmt.Errorf("%w: quantity %s for product %d", ErrMalformed, v, id)
		}
		out[k] = qty
	}
	return out, nil
}

// ParseProductID accepts only the canonical decimal form of a positive id.
func ParseProductID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 || strconv.FormatInt(id, 10) != s {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return id, nil
}

// Items returns the (product id, quantity) pairs in ascending product id order.
// Keys that do not parse are skipped.
func (c Cart) Items() []Item {
	out := make([]Item, 0, len(c))
	for k, q := range c {
		id, err := ParseProductID(k)
		if err != nil {
			continue
		}
		out = append(out, Item{ProductID: id, Qty: q})
	}
	sortItems(out)
	return out
}

type Item struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}
