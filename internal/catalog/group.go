package catalog

import "strings"

const OtherSupplier = "Others"

// GroupBySupplier keeps the first-seen order of suppliers and of products within each supplier.
func GroupBySupplier(products []Product) []SupplierGroup {
	idx := map[string]int{}
	var out []SupplierGroup
	for _, p := range products {
		name := strings.TrimSpace(p.Supplier)
		if name == "" {
			name = OtherSupplier
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, SupplierGroup{Supplier: name})
		}
		out[i].Products = append(out[i].Products, p)
	}
	return out
}
