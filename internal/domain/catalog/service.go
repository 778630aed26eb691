// internal/domain/catalog/service.go
package catalog

// HasChildCounters reports whether the product's own stock counter is derived.
// Any variant, or any active color, turns the product counter into a sum.
func HasChildCounters(colors []ColorVariant, variants []AttributeVariant) bool {
	if len(variants) > 0 {
		return true
	}
	for _, c := range colors {
		if c.Active {
			return true
		}
	}
	return false
}

// EffectiveStock computes the product stock: the sum of active color stock
// plus all variant stock when any exist, else the product's own counter.
func EffectiveStock(p Product, colors []ColorVariant, variants []AttributeVariant) int {
	if !HasChildCounters(colors, variants) {
		return p.Stock
	}
	total := 0
	for _, c := range colors {
		if c.Active {
			total += c.Stock
		}
	}
	for _, v := range variants {
		total += v.Stock
	}
	return total
}

// ActiveColorIDs returns the ids of active colors, in display order.
func ActiveColorIDs(colors []ColorVariant) []string {
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		if c.Active {
			out = append(out, c.ID)
		}
	}
	return out
}

// VariantIDs returns all variant ids, in display order.
func VariantIDs(variants []AttributeVariant) []string {
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		out = append(out, v.ID)
	}
	return out
}
