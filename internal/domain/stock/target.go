// internal/domain/stock/target.go
package stock

import (
	"fmt"
	"strings"
)

// TargetKind discriminates which counter a stock operation hits.
type TargetKind string

const (
	KindColor   TargetKind = "color"
	KindVariant TargetKind = "variant"
	KindItem    TargetKind = "item"
)

// Target identifies exactly one stock counter: a color's, a variant's, or the
// product's own. It replaces the original system's duck-typed "does this
// product have colors" branching with an explicit tagged value resolved once
// per line item.
type Target struct {
	Kind TargetKind
	ID   string
}

func ColorTarget(id string) Target   { return Target{Kind: KindColor, ID: strings.TrimSpace(id)} }
func VariantTarget(id string) Target { return Target{Kind: KindVariant, ID: strings.TrimSpace(id)} }
func ItemTarget(id string) Target    { return Target{Kind: KindItem, ID: strings.TrimSpace(id)} }

func (t Target) String() string { return fmt.Sprintf("%s:%s", t.Kind, t.ID) }

// Selection is a line item's requested (product, variant?, color?) combination.
type Selection struct {
	ProductID string
	VariantID string // optional
	ColorID   string // optional
}

// ResolveTarget applies the selection policy:
//
//  1. product has active colors -> a color is mandatory and is the target
//  2. else a specified variant is the target
//  3. else the product's own counter is the target
//
// A color or variant that the product does not define, or an omitted color on
// a product that defines colors, is ErrInvalidSelection.
func ResolveTarget(sel Selection, activeColorIDs, variantIDs []string) (Target, error) {
	productID := strings.TrimSpace(sel.ProductID)
	colorID := strings.TrimSpace(sel.ColorID)
	variantID := strings.TrimSpace(sel.VariantID)

	if productID == "" {
		return Target{}, fmt.Errorf("%w: missing productId", ErrInvalidSelection)
	}

	hasColors := len(activeColorIDs) > 0

	if hasColors {
		if colorID == "" {
			return Target{}, fmt.Errorf("%w: product %s defines colors, a color is required", ErrInvalidSelection, productID)
		}
		if !containsID(activeColorIDs, colorID) {
			return Target{}, fmt.Errorf("%w: color %s is not an active color of product %s", ErrInvalidSelection, colorID, productID)
		}
		return ColorTarget(colorID), nil
	}

	if colorID != "" {
		return Target{}, fmt.Errorf("%w: product %s defines no colors but color %s was given", ErrInvalidSelection, productID, colorID)
	}

	if variantID != "" {
		if !containsID(variantIDs, variantID) {
			return Target{}, fmt.Errorf("%w: variant %s does not belong to product %s", ErrInvalidSelection, variantID, productID)
		}
		return VariantTarget(variantID), nil
	}

	return ItemTarget(productID), nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if strings.TrimSpace(v) == id {
			return true
		}
	}
	return false
}
