package models

import (
	"fmt"
	"strings"
)

// Category classifies an expense for reporting.
type Category string

const (
	CategoryFood      Category = "Food"
	CategoryTransport Category = "Transport"
	CategoryHotel     Category = "Hotel"
	CategoryActivity  Category = "Activity"
	CategoryShopping  Category = "Shopping"
	CategoryOther     Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryHotel,
	CategoryActivity,
	CategoryShopping,
	CategoryOther,
}

var categoryColors = map[Category]string{
	CategoryFood:      "#F97316",
	CategoryTransport: "#3B82F6",
	CategoryHotel:     "#A855F7",
	CategoryActivity:  "#10B981",
	CategoryShopping:  "#EC4899",
	CategoryOther:     "#6B7280",
}

// ParseCategory matches s against the known categories, ignoring case.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryColors[c]
	return ok
}

// Color returns the chart colour for c. Unknown categories use Other's colour.
func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return categoryColors[CategoryOther]
}
