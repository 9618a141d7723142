// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only value types and their encodings.
package types

import (
	"fmt"
	"strings"
)

// Category is the vehicle class a price applies to
type Category int

const (
	// CategoryCar covers private cars, taxis and electric vehicles
	CategoryCar Category = iota

	// CategoryMotorcycle covers motorcycles
	CategoryMotorcycle
)

// AllCategories returns every category in declaration order
func AllCategories() []Category {
	return []Category{CategoryCar, CategoryMotorcycle}
}

// String returns the friendly name used in matrices and reports
func (c Category) String() string {
	switch c {
	case CategoryCar:
		return "Car"
	case CategoryMotorcycle:
		return "Motorcycle"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Dir returns the subdirectory name holding this category's price files
func (c Category) Dir() string {
	return strings.ToLower(c.String())
}

// Vehicles returns the vehicle types allowed to use a matrix of this category
func (c Category) Vehicles() []string {
	switch c {
	case CategoryCar:
		return []string{"PRIVATE", "TAXI", "EV"}
	case CategoryMotorcycle:
		return []string{"MOTORCYCLE"}
	default:
		return nil
	}
}

// IsValid checks if the category is a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryCar, CategoryMotorcycle:
		return true
	default:
		return false
	}
}

// ParseCategory accepts a friendly name or directory name, case-insensitively
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories() {
		if strings.EqualFold(strings.TrimSpace(s), c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// MarshalText encodes the category by its friendly name
func (c Category) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a friendly or directory name
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
