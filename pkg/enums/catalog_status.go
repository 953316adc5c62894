package enums

import "fmt"

// CatalogStatus gates visibility of memberships, programs and products.
type CatalogStatus string

const (
	CatalogStatusActive   CatalogStatus = "active"
	CatalogStatusDraft    CatalogStatus = "draft"
	CatalogStatusArchived CatalogStatus = "archived"
)

var validCatalogStatuses = []CatalogStatus{
	CatalogStatusActive,
	CatalogStatusDraft,
	CatalogStatusArchived,
}

// String implements fmt.Stringer.
func (c CatalogStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CatalogStatus.
func (c CatalogStatus) IsValid() bool {
	for _, candidate := range validCatalogStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCatalogStatus converts raw input into a CatalogStatus.
func ParseCatalogStatus(value string) (CatalogStatus, error) {
	for _, candidate := range validCatalogStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catalog status %q", value)
}
