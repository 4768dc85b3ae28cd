package workflow

import "strings"

// Category identifies which lifecycle workflow template a case uses.
// Fixed at creation; it never changes afterwards.
type Category string

const (
	CategoryOnboarding   Category = "onboarding"
	CategoryRoleChange   Category = "role_change"
	CategoryDisciplinary Category = "disciplinary"
	CategoryOffboarding  Category = "offboarding"
)

var validCategories = map[Category]bool{
	CategoryOnboarding:   true,
	CategoryRoleChange:   true,
	CategoryDisciplinary: true,
	CategoryOffboarding:  true,
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// IsValid returns true if the category is one of the defined constants.
func (c Category) IsValid() bool {
	return validCategories[c]
}

// NormalizeCategory maps free-text category input from the API boundary
// onto the closed enum. Matching is case-insensitive keyword search, the
// same keywords the legacy console matched on. Unrecognized input is
// rejected rather than silently defaulting to onboarding.
func NormalizeCategory(raw string) (Category, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", NewValidationError("category", "is required")
	}
	if validCategories[Category(s)] {
		return Category(s), nil
	}

	switch {
	case strings.Contains(s, "role") || strings.Contains(s, "promotion") || strings.Contains(s, "transfer"):
		return CategoryRoleChange, nil
	case strings.Contains(s, "disciplin"):
		return CategoryDisciplinary, nil
	case strings.Contains(s, "offboard") || strings.Contains(s, "resign") || strings.Contains(s, "terminat"):
		return CategoryOffboarding, nil
	case strings.Contains(s, "onboard") || strings.Contains(s, "hire") || strings.Contains(s, "new employee"):
		return CategoryOnboarding, nil
	}

	return "", NewValidationError("category", "unrecognized category "+strings.TrimSpace(raw))
}
