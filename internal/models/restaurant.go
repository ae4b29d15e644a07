package models

// Restaurant represents the restaurant whose menu this storefront serves.
// Schema matches the backend catalog API.
type Restaurant struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	IsOpen      bool    `json:"isOpen"`
}

// StringOr returns the pointed-to value or a fallback for display.
func StringOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
