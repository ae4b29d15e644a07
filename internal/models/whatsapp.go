package models

import "strings"

// DigitsOnly strips everything but decimal digits from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppLink builds a wa.me deep link from a restaurant phone number.
// The number is normalized to digits and prefixed with the country code
// when absent. Returns "" when no phone is available.
func WhatsAppLink(phone *string, countryCode string) string {
	if phone == nil {
		return ""
	}
	digits := DigitsOnly(*phone)
	if digits == "" {
		return ""
	}
	if countryCode != "" && !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return "https://wa.me/" + digits
}
