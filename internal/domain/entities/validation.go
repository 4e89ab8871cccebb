package entities

import (
	"regexp"
	"time"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	contactPattern = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// ValidEmail reports whether address looks like an email address.
func ValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}

// ValidContactNumber reports whether number is 10 to 15 digits.
func ValidContactNumber(number string) bool {
	return contactPattern.MatchString(number)
}

// ValidHour reports whether hour is a strict HH:MM:SS clock value.
func ValidHour(hour string) bool {
	if len(hour) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, hour)
	return err == nil
}
