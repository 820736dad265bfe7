package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"ticketbooking/internal/domain/models"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	cardCVVPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidateCard checks card data in form order and returns the first
// problem, or "" when the card is acceptable.
func ValidateCard(p models.CardPayment, now time.Time) string {
	if !cardNumberPattern.MatchString(strings.ReplaceAll(p.CardNumber, " ", "")) {
		return "Please enter a valid 16-digit card number"
	}
	if strings.TrimSpace(p.CardName) == "" {
		return "Please enter the cardholder name"
	}
	if !validExpiry(p.ExpiryDate, now) {
		return "Please enter a valid expiry date (MM/YY)"
	}
	if !cardCVVPattern.MatchString(p.CVV) {
		return "Please enter a valid CVV"
	}
	return ""
}

// validExpiry accepts MM/YY in the current month or later.
func validExpiry(s string, now time.Time) bool {
	m := cardExpiryPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	curYear := now.Year() % 100
	curMonth := int(now.Month())
	if year < curYear || (year == curYear && month < curMonth) {
		return false
	}
	return true
}
