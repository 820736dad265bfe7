package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ticketbooking/internal/domain/models"
	"ticketbooking/internal/utils"
)

const (
	minPassengerAge = 0
	maxPassengerAge = 120
	// Children at or below this age travel without an identity document.
	idExemptMaxAge = 5
)

var documentPatterns = map[models.IDType]*regexp.Regexp{
	models.IDTypeAadhar:         regexp.MustCompile(`^\d{12}$`),
	models.IDTypePassport:       regexp.MustCompile(`^[A-Z]{1,2}\d{7}$`),
	models.IDTypeDrivingLicense: regexp.MustCompile(`^[A-Z]{2}\d{13}$`),
}

// DocumentName is the display name used in violation messages.
func DocumentName(t models.IDType) string {
	switch t {
	case models.IDTypeAadhar:
		return "Aadhar"
	case models.IDTypePassport:
		return "Passport"
	case models.IDTypeDrivingLicense:
		return "Driving License"
	default:
		return "ID"
	}
}

// ValidDocumentNumber checks number against the pattern for t. Unknown
// document types never match.
func ValidDocumentNumber(t models.IDType, number string) bool {
	re, ok := documentPatterns[t]
	if !ok {
		return false
	}
	return re.MatchString(number)
}

// ParseAge returns the age when it is an integer in [0, 120].
func ParseAge(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < minPassengerAge || n > maxPassengerAge {
		return 0, false
	}
	return n, true
}

// requiresDocument: adults always, children when their age is an integer
// above five. The age range is checked separately, so a child aged 130 is
// reported for both.
func requiresDocument(p models.PassengerInput) bool {
	if p.IsAdult {
		return true
	}
	age, err := strconv.Atoi(strings.TrimSpace(p.Age.String()))
	return err == nil && age > idExemptMaxAge
}

// ValidatePassenger runs every per-passenger rule for the passenger at
// zero-based index and returns all failures in rule order.
func ValidatePassenger(index int, p models.PassengerInput) []string {
	n := index + 1
	out := []string{}

	if strings.TrimSpace(p.Name) == "" {
		out = append(out, fmt.Sprintf("Passenger %d name is required", n))
	}
	if _, ok := ParseAge(p.Age.String()); !ok {
		out = append(out, fmt.Sprintf("Passenger %d age is invalid", n))
	}
	if requiresDocument(p) && !ValidDocumentNumber(p.IDType, p.IDNumber) {
		out = append(out, fmt.Sprintf("Passenger %d %s number is invalid", n, DocumentName(p.IDType)))
	}
	return out
}

// ValidateManifest aggregates passenger violations in index order.
func ValidateManifest(manifest []models.PassengerInput) []string {
	out := []string{}
	for i, p := range manifest {
		out = append(out, ValidatePassenger(i, p)...)
	}
	return out
}

// ClearExemptIDs returns a copy of manifest where ID numbers of children
// aged five or under are blanked.
func ClearExemptIDs(manifest []models.PassengerInput) []models.PassengerInput {
	out := make([]models.PassengerInput, len(manifest))
	copy(out, manifest)
	for i := range out {
		if out[i].IsAdult {
			continue
		}
		if age, ok := ParseAge(out[i].Age.String()); ok && age <= idExemptMaxAge {
			out[i].IDNumber = ""
		}
	}
	return out
}

// BookingPolicy holds the submission rules that are deployment choices
// rather than fixed validation.
type BookingPolicy struct {
	// BlockZeroFare rejects submission when the route prices at 0.
	BlockZeroFare bool
}

// NormalizeManifest forces positional adult/child flags when the manifest
// length already matches the counts. Mismatched manifests are returned as
// is so validation can report them.
func NormalizeManifest(req models.BookingRequest) []models.PassengerInput {
	if req.Adults < 0 || req.Children < 0 || len(req.Passengers) != req.Adults+req.Children {
		return req.Passengers
	}
	return ReconcileManifest(req.Passengers, req.Adults, req.Children)
}

// ValidateBookingRequest produces the full ordered violation list for a
// submission: passengers first, then booking-level fields.
func ValidateBookingRequest(req models.BookingRequest, fares utils.FareTable, now time.Time, policy BookingPolicy) []string {
	out := ValidateManifest(NormalizeManifest(req))

	if req.StartsFrom == "" {
		out = append(out, "Starting location is required")
	}
	if req.Destination == "" {
		out = append(out, "Destination is required")
	}
	out = append(out, validateTravelDate(req.TravelDate, now)...)
	if req.Adults < 1 {
		out = append(out, "At least one adult is required")
	}
	if req.Children < 0 {
		out = append(out, "Children cannot be negative")
	}
	if len(req.Passengers) != max(req.Adults, 0)+max(req.Children, 0) {
		out = append(out, "Passenger count must equal adults plus children")
	}
	if policy.BlockZeroFare && req.StartsFrom != "" && req.Destination != "" &&
		fares.BasePrice(req.StartsFrom, req.Destination) == 0 {
		out = append(out, fmt.Sprintf("No fare is available for %s to %s", req.StartsFrom, req.Destination))
	}
	return out
}

func validateTravelDate(raw string, now time.Time) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"Travel date is required"}
	}
	d, err := utils.ParseDate(raw)
	if err != nil {
		return []string{"Travel date is invalid"}
	}
	if d.Before(utils.StartOfDay(now)) {
		return []string{"Travel date cannot be in the past"}
	}
	return nil
}
