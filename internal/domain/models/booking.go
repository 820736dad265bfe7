package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"ticketbooking/internal/domain"
)

// IDType is the identity document a passenger travels with.
type IDType string

const (
	IDTypeAadhar         IDType = "aadhar"
	IDTypePassport       IDType = "passport"
	IDTypeDrivingLicense IDType = "driving_license"
)

// Stringish tolerates string/number/bool JSON values as a string. Form
// clients send age both as "34" and 34.
type Stringish string

func (s *Stringish) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case string(b) == "null" || len(b) == 0:
		*s = ""
		return nil
	case len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Stringish(str)
		return nil
	default:
		*s = Stringish(strings.Trim(string(b), `"`))
		return nil
	}
}

func (s Stringish) String() string { return string(s) }

// PassengerInput is one manifest entry as entered on the booking form.
// IsAdult is positional and rewritten by the manifest reconciler.
type PassengerInput struct {
	Name     string    `json:"name"`
	Age      Stringish `json:"age"`
	IsAdult  bool      `json:"isAdult"`
	IDType   IDType    `json:"idType"`
	IDNumber string    `json:"idNumber"`
}

// BookingRequest is the serialized draft handed to booking creation.
type BookingRequest struct {
	StartsFrom  string           `json:"startsFrom"`
	Destination string           `json:"destination"`
	TravelDate  string           `json:"travelDate"`
	Adults      int              `json:"adults"`
	Children    int              `json:"children"`
	TotalPrice  int64            `json:"totalPrice"`
	Passengers  []PassengerInput `json:"passengers"`
}

// Passenger is a persisted manifest entry.
type Passenger struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"bookingId"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	IsAdult   bool   `json:"isAdult"`
	IDType    IDType `json:"idType"`
	IDNumber  string `json:"idNumber"`
}

// Booking is a submitted booking with its manifest.
type Booking struct {
	ID          int64                `json:"id"`
	Reference   string               `json:"reference"`
	UserID      int64                `json:"userId"`
	StartsFrom  string               `json:"startsFrom"`
	Destination string               `json:"destination"`
	TravelDate  string               `json:"travelDate"`
	BookingDate time.Time            `json:"bookingDate"`
	Adults      int                  `json:"adults"`
	Children    int                  `json:"children"`
	TotalPrice  int64                `json:"totalPrice"`
	Status      domain.BookingStatus `json:"status"`
	Passengers  []Passenger          `json:"passengers"`
}

// CardPayment is the card data submitted to pay for a pending booking.
// It is validated and never stored.
type CardPayment struct {
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}
