package services

import (
	"fmt"
	"time"

	"ticketbooking/internal/domain/models"
	"ticketbooking/internal/utils"
)

// BookingDraft is the in-progress booking form. Every mutator recomputes
// the derived manifest and price immediately, so TotalPrice and Passengers
// always reflect the latest inputs. A draft belongs to one editor.
type BookingDraft struct {
	StartsFrom  string
	Destination string
	TravelDate  time.Time
	Adults      int
	Children    int
	Passengers  []models.PassengerInput
	TotalPrice  int64

	fares utils.FareTable
}

// NewBookingDraft starts a draft for one adult travelling today.
func NewBookingDraft(fares utils.FareTable, today time.Time) *BookingDraft {
	d := &BookingDraft{
		TravelDate: utils.StartOfDay(today),
		fares:      fares,
	}
	d.SetCounts(1, 0)
	return d
}

// DraftFromRequest rebuilds a draft from a submitted request. Passengers are
// applied after the counts, so a manifest longer or shorter than the counts
// is reconciled to fit.
func DraftFromRequest(fares utils.FareTable, req models.BookingRequest) *BookingDraft {
	d := &BookingDraft{fares: fares}
	if t, err := utils.ParseDate(req.TravelDate); err == nil {
		d.TravelDate = t
	}
	d.StartsFrom = req.StartsFrom
	d.Destination = req.Destination
	d.Adults = max(req.Adults, 0)
	d.Children = max(req.Children, 0)
	d.Passengers = ReconcileManifest(req.Passengers, d.Adults, d.Children)
	d.reprice()
	return d
}

func (d *BookingDraft) SetCounts(adults, children int) {
	d.Adults = max(adults, 0)
	d.Children = max(children, 0)
	d.Passengers = ReconcileManifest(d.Passengers, d.Adults, d.Children)
	d.reprice()
}

func (d *BookingDraft) SetRoute(from, to string) {
	d.StartsFrom = from
	d.Destination = to
	d.reprice()
}

func (d *BookingDraft) SetTravelDate(t time.Time) {
	d.TravelDate = utils.StartOfDay(t)
}

// SetPassenger replaces the entry at index. IsAdult stays positional.
func (d *BookingDraft) SetPassenger(index int, p models.PassengerInput) error {
	if index < 0 || index >= len(d.Passengers) {
		return fmt.Errorf("passenger %d out of range", index+1)
	}
	p.IsAdult = index < d.Adults
	if p.IDType == "" {
		p.IDType = models.IDTypeAadhar
	}
	d.Passengers[index] = p
	return nil
}

func (d *BookingDraft) reprice() {
	d.TotalPrice = d.fares.ComputeTotal(d.StartsFrom, d.Destination, d.Adults, d.Children)
}

// Request serializes the draft as entered.
func (d *BookingDraft) Request() models.BookingRequest {
	passengers := make([]models.PassengerInput, len(d.Passengers))
	copy(passengers, d.Passengers)
	return models.BookingRequest{
		StartsFrom:  d.StartsFrom,
		Destination: d.Destination,
		TravelDate:  utils.FormatDate(d.TravelDate),
		Adults:      d.Adults,
		Children:    d.Children,
		TotalPrice:  d.TotalPrice,
		Passengers:  passengers,
	}
}

// Validate returns the ordered violation list; empty means clear to submit.
func (d *BookingDraft) Validate(now time.Time, policy BookingPolicy) []string {
	return ValidateBookingRequest(d.Request(), d.fares, now, policy)
}

// Snapshot is the immutable payload handed to booking creation, with the
// ID numbers of ID-exempt children cleared.
func (d *BookingDraft) Snapshot() models.BookingRequest {
	req := d.Request()
	req.Passengers = ClearExemptIDs(req.Passengers)
	return req
}
