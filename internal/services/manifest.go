package services

import "ticketbooking/internal/domain/models"

// ReconcileManifest reshapes prev to exactly adults+children entries. Slot i
// keeps whatever prev held at index i; the first adults slots are adults and
// the rest children. Shrinking truncates the tail of each bracket, growing
// appends blank entries. Only the manifest passed in is consulted, so data
// cut off by an earlier shrink is not restored.
func ReconcileManifest(prev []models.PassengerInput, adults, children int) []models.PassengerInput {
	adults = max(adults, 0)
	children = max(children, 0)

	out := make([]models.PassengerInput, 0, adults+children)
	for i := 0; i < adults; i++ {
		out = append(out, carryOver(prev, i, true))
	}
	for j := 0; j < children; j++ {
		out = append(out, carryOver(prev, adults+j, false))
	}
	return out
}

func carryOver(prev []models.PassengerInput, idx int, adult bool) models.PassengerInput {
	p := models.PassengerInput{IsAdult: adult, IDType: models.IDTypeAadhar}
	if idx >= len(prev) {
		return p
	}
	src := prev[idx]
	p.Name = src.Name
	p.Age = src.Age
	p.IDNumber = src.IDNumber
	if src.IDType != "" {
		p.IDType = src.IDType
	}
	return p
}
