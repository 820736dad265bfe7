package services

import (
	"testing"
	"time"

	"ticketbooking/internal/domain/models"
)

func TestValidateCard(t *testing.T) {
	now := time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)
	good := models.CardPayment{CardNumber: "4111 1111 1111 1111", CardName: "Asha K", ExpiryDate: "06/30", CVV: "123"}
	if msg := ValidateCard(good, now); msg != "" {
		t.Fatalf("valid card rejected: %s", msg)
	}

	cases := []struct {
		mutate func(*models.CardPayment)
		want   string
	}{
		{func(p *models.CardPayment) { p.CardNumber = "4111" }, "Please enter a valid 16-digit card number"},
		{func(p *models.CardPayment) { p.CardName = " " }, "Please enter the cardholder name"},
		{func(p *models.CardPayment) { p.ExpiryDate = "05/30" }, "Please enter a valid expiry date (MM/YY)"},
		{func(p *models.CardPayment) { p.ExpiryDate = "13/31" }, "Please enter a valid expiry date (MM/YY)"},
		{func(p *models.CardPayment) { p.CVV = "12" }, "Please enter a valid CVV"},
	}
	for _, c := range cases {
		p := good
		c.mutate(&p)
		if got := ValidateCard(p, now); got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}

func cardFixture() models.CardPayment {
	return models.CardPayment{CardNumber: "4111111111111111", CardName: "Asha K", ExpiryDate: "12/39", CVV: "123"}
}
