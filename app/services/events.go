package services

import (
	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/pkg/event"
)

// Domain event names fired by the services. Listeners are registered at
// bootstrap; a nil bus disables dispatch, which tests rely on.
const (
	EventFundraiserCreated = "fundraiser.created"
	EventDonationSubmitted = "donation.submitted"
	EventDonationDecided   = "donation.decided"
)

// DonationDecided is the payload for EventDonationDecided.
type DonationDecided struct {
	Donation   models.Donation
	Fundraiser models.Fundraiser
}

func fire(bus *event.Bus, name string, payload any) {
	if bus == nil {
		return
	}
	bus.Fire(name, payload)
}
