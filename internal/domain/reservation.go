package domain

import "time"

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation is the durable record created when a hold is confirmed.
// It is never deleted; cancellation flips the status and returns the
// consumed capacity to the ledger.
type Reservation struct {
	ID           string
	UserID       int64
	CampID       int64
	FacilityID   int64
	FacilityType FacilityType
	EntryDate    time.Time
	LeavingDate  time.Time
	Status       ReservationStatus
	GearRental   bool
	ReservedAt   time.Time
}

// Nights returns each date of the stay, entry inclusive, leaving exclusive.
func (r Reservation) Nights() []time.Time {
	var nights []time.Time
	for d := r.EntryDate; d.Before(r.LeavingDate); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}
