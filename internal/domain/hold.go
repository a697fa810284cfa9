package domain

import "time"

// Hold is a provisional reservation awaiting confirmation. It lives only in
// the hold store and disappears when its TTL elapses; no capacity is
// reserved until the hold is confirmed.
type Hold struct {
	ReservationID string       `json:"reservation_id"`
	UserID        int64        `json:"user_id"`
	CampID        int64        `json:"camp_id"`
	FacilityID    int64        `json:"facility_id"`
	FacilityType  FacilityType `json:"facility_type"`
	EntryDate     time.Time    `json:"entry_date"`
	LeavingDate   time.Time    `json:"leaving_date"`
	GearRental    bool         `json:"gear_rental"`
	CreatedAt     time.Time    `json:"created_at"`
	ExpiresAt     time.Time    `json:"expires_at"`
}

// Nights returns each date of the stay, entry inclusive, leaving exclusive.
// These are the dates whose availability counters a confirmation consumes.
func (h Hold) Nights() []time.Time {
	var nights []time.Time
	for d := h.EntryDate; d.Before(h.LeavingDate); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}
