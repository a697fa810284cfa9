package domain

import "time"

// Availability is the capacity ledger row for one (camp, date): the number
// of units still bookable per facility type. Rows are created lazily from a
// camp's baseline the first time a date is touched and every count stays
// non-negative.
type Availability struct {
	CampID   int64
	Date     time.Time
	General  int
	Vehicle  int
	Glamping int
	Caravan  int
}

// Remaining returns the count for the given facility type, or -1 for an
// unknown type.
func (a Availability) Remaining(ft FacilityType) int {
	switch ft {
	case FacilityGeneral:
		return a.General
	case FacilityVehicle:
		return a.Vehicle
	case FacilityGlamping:
		return a.Glamping
	case FacilityCaravan:
		return a.Caravan
	}
	return -1
}
