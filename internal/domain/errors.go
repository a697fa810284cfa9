package domain

import "errors"

var (
	ErrInvalidStayDates     = errors.New("entry date must be before leaving date")
	ErrInvalidFacilityType  = errors.New("invalid facility type")
	ErrFacilityNotFound     = errors.New("facility not found")
	ErrCampNotFound         = errors.New("camp not found")
	ErrHoldNotFound         = errors.New("hold expired or missing")
	ErrHoldIDCollision      = errors.New("hold id already in use")
	ErrHoldStoreUnavailable = errors.New("hold store unavailable")
	ErrCapacityExhausted    = errors.New("no capacity left for the requested dates")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrReservationExists    = errors.New("reservation already recorded")
	ErrAlreadyCancelled     = errors.New("reservation already cancelled")
	ErrAvailabilityNotFound = errors.New("availability not found")
)
