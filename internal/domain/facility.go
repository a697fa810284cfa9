package domain

// FacilityType is the category of a bookable site. Each type has its own
// remaining-capacity counter per (camp, date).
type FacilityType string

const (
	FacilityGeneral  FacilityType = "general"
	FacilityVehicle  FacilityType = "vehicle"
	FacilityGlamping FacilityType = "glamping"
	FacilityCaravan  FacilityType = "caravan"
)

// Valid reports whether ft is one of the known facility types.
func (ft FacilityType) Valid() bool {
	switch ft {
	case FacilityGeneral, FacilityVehicle, FacilityGlamping, FacilityCaravan:
		return true
	}
	return false
}

// Facility is a bookable site within a camp.
type Facility struct {
	ID     int64
	CampID int64
	Type   FacilityType
}

// CampBaseline holds a camp's per-type site counts, used to seed an
// availability row the first time a date is touched.
type CampBaseline struct {
	CampID   int64
	General  int
	Vehicle  int
	Glamping int
	Caravan  int
}
