package domain

// Immutable geographic coordinates (latitude, longitude) of the trip
// segment, used when live forecast conditions are looked up for it.
type Coordinates struct {
	Lat float64
	Lon float64
}
