package domain

import "math"

const (
	// Gravitational acceleration (m/s^2).
	Gravity = 9.81

	// Air density at sea level and 15 C (kg/m^3).
	StandardAirDensity = 1.225
)

func KphToMps(kph float64) float64 { return kph / 3.6 }

func MpsToKph(mps float64) float64 { return mps * 3.6 }

func Radians(deg float64) float64 { return deg * math.Pi / 180 }

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
