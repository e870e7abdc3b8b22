package sumogen

/* Vehicle types stuff */

// VehicleType defines physics and classification of one vehicle category.
// LengthMeters and speeds are metric; Sigma is the driver imperfection
// factor in [0, 1].
type VehicleType struct {
	ID            string
	LengthMeters  float64
	MinGapMeters  float64
	MaxSpeed      float64 // m/s
	Accel         float64 // m/s^2
	Decel         float64 // m/s^2
	Sigma         float64
	Tau           float64 // reaction time, s
	VehicleClass  string
	Color         string
	EmissionClass string
}

// DefaultPassengerCar returns the vehicle type the CLI falls back to when
// the scenario defines no types of its own.
func DefaultPassengerCar() VehicleType {
	return VehicleType{
		ID:           "car",
		LengthMeters: 5.0,
		MinGapMeters: 2.5,
		MaxSpeed:     KmhToMs(200.0),
		Accel:        2.6,
		Decel:        4.5,
		Sigma:        0.5,
		Tau:          1.0,
		VehicleClass: "passenger",
	}
}

func (vt *VehicleType) validate() error {
	if vt.ID == "" {
		return newInvalidParameter("vehicleType.id", "must be a non-empty string")
	}
	if vt.LengthMeters <= 0 {
		return newInvalidParameter("vehicleType.length", "vehicle type '%s' must have positive length, got %f", vt.ID, vt.LengthMeters)
	}
	if vt.MaxSpeed <= 0 {
		return newInvalidParameter("vehicleType.maxSpeed", "vehicle type '%s' must have positive max speed, got %f", vt.ID, vt.MaxSpeed)
	}
	if vt.Accel <= 0 {
		return newInvalidParameter("vehicleType.accel", "vehicle type '%s' must have positive acceleration, got %f", vt.ID, vt.Accel)
	}
	if vt.Decel <= 0 {
		return newInvalidParameter("vehicleType.decel", "vehicle type '%s' must have positive deceleration, got %f", vt.ID, vt.Decel)
	}
	if vt.Sigma < 0 || vt.Sigma > 1 {
		return newInvalidParameter("vehicleType.sigma", "vehicle type '%s' imperfection must be within [0, 1], got %f", vt.ID, vt.Sigma)
	}
	if vt.MinGapMeters < 0 {
		return newInvalidParameter("vehicleType.minGap", "vehicle type '%s' must have non-negative minimal gap, got %f", vt.ID, vt.MinGapMeters)
	}
	if vt.Tau < 0 {
		return newInvalidParameter("vehicleType.tau", "vehicle type '%s' must have non-negative reaction time, got %f", vt.ID, vt.Tau)
	}
	return nil
}
