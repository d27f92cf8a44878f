package domain

type ServiceType string

const (
	ServiceStay      ServiceType = "stay"
	ServiceTour      ServiceType = "tour"
	ServiceAdventure ServiceType = "adventure"
	ServiceVehicle   ServiceType = "vehicle"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceStay, ServiceTour, ServiceAdventure, ServiceVehicle:
		return true
	}
	return false
}

// PerDay reports whether the service type is priced per day of the
// booked range (stays and vehicle rentals) rather than per slot.
func (t ServiceType) PerDay() bool {
	return t == ServiceStay || t == ServiceVehicle
}
