package domain

// ParcelStatus represents the lifecycle state of a parcel.
type ParcelStatus string

// List of possible parcel statuses
const (
	ParcelPlaced     ParcelStatus = "placed"
	ParcelTransiting ParcelStatus = "transiting"
	ParcelDelivered  ParcelStatus = "delivered"
	ParcelCanceled   ParcelStatus = "canceled"
)

var allowedParcelStatuses = [...]ParcelStatus{
	ParcelPlaced, ParcelTransiting, ParcelDelivered, ParcelCanceled,
}

// forward edges an administrator may apply; canceled is reached only through the owner's cancel.
var adminTransitions = map[ParcelStatus][]ParcelStatus{
	ParcelPlaced:     {ParcelTransiting},
	ParcelTransiting: {ParcelDelivered},
}

// Valid checks if the ParcelStatus is valid
func (s ParcelStatus) Valid() bool {
	for _, v := range allowedParcelStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further mutation is possible.
func (s ParcelStatus) Terminal() bool {
	return s == ParcelDelivered || s == ParcelCanceled
}

// Cancelable reports whether the owner may still cancel the parcel.
func (s ParcelStatus) Cancelable() bool {
	return s == ParcelPlaced || s == ParcelTransiting
}

// CanTransitionTo reports whether an administrator may move a parcel from s to next.
func (s ParcelStatus) CanTransitionTo(next ParcelStatus) bool {
	for _, v := range adminTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// ParcelStatuses returns every known status in lifecycle order.
func ParcelStatuses() []ParcelStatus {
	return append([]ParcelStatus(nil), allowedParcelStatuses[:]...)
}
