package domain

import "time"

// Parcel represents a delivery order placed by a user.
type Parcel struct {
	ID              int64
	PlacedBy        int64
	Weight          float64
	WeightMetric    string
	From            string
	To              string
	CurrentLocation string
	Status          ParcelStatus
	SentOn          time.Time
	DeliveredOn     *time.Time
}

// NewParcel carries the caller supplied details of a parcel order.
type NewParcel struct {
	PlacedBy     int64
	Weight       float64
	WeightMetric string
	From         string
	To           string
}

// ParcelOwner is the contact data of the user that placed a parcel.
type ParcelOwner struct {
	UserID    int64
	Email     string
	FirstName string
}

// LockedParcel is a parcel read under a row lock together with its owner.
type LockedParcel struct {
	Parcel
	Owner ParcelOwner
}

// ParcelOrder is a whitelisted sort column for parcel listings.
type ParcelOrder string

// List of sortable parcel columns
const (
	OrderByID          ParcelOrder = "id"
	OrderBySentOn      ParcelOrder = "sent_on"
	OrderByDeliveredOn ParcelOrder = "delivered_on"
	OrderByStatus      ParcelOrder = "status"
	OrderByWeight      ParcelOrder = "weight"
)

var allowedParcelOrders = [...]ParcelOrder{
	OrderByID, OrderBySentOn, OrderByDeliveredOn, OrderByStatus, OrderByWeight,
}

// Valid checks if the ParcelOrder is a known column
func (o ParcelOrder) Valid() bool {
	for _, v := range allowedParcelOrders {
		if o == v {
			return true
		}
	}
	return false
}

// Page describes listing order and window. Nil Limit/Offset mean "not set".
type Page struct {
	OrderBy ParcelOrder
	Desc    bool
	Limit   *int
	Offset  *int
}

// CancelResult is returned after a parcel order has been canceled.
type CancelResult struct {
	ID      int64
	Message string
}

// DestinationResult is returned after the destination of a parcel has changed.
type DestinationResult struct {
	ID      int64
	To      string
	Message string
}

// StatusResult is returned after an administrator changed a parcel status.
type StatusResult struct {
	ID      int64
	Status  ParcelStatus
	Message string
}

// LocationResult is returned after an administrator moved a parcel.
type LocationResult struct {
	ID              int64
	CurrentLocation string
	Message         string
}
