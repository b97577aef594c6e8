package model

import "time"

const (
	CollectionName = "listings"
	EntityName     = "listing"

	FieldID             = "_id"
	FieldSpotID         = "spot_id"
	FieldHostAddress    = "host_address"
	FieldLocation       = "location"
	FieldDescription    = "description"
	FieldPriceWei       = "price_wei"
	FieldIsBooked       = "is_booked"
	FieldDriverAddress  = "driver_address"
	FieldBookingEndTime = "booking_end_time"
	FieldAmenities      = "amenities"
	FieldImages         = "images"
	FieldRating         = "rating"
	FieldReviews        = "reviews"
	FieldHidden         = "hidden"
	FieldCreatedAt      = "created_at"
	FieldModifiedAt     = "modified_at"
)

type Review struct {
	User      string    `bson:"user"       json:"user"`
	Rating    int       `bson:"rating"     json:"rating"`
	Comment   string    `bson:"comment"    json:"comment"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Listing is the metadata document for a spot. SpotID links it to the ledger
// record; a nil SpotID marks a metadata-only listing that never reached the
// ledger. All addresses are stored lowercase.
//
// IsBooked, DriverAddress and BookingEndTime mirror ledger state for
// ledger-backed listings and may lag it; when a ledger connection exists the
// ledger values win.
type Listing struct {
	ID             string    `bson:"_id"`
	SpotID         *uint64   `bson:"spot_id,omitempty"`
	HostAddress    string    `bson:"host_address"`
	Location       string    `bson:"location"`
	Description    string    `bson:"description"`
	PriceWei       string    `bson:"price_wei"`
	IsBooked       bool      `bson:"is_booked"`
	DriverAddress  string    `bson:"driver_address,omitempty"`
	BookingEndTime uint64    `bson:"booking_end_time,omitempty"`
	Amenities      []string  `bson:"amenities,omitempty"`
	Images         []string  `bson:"images,omitempty"`
	Rating         float64   `bson:"rating"`
	Reviews        []Review  `bson:"reviews,omitempty"`
	Hidden         bool      `bson:"hidden"`
	CreatedAt      time.Time `bson:"created_at"`
	ModifiedAt     time.Time `bson:"modified_at"`
}
