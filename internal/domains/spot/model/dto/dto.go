package dto

import (
	"fmt"
	"math/big"
	"parkade/internal/domains/listing/model"
	"parkade/internal/ledger"
	"parkade/shared/ethaddr"
)

func validWei(s string) bool {
	n, ok := new(big.Int).SetString(s, 10)

	return ok && n.Sign() > 0
}

// Origin tags which store a spot view came from. Ledger and metadata ids live
// in different namespaces and must never collide.
type Origin string

const (
	OriginLedger   Origin = "ledger"
	OriginMetadata Origin = "metadata"
)

// SpotView is the merged marketplace record: ledger truth for money and
// booking state, metadata for everything descriptive.
type SpotView struct {
	ID             string         `json:"id"`
	Origin         Origin         `json:"origin"`
	SpotID         *uint64        `json:"spot_id,omitempty"`
	Host           string         `json:"host"`
	Location       string         `json:"location"`
	PriceWei       string         `json:"price_wei"`
	IsBooked       bool           `json:"is_booked"`
	Driver         string         `json:"driver,omitempty"`
	BookingEndTime uint64         `json:"booking_end_time,omitempty"`
	State          string         `json:"state"`
	Description    string         `json:"description,omitempty"`
	Amenities      []string       `json:"amenities,omitempty"`
	Images         []string       `json:"images,omitempty"`
	Rating         float64        `json:"rating"`
	Reviews        []model.Review `json:"reviews,omitempty"`
	Hidden         bool           `json:"hidden,omitempty"`
}

// LedgerSpotID renders the namespaced id for a ledger spot.
func LedgerSpotID(spotID uint64) string {
	return fmt.Sprintf("%s:%d", OriginLedger, spotID)
}

// MetadataSpotID renders the namespaced id for a metadata-only listing.
func MetadataSpotID(id string) string {
	return fmt.Sprintf("%s:%s", OriginMetadata, id)
}

// FromLedger fills the ledger-sourced fields. These always win over metadata
// on conflict.
func (v *SpotView) FromLedger(spot ledger.Spot, now uint64) {
	spotID := spot.ID

	v.ID = LedgerSpotID(spot.ID)
	v.Origin = OriginLedger
	v.SpotID = &spotID
	v.Host = ethaddr.NormalizeAddress(spot.Host)
	v.Location = spot.Location
	v.PriceWei = spot.Price.String()
	v.IsBooked = spot.IsBooked
	v.BookingEndTime = spot.BookingEndTime
	v.State = spot.State(now).String()

	if !ethaddr.IsZero(spot.Driver) {
		v.Driver = ethaddr.NormalizeAddress(spot.Driver)
	}
}

// EnrichFromListing copies the descriptive metadata fields onto a
// ledger-sourced view without touching any ledger-owned field.
func (v *SpotView) EnrichFromListing(listing model.Listing) {
	v.Description = listing.Description
	v.Amenities = listing.Amenities
	v.Images = listing.Images
	v.Rating = listing.Rating
	v.Reviews = listing.Reviews
	v.Hidden = listing.Hidden

	if v.Location == "" {
		v.Location = listing.Location
	}
}

// FromListing builds a metadata-only view for listings with no ledger record
// in reach. A missing or corrupt stored price falls back to "0".
func (v *SpotView) FromListing(listing model.Listing, now uint64) {
	v.ID = MetadataSpotID(listing.ID)
	v.Origin = OriginMetadata
	v.SpotID = listing.SpotID
	v.Host = ethaddr.Normalize(listing.HostAddress)
	v.Location = listing.Location
	v.PriceWei = listing.PriceWei
	v.IsBooked = listing.IsBooked
	v.Driver = ethaddr.Normalize(listing.DriverAddress)
	v.BookingEndTime = listing.BookingEndTime
	v.Description = listing.Description
	v.Amenities = listing.Amenities
	v.Images = listing.Images
	v.Rating = listing.Rating
	v.Reviews = listing.Reviews
	v.Hidden = listing.Hidden

	if !validWei(listing.PriceWei) {
		v.PriceWei = "0"
	}

	state := ledger.Spot{IsBooked: listing.IsBooked, BookingEndTime: listing.BookingEndTime}.State(now)
	v.State = state.String()
}

// MarketplaceResponse is the reconciled marketplace: unbooked spots open to
// anyone, plus everything hosted by the caller.
type MarketplaceResponse struct {
	Available       []SpotView `json:"available"`
	Owned           []SpotView `json:"owned"`
	LedgerConnected bool       `json:"ledger_connected"`
}
