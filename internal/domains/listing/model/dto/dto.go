package dto

import (
	"parkade/internal/domains/listing/model"
	"parkade/shared"
	"parkade/shared/ethaddr"
	"parkade/shared/timezone"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

type CreateListingRequest struct {
	SpotID      *uint64  `json:"spot_id" validate:"omitempty"`
	Location    string   `json:"location" validate:"required,max=255"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	PriceWei    string   `json:"price_wei" validate:"required,wei"`
	Amenities   []string `json:"amenities" validate:"omitempty,dive,max=64"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

func (c *CreateListingRequest) ToModel(host string) model.Listing {
	return model.Listing{
		ID:          uuid.NewString(),
		SpotID:      c.SpotID,
		HostAddress: ethaddr.Normalize(host),
		Location:    c.Location,
		Description: c.Description,
		PriceWei:    c.PriceWei,
		Amenities:   c.Amenities,
		Images:      c.Images,
		CreatedAt:   timezone.Now(),
		ModifiedAt:  timezone.Now(),
	}
}

// UpdateListingRequest carries only host-editable metadata. The booking
// mirror fields are deliberately absent: those follow the ledger and cannot
// be edited through the API.
type UpdateListingRequest struct {
	Location    string   `json:"location" validate:"omitempty,max=255"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	PriceWei    string   `json:"price_wei" validate:"omitempty,wei"`
	Amenities   []string `json:"amenities" validate:"omitempty,dive,max=64"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

// ToUpdateFields builds the $set document from the non-zero fields.
func (u *UpdateListingRequest) ToUpdateFields() bson.M {
	fields := bson.M{}

	if u.Location != "" {
		fields[model.FieldLocation] = u.Location
	}

	if u.Description != "" {
		fields[model.FieldDescription] = u.Description
	}

	if u.PriceWei != "" {
		fields[model.FieldPriceWei] = u.PriceWei
	}

	if u.Amenities != nil {
		fields[model.FieldAmenities] = u.Amenities
	}

	if u.Images != nil {
		fields[model.FieldImages] = u.Images
	}

	fields[model.FieldModifiedAt] = timezone.Now()

	return fields
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

func (a *AddReviewRequest) ToModel(user string) model.Review {
	return model.Review{
		User:      ethaddr.Normalize(user),
		Rating:    a.Rating,
		Comment:   a.Comment,
		CreatedAt: timezone.Now(),
	}
}

// ListingFilter narrows listing queries. Nil pointers mean "any".
type ListingFilter struct {
	HostAddress   string
	IsBooked      *bool
	IncludeHidden bool
}

// ToBSON renders the filter as a mongo query document.
func (f ListingFilter) ToBSON() bson.M {
	query := bson.M{}

	if f.HostAddress != "" {
		query[model.FieldHostAddress] = ethaddr.Normalize(f.HostAddress)
	}

	if f.IsBooked != nil {
		query[model.FieldIsBooked] = *f.IsBooked
	}

	if !f.IncludeHidden {
		query[model.FieldHidden] = false
	}

	return query
}

type ListingResponse struct {
	ID             string         `json:"id"`
	SpotID         *uint64        `json:"spot_id,omitempty"`
	HostAddress    string         `json:"host_address"`
	Location       string         `json:"location"`
	Description    string         `json:"description,omitempty"`
	PriceWei       string         `json:"price_wei"`
	IsBooked       bool           `json:"is_booked"`
	DriverAddress  string         `json:"driver_address,omitempty"`
	BookingEndTime uint64         `json:"booking_end_time,omitempty"`
	Amenities      []string       `json:"amenities,omitempty"`
	Images         []string       `json:"images,omitempty"`
	Rating         float64        `json:"rating"`
	Reviews        []model.Review `json:"reviews,omitempty"`
	Hidden         bool           `json:"hidden"`
}

func (r *ListingResponse) FromModel(m model.Listing) {
	r.ID = m.ID
	r.SpotID = m.SpotID
	r.HostAddress = m.HostAddress
	r.Location = m.Location
	r.Description = m.Description
	r.PriceWei = m.PriceWei
	r.IsBooked = m.IsBooked
	r.DriverAddress = m.DriverAddress
	r.BookingEndTime = m.BookingEndTime
	r.Amenities = m.Amenities
	r.Images = m.Images
	r.Rating = m.Rating
	r.Reviews = m.Reviews
	r.Hidden = m.Hidden
}

type GetListingsResponse struct {
	Listings  []ListingResponse `json:"listings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetListingsResponse) FromModels(models []model.Listing, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Listings = make([]ListingResponse, len(models))
	for i, mod := range models {
		r.Listings[i].FromModel(mod)
	}
}
