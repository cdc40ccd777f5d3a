package rooms

import (
	"encoding/json"
	"strings"

	"hoteldesk/internal/domain"
)

type AddRoomRequest struct {
	Number string `json:"number" validate:"required"`
	// Type is the variant tag; roomType is accepted for older clients.
	// One of the two is required.
	Type      string       `json:"type" validate:"required_without=RoomType,omitempty,roomtype"`
	RoomType  string       `json:"roomType" validate:"omitempty,roomtype"`
	Price     *json.Number `json:"price" validate:"required"`
	Amenities []string     `json:"amenities"`
	Notes     string       `json:"notes"`
}

type UpdateRoomRequest struct {
	Price *json.Number `json:"price"`
	Type  *string      `json:"type" validate:"omitempty,roomtype"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,roomstatus"`
	Notes  *string `json:"notes"`
}

type UpdateAmenitiesRequest struct {
	Amenities []string `json:"amenities" validate:"required"`
}

type BookRoomRequest struct {
	GuestName  string `json:"guestName" validate:"required"`
	CheckIn    string `json:"checkIn" validate:"required,isodate"`
	CheckOut   string `json:"checkOut" validate:"required,isodate"`
	GuestEmail string `json:"guestEmail" validate:"omitempty,email"`
	GuestPhone string `json:"guestPhone"`
	GuestCount *int   `json:"guestCount" validate:"omitempty,min=1"`
	Notes      string `json:"notes"`
}

type ModifyBookingRequest struct {
	GuestName  *string `json:"guestName"`
	CheckIn    *string `json:"checkIn" validate:"omitempty,isodate"`
	CheckOut   *string `json:"checkOut" validate:"omitempty,isodate"`
	// An empty guestEmail clears it.
	GuestEmail *string `json:"guestEmail" validate:"omitzero,email"`
	GuestPhone *string `json:"guestPhone"`
	GuestCount *int    `json:"guestCount" validate:"omitempty,min=1"`
	Notes      *string `json:"notes"`
}

// RoomResponse is the public room view: the stored record, its
// description, and the active booking if any.
type RoomResponse struct {
	domain.RoomRecord
	Description string           `json:"description"`
	Booking     *BookingResponse `json:"booking"`
}

type BookingResponse struct {
	RoomNumber string `json:"roomNumber"`
	domain.BookingRecord
	Nights int `json:"nights"`
}

type ReconcileResponse struct {
	Changed  bool     `json:"changed"`
	Repaired []string `json:"repaired"`
	Orphaned []string `json:"orphaned"`
}

func NewRoomResponse(d RoomDetails) RoomResponse {
	resp := RoomResponse{
		RoomRecord:  d.Room.Record(),
		Description: d.Room.Describe(),
	}
	if d.Booking != nil {
		b := NewBookingResponse(d.Room.Number, *d.Booking)
		resp.Booking = &b
	}
	return resp
}

func NewBookingResponse(roomNo string, b domain.Booking) BookingResponse {
	nights, _ := b.Nights()
	return BookingResponse{
		RoomNumber:    roomNo,
		BookingRecord: b.Record(),
		Nights:        nights,
	}
}

func NewReconcileResponse(r domain.ReconcileReport) ReconcileResponse {
	resp := ReconcileResponse{
		Changed:  r.Changed(),
		Repaired: r.Repaired,
		Orphaned: r.Orphaned,
	}
	if resp.Repaired == nil {
		resp.Repaired = []string{}
	}
	if resp.Orphaned == nil {
		resp.Orphaned = []string{}
	}
	return resp
}

// ToRoom converts the request. Price parsing errors are reported as
// validation failures.
func (r AddRoomRequest) ToRoom() (domain.Room, error) {
	price, err := parsePrice(*r.Price)
	if err != nil {
		return domain.Room{}, err
	}
	tag := r.Type
	if tag == "" {
		tag = r.RoomType
	}
	t, _ := domain.ParseRoomType(tag)
	room := domain.NewRoom(strings.TrimSpace(r.Number), t, price)
	room.Amenities = r.Amenities
	if notes := strings.TrimSpace(r.Notes); notes != "" {
		room.Notes = &notes
	}
	return room, nil
}

func (r UpdateRoomRequest) ToPatch() (domain.RoomPatch, error) {
	var p domain.RoomPatch
	if r.Price != nil {
		price, err := parsePrice(*r.Price)
		if err != nil {
			return p, err
		}
		p.Price = &price
	}
	if r.Type != nil {
		t, _ := domain.ParseRoomType(*r.Type)
		p.Type = &t
	}
	return p, nil
}

func (r UpdateStatusRequest) ToPatch() domain.RoomPatch {
	status, _ := domain.ParseRoomStatus(r.Status)
	return domain.RoomPatch{Status: &status, Notes: r.Notes}
}

func (r BookRoomRequest) ToBooking() domain.Booking {
	b := domain.NewBooking(r.GuestName, r.CheckIn, r.CheckOut)
	if r.GuestCount != nil {
		b.GuestCount = *r.GuestCount
	}
	b.GuestEmail = optional(r.GuestEmail)
	b.GuestPhone = optional(r.GuestPhone)
	b.Notes = optional(r.Notes)
	return b
}

func (r ModifyBookingRequest) ToPatch() domain.BookingPatch {
	return domain.BookingPatch{
		GuestName:  r.GuestName,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		GuestEmail: r.GuestEmail,
		GuestPhone: r.GuestPhone,
		GuestCount: r.GuestCount,
		Notes:      r.Notes,
	}
}

// parsePrice accepts JSON numbers and numeric strings.
func parsePrice(n json.Number) (float64, error) {
	price, err := n.Float64()
	if err != nil {
		return 0, ErrInvalidPrice
	}
	return price, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func patchAmenities(amenities []string) domain.RoomPatch {
	return domain.RoomPatch{Amenities: &amenities}
}
