package domain

import (
	"math"
	"slices"
	"strconv"
)

// RoomType is the variant tag of a room. Its value is the persisted
// "type" discriminator.
type RoomType string

const (
	RoomStandard RoomType = "SingleRoom"
	RoomDouble   RoomType = "DoubleRoom"
	RoomSuite    RoomType = "SuiteRoom"
)

// DefaultRoomType is used when a stored record carries no known type tag.
const DefaultRoomType = RoomSuite

var roomTypes = map[string]RoomType{
	string(RoomStandard): RoomStandard,
	string(RoomDouble):   RoomDouble,
	string(RoomSuite):    RoomSuite,
}

// ParseRoomType accepts only the known type tags.
func ParseRoomType(s string) (RoomType, bool) {
	t, ok := roomTypes[s]
	return t, ok
}

// RoomTypes lists the variants in display order.
func RoomTypes() []RoomType {
	return []RoomType{RoomStandard, RoomDouble, RoomSuite}
}

// Label is the human name used in descriptions. Unknown tags read as a
// suite, like DefaultRoomType.
func (t RoomType) Label() string {
	switch t {
	case RoomStandard:
		return "Single Room"
	case RoomDouble:
		return "Double Room"
	default:
		return "Luxury Suite"
	}
}

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomMaintenance RoomStatus = "maintenance"
	RoomCleaning    RoomStatus = "cleaning"
)

func ParseRoomStatus(s string) (RoomStatus, bool) {
	switch RoomStatus(s) {
	case RoomAvailable, RoomMaintenance, RoomCleaning:
		return RoomStatus(s), true
	}
	return "", false
}

const CurrencySymbol = "₹"

type Room struct {
	Number    string
	Price     float64
	Type      RoomType
	IsBooked  bool
	BookedBy  *string
	Status    RoomStatus
	Amenities []string
	Notes     *string
}

// NewRoom returns an available, unbooked room with no amenities.
func NewRoom(number string, t RoomType, price float64) Room {
	return Room{
		Number:    number,
		Price:     price,
		Type:      t,
		Status:    RoomAvailable,
		Amenities: []string{},
	}
}

func (r Room) Describe() string {
	return r.Type.Label() + " — " + CurrencySymbol + strconv.FormatFloat(r.Price, 'f', -1, 64)
}

// Bookable reports whether the room passes the available-rooms filter.
func (r Room) Bookable() bool {
	return !r.IsBooked && r.Status == RoomAvailable
}

func (r Room) clone() Room {
	c := r
	c.Amenities = slices.Clone(r.Amenities)
	if c.Amenities == nil {
		c.Amenities = []string{}
	}
	c.BookedBy = cloneString(r.BookedBy)
	c.Notes = cloneString(r.Notes)
	return c
}

// withType returns the room re-tagged as t. Every other field is carried
// over as-is.
func (r Room) withType(t RoomType) Room {
	return Room{
		Number:    r.Number,
		Price:     r.Price,
		Type:      t,
		IsBooked:  r.IsBooked,
		BookedBy:  cloneString(r.BookedBy),
		Status:    r.Status,
		Amenities: slices.Clone(r.Amenities),
		Notes:     cloneString(r.Notes),
	}
}

func validatePrice(price float64) error {
	if !(price > 0) || math.IsInf(price, 0) {
		return validation("price must be a positive number, got %v", price)
	}
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// optionalString maps "" to nil.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
