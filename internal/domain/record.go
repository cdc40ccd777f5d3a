package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// HotelRecord is the persisted and exposed shape of the whole aggregate.
type HotelRecord struct {
	Rooms    []RoomRecord             `json:"rooms"`
	Bookings map[string]BookingRecord `json:"bookings"`
}

type RoomRecord struct {
	Number    RoomNumber `json:"number"`
	Price     float64    `json:"price"`
	IsBooked  bool       `json:"isBooked"`
	BookedBy  *string    `json:"bookedBy"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	Amenities []string   `json:"amenities"`
	Notes     *string    `json:"notes"`

	// ConstructorName is the type key written by older clients. It is only
	// read, never written.
	ConstructorName string `json:"constructorName,omitempty"`
}

type BookingRecord struct {
	GuestName          string  `json:"guestName"`
	CheckIn            string  `json:"checkIn"`
	CheckOut           string  `json:"checkOut"`
	GuestEmail         *string `json:"guestEmail"`
	GuestPhone         *string `json:"guestPhone"`
	GuestCount         *int    `json:"guestCount"`
	ConfirmationNumber *string `json:"confirmationNumber"`
	Notes              *string `json:"notes"`
	CheckedIn          bool    `json:"checkedIn"`
	CheckedOut         bool    `json:"checkedOut"`
	CheckInTime        *string `json:"checkInTime"`
	CheckOutTime       *string `json:"checkOutTime"`
}

// RoomNumber decodes a room number written either as a JSON string or as a
// bare JSON number.
type RoomNumber string

func (n *RoomNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return errors.New("room number must not be null")
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = RoomNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("room number must be a string or number: %w", err)
	}
	*n = RoomNumber(num.String())
	return nil
}

// timestampLayouts are tried in order when reading check-in and check-out
// times; the first one is also the write format.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (r Room) Record() RoomRecord {
	amenities := r.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return RoomRecord{
		Number:    RoomNumber(r.Number),
		Price:     r.Price,
		IsBooked:  r.IsBooked,
		BookedBy:  cloneString(r.BookedBy),
		Type:      string(r.Type),
		Status:    string(r.Status),
		Amenities: append([]string{}, amenities...),
		Notes:     cloneString(r.Notes),
	}
}

// RoomFromRecord rebuilds a room. Unknown or missing type tags fall back to
// DefaultRoomType; a missing status means available.
func RoomFromRecord(rec RoomRecord) Room {
	tag := rec.Type
	if tag == "" {
		tag = rec.ConstructorName
	}
	t, ok := ParseRoomType(tag)
	if !ok {
		t = DefaultRoomType
	}
	status := RoomStatus(rec.Status)
	if status == "" {
		status = RoomAvailable
	}
	amenities := append([]string{}, rec.Amenities...)
	return Room{
		Number:    string(rec.Number),
		Price:     rec.Price,
		Type:      t,
		IsBooked:  rec.IsBooked,
		BookedBy:  cloneString(rec.BookedBy),
		Status:    status,
		Amenities: amenities,
		Notes:     cloneString(rec.Notes),
	}
}

func (b Booking) Record() BookingRecord {
	count := b.GuestCount
	return BookingRecord{
		GuestName:          b.GuestName,
		CheckIn:            b.CheckIn,
		CheckOut:           b.CheckOut,
		GuestEmail:         cloneString(b.GuestEmail),
		GuestPhone:         cloneString(b.GuestPhone),
		GuestCount:         &count,
		ConfirmationNumber: cloneString(b.ConfirmationNumber),
		Notes:              cloneString(b.Notes),
		CheckedIn:          b.CheckedIn,
		CheckedOut:         b.CheckedOut,
		CheckInTime:        formatTimestamp(b.CheckInTime),
		CheckOutTime:       formatTimestamp(b.CheckOutTime),
	}
}

// BookingFromRecord rebuilds a booking. A missing guestCount means one guest.
func BookingFromRecord(rec BookingRecord) (Booking, error) {
	in, err := parseTimestamp(rec.CheckInTime)
	if err != nil {
		return Booking{}, validation("checkInTime: %v", err)
	}
	out, err := parseTimestamp(rec.CheckOutTime)
	if err != nil {
		return Booking{}, validation("checkOutTime: %v", err)
	}
	count := 1
	if rec.GuestCount != nil {
		count = *rec.GuestCount
	}
	return Booking{
		GuestName:          rec.GuestName,
		CheckIn:            rec.CheckIn,
		CheckOut:           rec.CheckOut,
		GuestEmail:         cloneString(rec.GuestEmail),
		GuestPhone:         cloneString(rec.GuestPhone),
		GuestCount:         count,
		ConfirmationNumber: cloneString(rec.ConfirmationNumber),
		Notes:              cloneString(rec.Notes),
		CheckedIn:          rec.CheckedIn,
		CheckedOut:         rec.CheckedOut,
		CheckInTime:        in,
		CheckOutTime:       out,
	}, nil
}

// Record serializes the full aggregate.
func (h *Hotel) Record() HotelRecord {
	rec := HotelRecord{
		Rooms:    make([]RoomRecord, 0, len(h.rooms)),
		Bookings: make(map[string]BookingRecord, len(h.bookings)),
	}
	for _, r := range h.rooms {
		rec.Rooms = append(rec.Rooms, r.Record())
	}
	for number, b := range h.bookings {
		rec.Bookings[number] = b.Record()
	}
	return rec
}

// HotelFromRecord rehydrates rooms and then bookings exactly as stored.
// The room flags are not trusted: callers run Reconcile afterwards.
func HotelFromRecord(rec HotelRecord) (*Hotel, error) {
	h := NewHotel()
	for _, rr := range rec.Rooms {
		room := RoomFromRecord(rr)
		if strings.TrimSpace(room.Number) == "" {
			return nil, validation("stored room has a blank number")
		}
		if h.find(room.Number) != nil {
			return nil, fmt.Errorf("%w: room %s is stored twice", ErrConflict, room.Number)
		}
		h.rooms = append(h.rooms, &room)
	}
	for number, br := range rec.Bookings {
		b, err := BookingFromRecord(br)
		if err != nil {
			return nil, fmt.Errorf("booking for room %s: %w", number, err)
		}
		h.bookings[number] = &b
	}
	return h, nil
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timestampLayouts[0])
	return &s
}

func parseTimestamp(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised timestamp %q", *s)
}
