package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Hotel is the aggregate root owning the rooms and their bookings.
//
// Hotel is not safe for concurrent use; callers serialize mutations.
// Every accessor returns copies, so state only changes through Hotel methods.
type Hotel struct {
	rooms    []*Room
	bookings map[string]*Booking
}

func NewHotel() *Hotel {
	return &Hotel{bookings: make(map[string]*Booking)}
}

// RoomPatch holds the room fields UpdateRoom replaces. Nil fields are left
// untouched; an empty Notes string clears the notes.
type RoomPatch struct {
	Price     *float64
	Type      *RoomType
	Status    *RoomStatus
	Amenities *[]string
	Notes     *string
}

// ReconcileReport lists what a reconciliation pass changed.
type ReconcileReport struct {
	// Repaired holds room numbers whose isBooked/bookedBy disagreed with
	// the bookings map.
	Repaired []string
	// Orphaned holds booking keys that named no room and were dropped.
	Orphaned []string
}

func (r ReconcileReport) Changed() bool {
	return len(r.Repaired) > 0 || len(r.Orphaned) > 0
}

func (h *Hotel) AddRoom(room Room) error {
	room.Number = strings.TrimSpace(room.Number)
	if room.Number == "" {
		return validation("room number is required")
	}
	if _, ok := ParseRoomType(string(room.Type)); !ok {
		return validation("unknown room type %q", room.Type)
	}
	if room.Status == "" {
		room.Status = RoomAvailable
	}
	if _, ok := ParseRoomStatus(string(room.Status)); !ok {
		return validation("unknown room status %q", room.Status)
	}
	if err := validatePrice(room.Price); err != nil {
		return err
	}
	if h.find(room.Number) != nil {
		return fmt.Errorf("%w: room %s already exists", ErrConflict, room.Number)
	}

	r := room.clone()
	r.IsBooked = false
	r.BookedBy = nil
	h.rooms = append(h.rooms, &r)
	return nil
}

func (h *Hotel) Room(number string) (Room, bool) {
	r := h.find(number)
	if r == nil {
		return Room{}, false
	}
	return r.clone(), true
}

// Rooms returns every room in insertion order.
func (h *Hotel) Rooms() []Room {
	return h.filter(func(*Room) bool { return true })
}

func (h *Hotel) AvailableRooms() []Room {
	return h.filter(func(r *Room) bool { return r.Bookable() })
}

func (h *Hotel) BookedRooms() []Room {
	return h.filter(func(r *Room) bool { return r.IsBooked })
}

func (h *Hotel) Booking(number string) (Booking, bool) {
	b, ok := h.bookings[number]
	if !ok {
		return Booking{}, false
	}
	return b.clone(), true
}

// Bookings returns a copy of the room number to booking map.
func (h *Hotel) Bookings() map[string]Booking {
	out := make(map[string]Booking, len(h.bookings))
	for number, b := range h.bookings {
		out[number] = b.clone()
	}
	return out
}

func (h *Hotel) BookRoom(number string, booking Booking) error {
	room := h.find(number)
	if room == nil {
		return notFound("room %s not found", number)
	}
	if room.IsBooked {
		return invalidState("room %s is already booked", number)
	}
	if room.Status != RoomAvailable {
		return invalidState("room %s is not available for booking (status: %s)", number, room.Status)
	}
	booking.GuestName = strings.TrimSpace(booking.GuestName)
	if err := booking.validate(); err != nil {
		return err
	}

	b := booking.clone()
	b.CheckedIn, b.CheckedOut = false, false
	b.CheckInTime, b.CheckOutTime = nil, nil
	h.bookings[number] = &b
	room.IsBooked = true
	room.BookedBy = cloneString(&b.GuestName)
	return nil
}

// UnbookRoom releases the room. A missing booking entry is not an error.
func (h *Hotel) UnbookRoom(number string) error {
	room := h.find(number)
	if room == nil {
		return notFound("room %s not found", number)
	}
	room.IsBooked = false
	room.BookedBy = nil
	delete(h.bookings, number)
	return nil
}

// CheckIn marks the guest of a booked room as arrived at the given time.
func (h *Hotel) CheckIn(number string, at time.Time) (Booking, error) {
	b, err := h.activeBooking(number)
	if err != nil {
		return Booking{}, err
	}
	if b.CheckedIn {
		return Booking{}, invalidState("guest already checked in to room %s", number)
	}
	t := at.UTC()
	b.CheckedIn = true
	b.CheckInTime = &t
	return b.clone(), nil
}

// CheckOut marks the guest as departed and releases the room in the same
// step. The returned booking is the final record; it is no longer held by
// the hotel.
func (h *Hotel) CheckOut(number string, at time.Time) (Booking, error) {
	b, err := h.activeBooking(number)
	if err != nil {
		return Booking{}, err
	}
	if b.CheckedOut {
		return Booking{}, invalidState("guest already checked out of room %s", number)
	}
	final := b.clone()
	t := at.UTC()
	final.CheckedOut = true
	final.CheckOutTime = &t
	if err := h.UnbookRoom(number); err != nil {
		return Booking{}, err
	}
	return final, nil
}

// ModifyBooking replaces the fields present in patch. Only those fields are
// checked, so a stored booking that predates validation stays editable.
func (h *Hotel) ModifyBooking(number string, patch BookingPatch) (Booking, error) {
	b, ok := h.bookings[number]
	if !ok {
		return Booking{}, notFound("no booking for room %s", number)
	}
	next := patch.apply(b.clone())
	if err := patch.validate(next); err != nil {
		return Booking{}, err
	}
	*b = next
	if room := h.find(number); room != nil {
		room.IsBooked = true
		room.BookedBy = cloneString(&b.GuestName)
	}
	return b.clone(), nil
}

// UpdateRoom applies patch to an unbooked room. Either every field in the
// patch is applied or none is.
func (h *Hotel) UpdateRoom(number string, patch RoomPatch) (Room, error) {
	room := h.find(number)
	if room == nil {
		return Room{}, notFound("room %s not found", number)
	}
	if room.IsBooked {
		return Room{}, invalidState("room %s is booked and cannot be modified", number)
	}

	next := room.clone()
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return Room{}, err
		}
		next.Price = *patch.Price
	}
	if patch.Status != nil {
		status, ok := ParseRoomStatus(string(*patch.Status))
		if !ok {
			return Room{}, validation("unknown room status %q", *patch.Status)
		}
		next.Status = status
	}
	if patch.Amenities != nil {
		next.Amenities = slices.Clone(*patch.Amenities)
		if next.Amenities == nil {
			next.Amenities = []string{}
		}
	}
	if patch.Notes != nil {
		next.Notes = optionalString(*patch.Notes)
	}
	if patch.Type != nil {
		t, ok := ParseRoomType(string(*patch.Type))
		if !ok {
			return Room{}, validation("unknown room type %q", *patch.Type)
		}
		next = next.withType(t)
	}

	*room = next
	return room.clone(), nil
}

func (h *Hotel) RemoveRoom(number string) error {
	i := h.index(number)
	if i < 0 {
		return notFound("room %s not found", number)
	}
	if h.rooms[i].IsBooked {
		return invalidState("room %s is booked, unbook it first", number)
	}
	h.rooms = slices.Delete(h.rooms, i, i+1)
	delete(h.bookings, number)
	return nil
}

// Reconcile re-derives every room's isBooked and bookedBy from the bookings
// map, which is authoritative, and drops bookings that name no room.
func (h *Hotel) Reconcile() ReconcileReport {
	var report ReconcileReport
	for number := range h.bookings {
		if h.find(number) == nil {
			report.Orphaned = append(report.Orphaned, number)
			delete(h.bookings, number)
		}
	}
	slices.Sort(report.Orphaned)

	for _, room := range h.rooms {
		b, booked := h.bookings[room.Number]
		switch {
		case booked:
			if !room.IsBooked || room.BookedBy == nil || *room.BookedBy != b.GuestName {
				report.Repaired = append(report.Repaired, room.Number)
			}
			room.IsBooked = true
			room.BookedBy = cloneString(&b.GuestName)
		default:
			if room.IsBooked || room.BookedBy != nil {
				report.Repaired = append(report.Repaired, room.Number)
			}
			room.IsBooked = false
			room.BookedBy = nil
		}
	}
	return report
}

// Clone returns a deep copy of the hotel.
func (h *Hotel) Clone() *Hotel {
	c := &Hotel{
		rooms:    make([]*Room, 0, len(h.rooms)),
		bookings: make(map[string]*Booking, len(h.bookings)),
	}
	for _, r := range h.rooms {
		rc := r.clone()
		c.rooms = append(c.rooms, &rc)
	}
	for number, b := range h.bookings {
		bc := b.clone()
		c.bookings[number] = &bc
	}
	return c
}

func (h *Hotel) activeBooking(number string) (*Booking, error) {
	room := h.find(number)
	if room == nil {
		return nil, notFound("room %s not found", number)
	}
	if !room.IsBooked {
		return nil, invalidState("room %s is not booked", number)
	}
	b, ok := h.bookings[number]
	if !ok {
		return nil, notFound("no booking for room %s", number)
	}
	return b, nil
}

func (h *Hotel) find(number string) *Room {
	if i := h.index(number); i >= 0 {
		return h.rooms[i]
	}
	return nil
}

func (h *Hotel) index(number string) int {
	return slices.IndexFunc(h.rooms, func(r *Room) bool { return r.Number == number })
}

func (h *Hotel) filter(keep func(*Room) bool) []Room {
	out := make([]Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		if keep(r) {
			out = append(out, r.clone())
		}
	}
	return out
}
