package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format of check-in and check-out.
const DateLayout = "2006-01-02"

type Booking struct {
	GuestName          string
	CheckIn            string
	CheckOut           string
	GuestEmail         *string
	GuestPhone         *string
	GuestCount         int
	ConfirmationNumber *string
	Notes              *string
	CheckedIn          bool
	CheckedOut         bool
	CheckInTime        *time.Time
	CheckOutTime       *time.Time
}

// NewBooking returns a booking for one guest with no contact details.
func NewBooking(guestName, checkIn, checkOut string) Booking {
	return Booking{
		GuestName:  guestName,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: 1,
	}
}

// Nights is the number of nights between check-in and check-out.
func (b Booking) Nights() (int, error) {
	in, out, err := b.stayDates()
	if err != nil {
		return 0, err
	}
	return int(out.Sub(in).Hours() / 24), nil
}

func (b Booking) stayDates() (time.Time, time.Time, error) {
	in, err := time.Parse(DateLayout, b.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, validation("checkIn %q is not a YYYY-MM-DD date", b.CheckIn)
	}
	out, err := time.Parse(DateLayout, b.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, validation("checkOut %q is not a YYYY-MM-DD date", b.CheckOut)
	}
	return in, out, nil
}

// validate checks a booking before it enters the hotel. Stored bookings are
// never re-validated on load.
func (b Booking) validate() error {
	if strings.TrimSpace(b.GuestName) == "" {
		return validation("guestName is required")
	}
	in, out, err := b.stayDates()
	if err != nil {
		return err
	}
	if !out.After(in) {
		return validation("checkOut %s must be after checkIn %s", b.CheckOut, b.CheckIn)
	}
	if b.GuestCount < 1 {
		return validation("guestCount must be at least 1, got %d", b.GuestCount)
	}
	return nil
}

func (b Booking) clone() Booking {
	c := b
	c.GuestEmail = cloneString(b.GuestEmail)
	c.GuestPhone = cloneString(b.GuestPhone)
	c.ConfirmationNumber = cloneString(b.ConfirmationNumber)
	c.Notes = cloneString(b.Notes)
	c.CheckInTime = cloneTime(b.CheckInTime)
	c.CheckOutTime = cloneTime(b.CheckOutTime)
	return c
}

// BookingPatch holds the fields ModifyBooking replaces. Nil fields are left
// untouched; an empty string clears an optional contact or notes field.
type BookingPatch struct {
	GuestName  *string
	CheckIn    *string
	CheckOut   *string
	GuestEmail *string
	GuestPhone *string
	GuestCount *int
	Notes      *string
}

func (p BookingPatch) IsEmpty() bool {
	return p == BookingPatch{}
}

func (p BookingPatch) apply(b Booking) Booking {
	if p.GuestName != nil {
		b.GuestName = strings.TrimSpace(*p.GuestName)
	}
	if p.CheckIn != nil {
		b.CheckIn = *p.CheckIn
	}
	if p.CheckOut != nil {
		b.CheckOut = *p.CheckOut
	}
	if p.GuestEmail != nil {
		b.GuestEmail = optionalString(*p.GuestEmail)
	}
	if p.GuestPhone != nil {
		b.GuestPhone = optionalString(*p.GuestPhone)
	}
	if p.GuestCount != nil {
		b.GuestCount = *p.GuestCount
	}
	if p.Notes != nil {
		b.Notes = optionalString(*p.Notes)
	}
	return b
}

func (p BookingPatch) validate(next Booking) error {
	if p.GuestName != nil && next.GuestName == "" {
		return validation("guestName is required")
	}
	if p.CheckIn != nil || p.CheckOut != nil {
		in, out, err := next.stayDates()
		if err != nil {
			return err
		}
		if !out.After(in) {
			return validation("checkOut %s must be after checkIn %s", next.CheckOut, next.CheckIn)
		}
	}
	if p.GuestCount != nil && next.GuestCount < 1 {
		return validation("guestCount must be at least 1, got %d", next.GuestCount)
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
