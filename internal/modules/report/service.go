package report

import (
	"fmt"
	"math"
	"time"

	"hoteldesk/internal/domain"
)

// HotelSource hands out a private copy of the current hotel.
type HotelSource interface {
	Snapshot() *domain.Hotel
}

type Stats struct {
	TotalRooms     int     `json:"totalRooms"`
	AvailableRooms int     `json:"availableRooms"`
	BookedRooms    int     `json:"bookedRooms"`
	Revenue        float64 `json:"revenue"`
	OccupancyRate  float64 `json:"occupancyRate"`
}

type Guest struct {
	Name          string      `json:"name"`
	Email         *string     `json:"email"`
	Phone         *string     `json:"phone"`
	TotalBookings int         `json:"totalBookings"`
	Bookings      []GuestStay `json:"bookings"`
}

type GuestStay struct {
	RoomNo             string  `json:"roomNo"`
	CheckIn            string  `json:"checkIn"`
	CheckOut           string  `json:"checkOut"`
	ConfirmationNumber *string `json:"confirmationNumber"`
	CheckedIn          bool    `json:"checkedIn"`
	CheckedOut         bool    `json:"checkedOut"`
}

type NotificationType string

const (
	NotificationCheckoutToday    NotificationType = "checkout_today"
	NotificationCheckoutTomorrow NotificationType = "checkout_tomorrow"
	NotificationMaintenance      NotificationType = "maintenance"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

type Notification struct {
	Type     NotificationType `json:"type"`
	Message  string           `json:"message"`
	RoomNo   string           `json:"roomNo"`
	Priority Priority         `json:"priority"`
}

// Service derives read-only reports. It never mutates the hotel.
type Service struct {
	source HotelSource
	now    func() time.Time
}

func NewService(source HotelSource) *Service {
	return &Service{source: source, now: time.Now}
}

// Stats counts rooms and sums price times nights over the active bookings.
// Bookings with unreadable dates contribute no revenue.
func (s *Service) Stats() Stats {
	h := s.source.Snapshot()
	rooms := h.Rooms()

	st := Stats{
		TotalRooms:     len(rooms),
		AvailableRooms: len(h.AvailableRooms()),
		BookedRooms:    len(h.BookedRooms()),
	}
	for _, r := range rooms {
		b, ok := h.Booking(r.Number)
		if !ok {
			continue
		}
		nights, err := b.Nights()
		if err != nil {
			continue
		}
		st.Revenue += r.Price * float64(nights)
	}
	if st.TotalRooms > 0 {
		rate := float64(st.BookedRooms) / float64(st.TotalRooms) * 100
		st.OccupancyRate = math.Round(rate*100) / 100
	}
	return st
}

// Guests groups the active bookings by guest name. Guests appear in the
// order their first room appears; contact details come from that booking.
func (s *Service) Guests() []Guest {
	h := s.source.Snapshot()

	out := make([]Guest, 0)
	index := make(map[string]int)
	for _, r := range h.Rooms() {
		b, ok := h.Booking(r.Number)
		if !ok {
			continue
		}
		i, seen := index[b.GuestName]
		if !seen {
			i = len(out)
			index[b.GuestName] = i
			out = append(out, Guest{
				Name:     b.GuestName,
				Email:    b.GuestEmail,
				Phone:    b.GuestPhone,
				Bookings: []GuestStay{},
			})
		}
		out[i].TotalBookings++
		out[i].Bookings = append(out[i].Bookings, GuestStay{
			RoomNo:             r.Number,
			CheckIn:            b.CheckIn,
			CheckOut:           b.CheckOut,
			ConfirmationNumber: b.ConfirmationNumber,
			CheckedIn:          b.CheckedIn,
			CheckedOut:         b.CheckedOut,
		})
	}
	return out
}

// Notifications lists checkouts due today or tomorrow, then rooms under
// maintenance. "Today" is the local calendar date of the service clock.
func (s *Service) Notifications() []Notification {
	h := s.source.Snapshot()
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]Notification, 0)
	rooms := h.Rooms()
	for _, r := range rooms {
		b, ok := h.Booking(r.Number)
		if !ok {
			continue
		}
		checkOut, err := time.Parse(domain.DateLayout, b.CheckOut)
		if err != nil {
			continue
		}
		switch int(checkOut.Sub(today).Hours() / 24) {
		case 0:
			if !b.CheckedOut {
				out = append(out, Notification{
					Type:     NotificationCheckoutToday,
					Message:  fmt.Sprintf("Room %s checkout today - Guest: %s", r.Number, b.GuestName),
					RoomNo:   r.Number,
					Priority: PriorityHigh,
				})
			}
		case 1:
			out = append(out, Notification{
				Type:     NotificationCheckoutTomorrow,
				Message:  fmt.Sprintf("Room %s checkout tomorrow - Guest: %s", r.Number, b.GuestName),
				RoomNo:   r.Number,
				Priority: PriorityMedium,
			})
		}
	}
	for _, r := range rooms {
		if r.Status == domain.RoomMaintenance {
			out = append(out, Notification{
				Type:     NotificationMaintenance,
				Message:  fmt.Sprintf("Room %s is under maintenance", r.Number),
				RoomNo:   r.Number,
				Priority: PriorityMedium,
			})
		}
	}
	return out
}
