package rooms

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"hoteldesk/internal/domain"
	"hoteldesk/internal/pkg/logger"
	"hoteldesk/internal/pkg/metrics"
	"hoteldesk/internal/pkg/utils"
)

// Filter values for ListRooms.
const (
	FilterAll       = ""
	FilterAvailable = "available"
	FilterBooked    = "booked"
)

// RoomDetails is a room together with its active booking.
type RoomDetails struct {
	Room    domain.Room
	Booking *domain.Booking
}

// Service serializes every access to the hotel behind one mutex. A mutation
// is committed only once the repository has saved it; otherwise the
// previous state is restored and the persistence error returned.
type Service struct {
	mu      sync.Mutex
	hotel   *domain.Hotel
	repo    HotelRepository
	events  EventPublisher
	metrics *metrics.Metrics
	logger  logger.Logger

	now     func() time.Time
	newCode func() string
}

func NewService(hotel *domain.Hotel, repo HotelRepository, events EventPublisher, m *metrics.Metrics, log logger.Logger) *Service {
	if hotel == nil {
		hotel = domain.NewHotel()
	}
	if log == nil {
		log = logger.NewNop()
	}
	s := &Service{
		hotel:   hotel,
		repo:    repo,
		events:  events,
		metrics: m,
		logger:  log.With("component", "rooms_service"),
		now:     time.Now,
		newCode: utils.NewConfirmationNumber,
	}
	s.updateGauges()
	return s
}

// Snapshot returns a deep copy of the current hotel.
func (s *Service) Snapshot() *domain.Hotel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hotel.Clone()
}

func (s *Service) ListRooms(filter string) ([]RoomDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []domain.Room
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case FilterAll:
		list = s.hotel.Rooms()
	case FilterAvailable:
		list = s.hotel.AvailableRooms()
	case FilterBooked:
		list = s.hotel.BookedRooms()
	default:
		return nil, ErrUnknownFilter
	}

	out := make([]RoomDetails, 0, len(list))
	for _, r := range list {
		out = append(out, s.details(r))
	}
	return out, nil
}

func (s *Service) GetRoom(number string) (RoomDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.hotel.Room(number)
	if !ok {
		return RoomDetails{}, roomNotFound(number)
	}
	return s.details(r), nil
}

func (s *Service) AddRoom(room domain.Room) (RoomDetails, error) {
	room.Amenities = utils.NormalizeAmenities(room.Amenities)

	var out RoomDetails
	err := s.mutate("add_room", func(h *domain.Hotel) error {
		if err := h.AddRoom(room); err != nil {
			return err
		}
		r, _ := h.Room(strings.TrimSpace(room.Number))
		out = RoomDetails{Room: r}
		return nil
	}, func() {
		s.publish(EventRoomAdded, out.Room.Number, NewRoomResponse(out))
	})
	return out, err
}

func (s *Service) UpdateRoom(number string, patch domain.RoomPatch) (RoomDetails, error) {
	if patch == (domain.RoomPatch{}) {
		return RoomDetails{}, ErrEmptyPatch
	}
	if patch.Amenities != nil {
		normalized := utils.NormalizeAmenities(*patch.Amenities)
		patch.Amenities = &normalized
	}

	var out RoomDetails
	err := s.mutate("update_room", func(h *domain.Hotel) error {
		r, err := h.UpdateRoom(number, patch)
		if err != nil {
			return err
		}
		out = RoomDetails{Room: r}
		return nil
	}, func() {
		s.publish(EventRoomUpdated, number, NewRoomResponse(out))
	})
	return out, err
}

func (s *Service) RemoveRoom(number string) error {
	return s.mutate("remove_room", func(h *domain.Hotel) error {
		return h.RemoveRoom(number)
	}, func() {
		s.publish(EventRoomRemoved, number, map[string]string{"number": number})
	})
}

// BookRoom books the room and assigns a confirmation number when the
// booking has none.
func (s *Service) BookRoom(number string, booking domain.Booking) (domain.Booking, error) {
	if booking.ConfirmationNumber == nil {
		code := s.newCode()
		booking.ConfirmationNumber = &code
	}

	var out domain.Booking
	err := s.mutate("book_room", func(h *domain.Hotel) error {
		if err := h.BookRoom(number, booking); err != nil {
			return err
		}
		out, _ = h.Booking(number)
		return nil
	}, func() {
		s.publish(EventRoomBooked, number, NewBookingResponse(number, out))
	})
	return out, err
}

func (s *Service) UnbookRoom(number string) error {
	return s.mutate("unbook_room", func(h *domain.Hotel) error {
		return h.UnbookRoom(number)
	}, func() {
		s.publish(EventRoomUnbooked, number, map[string]string{"number": number})
	})
}

func (s *Service) CheckIn(number string) (domain.Booking, error) {
	var out domain.Booking
	err := s.mutate("check_in", func(h *domain.Hotel) error {
		b, err := h.CheckIn(number, s.now())
		out = b
		return err
	}, func() {
		s.publish(EventGuestCheckedIn, number, NewBookingResponse(number, out))
	})
	return out, err
}

// CheckOut records the departure and frees the room. The returned booking
// is the final record.
func (s *Service) CheckOut(number string) (domain.Booking, error) {
	var out domain.Booking
	err := s.mutate("check_out", func(h *domain.Hotel) error {
		b, err := h.CheckOut(number, s.now())
		out = b
		return err
	}, func() {
		s.publish(EventGuestCheckedOut, number, NewBookingResponse(number, out))
	})
	return out, err
}

func (s *Service) ModifyBooking(number string, patch domain.BookingPatch) (domain.Booking, error) {
	if patch.IsEmpty() {
		return domain.Booking{}, ErrEmptyPatch
	}

	var out domain.Booking
	err := s.mutate("modify_booking", func(h *domain.Hotel) error {
		b, err := h.ModifyBooking(number, patch)
		out = b
		return err
	}, func() {
		s.publish(EventBookingModified, number, NewBookingResponse(number, out))
	})
	return out, err
}

// Reconcile runs the repair pass. The hotel is saved only when the pass
// changed something.
func (s *Service) Reconcile() (domain.ReconcileReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.hotel.Clone()
	report := s.hotel.Reconcile()
	if !report.Changed() {
		s.metrics.ObserveMutation("reconcile", nil)
		return report, nil
	}

	if err := s.save(); err != nil {
		s.hotel = before
		s.metrics.ObserveMutation("reconcile", err)
		return domain.ReconcileReport{}, err
	}
	s.logger.Warn("hotel reconciled",
		"repaired_rooms", report.Repaired,
		"orphaned_bookings", report.Orphaned,
	)
	s.metrics.ObserveMutation("reconcile", nil)
	s.updateGauges()
	s.publish(EventHotelReconciled, "", NewReconcileResponse(report))
	return report, nil
}

// mutate applies fn to the live hotel and saves it. Hotel methods leave the
// aggregate untouched when they fail, so only a failed save needs the
// snapshot. onCommit runs under the lock so events leave in commit order.
func (s *Service) mutate(op string, fn func(h *domain.Hotel) error, onCommit func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.hotel.Clone()
	if err := fn(s.hotel); err != nil {
		s.metrics.ObserveMutation(op, err)
		return err
	}
	if err := s.save(); err != nil {
		s.hotel = before
		s.logger.Error("hotel save failed, mutation rolled back", "operation", op, "error", err)
		s.metrics.ObserveMutation(op, err)
		return err
	}

	s.metrics.ObserveMutation(op, nil)
	s.updateGauges()
	if onCommit != nil {
		onCommit()
	}
	return nil
}

func (s *Service) save() error {
	start := time.Now()
	err := s.repo.Save(s.hotel)
	s.metrics.ObservePersist(time.Since(start), err)
	return err
}

func (s *Service) publish(eventType, roomNo string, payload interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(eventType, roomNo, payload)
}

func (s *Service) details(r domain.Room) RoomDetails {
	d := RoomDetails{Room: r}
	if b, ok := s.hotel.Booking(r.Number); ok {
		d.Booking = &b
	}
	return d
}

func (s *Service) updateGauges() {
	s.metrics.SetRoomCounts(
		len(s.hotel.Rooms()),
		len(s.hotel.AvailableRooms()),
		len(s.hotel.BookedRooms()),
	)
}

func roomNotFound(number string) error {
	return fmt.Errorf("%w: room %s not found", domain.ErrNotFound, number)
}
