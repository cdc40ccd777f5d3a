package rooms

import "hoteldesk/internal/domain"

// HotelRepository persists the whole aggregate after each mutation.
type HotelRepository interface {
	Save(hotel *domain.Hotel) error
}

// EventPublisher receives committed changes. Publish must not block.
type EventPublisher interface {
	Publish(eventType, roomNo string, payload interface{})
}
