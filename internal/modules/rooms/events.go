package rooms

// Event types published after a committed mutation.
const (
	EventRoomAdded       = "room.added"
	EventRoomUpdated     = "room.updated"
	EventRoomRemoved     = "room.removed"
	EventRoomBooked      = "room.booked"
	EventRoomUnbooked    = "room.unbooked"
	EventGuestCheckedIn  = "guest.checked_in"
	EventGuestCheckedOut = "guest.checked_out"
	EventBookingModified = "booking.modified"
	EventHotelReconciled = "hotel.reconciled"
)
