package main

import (
	"flag"
	"log"
	"os"

	"hoteldesk/internal/config"
	"hoteldesk/internal/domain"
	"hoteldesk/internal/pkg/logger"
	"hoteldesk/internal/repository"
)

type seedRoom struct {
	number    string
	roomType  domain.RoomType
	price     float64
	amenities []string
}

var demoRooms = []seedRoom{
	{"101", domain.RoomStandard, 1000, []string{"wifi", "tv"}},
	{"102", domain.RoomStandard, 1000, []string{"wifi"}},
	{"103", domain.RoomStandard, 1200, []string{"wifi", "tv", "balcony"}},
	{"201", domain.RoomDouble, 1500, []string{"wifi", "tv", "minibar"}},
	{"202", domain.RoomDouble, 1500, []string{"wifi", "tv"}},
	{"203", domain.RoomDouble, 1800, []string{"wifi", "tv", "bathtub"}},
	{"301", domain.RoomSuite, 5000, []string{"wifi", "tv", "minibar", "jacuzzi"}},
	{"302", domain.RoomSuite, 6500, []string{"wifi", "tv", "minibar", "sea view"}},
}

func main() {
	force := flag.Bool("force", false, "overwrite an existing hotel file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	if _, err := os.Stat(cfg.DataFile); err == nil && !*force {
		zl.Fatal("hotel file already exists, use -force to overwrite", "data_file", cfg.DataFile)
	}

	repo, err := repository.NewHotelRepository(cfg.DataFile, zl)
	if err != nil {
		zl.Fatal("open hotel file", "error", err)
	}

	hotel, err := demoHotel()
	if err != nil {
		zl.Fatal("build demo hotel", "error", err)
	}
	if err := repo.Save(hotel); err != nil {
		zl.Fatal("save demo hotel", "error", err)
	}

	zl.Info("seed completed", "data_file", repo.Path(), "rooms", len(hotel.Rooms()))
}

func demoHotel() (*domain.Hotel, error) {
	h := domain.NewHotel()
	for _, s := range demoRooms {
		room := domain.NewRoom(s.number, s.roomType, s.price)
		room.Amenities = s.amenities
		if err := h.AddRoom(room); err != nil {
			return nil, err
		}
	}

	// One booked room and one under maintenance so every view has data.
	booking := domain.NewBooking("Demo Guest", "2024-05-01", "2024-05-03")
	booking.GuestCount = 2
	code := "DEMO0001"
	booking.ConfirmationNumber = &code
	if err := h.BookRoom("201", booking); err != nil {
		return nil, err
	}
	maintenance := domain.RoomMaintenance
	notes := "air conditioning service"
	if _, err := h.UpdateRoom("103", domain.RoomPatch{Status: &maintenance, Notes: &notes}); err != nil {
		return nil, err
	}
	return h, nil
}
