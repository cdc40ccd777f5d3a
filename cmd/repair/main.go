package main

import (
	"log"

	"hoteldesk/internal/config"
	"hoteldesk/internal/pkg/logger"
	"hoteldesk/internal/repository"
)

// repair loads the hotel file, which reconciles room flags against the
// bookings map, and writes the result back atomically.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	repo, err := repository.NewHotelRepository(cfg.DataFile, zl)
	if err != nil {
		zl.Fatal("open hotel file", "error", err)
	}

	hotel, report, err := repo.LoadWithReport()
	if err != nil {
		zl.Fatal("load hotel file", "error", err)
	}
	if err := repo.Save(hotel); err != nil {
		zl.Fatal("save hotel file", "error", err)
	}

	zl.Info("repair completed",
		"data_file", repo.Path(),
		"rooms", len(hotel.Rooms()),
		"bookings", len(hotel.Bookings()),
		"repaired_rooms", report.Repaired,
		"orphaned_bookings", report.Orphaned,
	)
}
