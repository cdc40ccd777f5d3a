package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"hoteldesk/internal/domain"
	"hoteldesk/internal/pkg/logger"
)

// HotelRepository stores the whole hotel aggregate in one JSON file.
// Only one HotelRepository should write a given path at a time.
type HotelRepository struct {
	path   string
	logger logger.Logger

	rename func(oldpath, newpath string) error
}

func NewHotelRepository(path string, log logger.Logger) (*HotelRepository, error) {
	if path == "" {
		return nil, errors.New("hotel repository: empty file path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("hotel repository: resolve %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, &domain.PersistenceError{Op: "mkdir", Path: filepath.Dir(abs), Err: err}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &HotelRepository{
		path:   abs,
		logger: log.With("component", "hotel_repository", "path", abs),
		rename: os.Rename,
	}, nil
}

func (r *HotelRepository) Path() string { return r.path }

// Load reads the hotel from disk. A missing or empty file yields an empty
// hotel. Room booking flags are always re-derived from the bookings map.
func (r *HotelRepository) Load() (*domain.Hotel, error) {
	hotel, _, err := r.LoadWithReport()
	return hotel, err
}

// LoadWithReport is Load that also returns what reconciliation changed.
func (r *HotelRepository) LoadWithReport() (*domain.Hotel, domain.ReconcileReport, error) {
	var report domain.ReconcileReport
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Info("hotel file not found, starting empty")
		return domain.NewHotel(), report, nil
	}
	if err != nil {
		return nil, report, &domain.PersistenceError{Op: "read", Path: r.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.NewHotel(), report, nil
	}

	var rec domain.HotelRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, report, &domain.PersistenceError{Op: "decode", Path: r.path, Err: err}
	}
	hotel, err := domain.HotelFromRecord(rec)
	if err != nil {
		return nil, report, &domain.PersistenceError{Op: "decode", Path: r.path, Err: err}
	}

	report = hotel.Reconcile()
	if report.Changed() {
		r.logger.Warn("hotel file reconciled on load",
			"repaired_rooms", report.Repaired,
			"orphaned_bookings", report.Orphaned,
		)
	}
	r.logger.Info("hotel loaded", "rooms", len(rec.Rooms), "bookings", len(rec.Bookings))
	return hotel, report, nil
}

// Save writes the hotel atomically: the payload goes to a temporary file in
// the same directory, is synced, and then renamed over the target. On any
// failure the previous file is left in place.
func (r *HotelRepository) Save(hotel *domain.Hotel) error {
	data, err := Encode(hotel)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Path: r.path, Err: err}
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return &domain.PersistenceError{Op: "create temp", Path: dir, Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &domain.PersistenceError{Op: "write", Path: tmpPath, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &domain.PersistenceError{Op: "sync", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.PersistenceError{Op: "close", Path: tmpPath, Err: err}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return &domain.PersistenceError{Op: "chmod", Path: tmpPath, Err: err}
	}
	if err := r.rename(tmpPath, r.path); err != nil {
		r.logger.Error("hotel file rename failed, previous file kept", "error", err)
		return &domain.PersistenceError{Op: "rename", Path: r.path, Err: err}
	}
	committed = true

	syncDir(dir)
	return nil
}

// Encode renders the hotel in the persisted file format.
func Encode(hotel *domain.Hotel) ([]byte, error) {
	data, err := json.MarshalIndent(hotel.Record(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// syncDir flushes the directory entry of the rename. Not every platform
// supports fsync on directories, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
