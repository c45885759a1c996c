package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/doctor-booking/internal/model"
	"github.com/iliyamo/doctor-booking/internal/repository"
)

// Sort keys accepted by Search.
const (
	SortNone   = ""
	SortRating = "rating"
	SortFee    = "fee"
)

// DoctorStore gives access to the static catalog and the persisted
// availability overlay.
type DoctorStore interface {
	Static() []model.Doctor
	Overlay(ctx context.Context) ([]model.Doctor, error)
	SaveOverlay(ctx context.Context, doctors []model.Doctor) error
}

// CatalogService is the read side of the doctor catalog. Every call reads
// the overlay from the store again, so results reflect the latest booking.
type CatalogService struct {
	doctors DoctorStore
}

func NewCatalogService(doctors DoctorStore) *CatalogService {
	return &CatalogService{doctors: doctors}
}

// List returns the static catalog with persisted availability applied.
func (s *CatalogService) List(ctx context.Context) ([]model.Doctor, error) {
	overlay, err := s.doctors.Overlay(ctx)
	if err != nil {
		return nil, fmt.Errorf("load availability: %w", err)
	}
	return mergeCatalog(s.doctors.Static(), overlay), nil
}

// Find returns one merged doctor.
func (s *CatalogService) Find(ctx context.Context, id string) (model.Doctor, error) {
	list, err := s.List(ctx)
	if err != nil {
		return model.Doctor{}, err
	}
	d, ok := findDoctor(list, id)
	if !ok {
		return model.Doctor{}, fmt.Errorf("doctor %s: %w", id, ErrNotFound)
	}
	return d, nil
}

// Search filters the merged catalog by a case-insensitive substring of name
// or specialization and, when given, an exact specialization. sortKey orders
// by rating descending or fee ascending; ties and SortNone keep catalog
// order.
func (s *CatalogService) Search(ctx context.Context, query, specialization, sortKey string) ([]model.Doctor, error) {
	switch sortKey {
	case SortNone, SortRating, SortFee:
	default:
		return nil, invalid("sort", fmt.Sprintf("unknown sort key %q", sortKey))
	}
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Doctor, 0, len(list))
	for _, d := range list {
		if q != "" && !strings.Contains(strings.ToLower(d.Name), q) &&
			!strings.Contains(strings.ToLower(d.Specialization), q) {
			continue
		}
		if specialization != "" && d.Specialization != specialization {
			continue
		}
		out = append(out, d)
	}

	switch sortKey {
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortFee:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Fee < out[j].Fee })
	}
	return out, nil
}

// Specializations returns the distinct specializations of the catalog in
// ascending order.
func (s *CatalogService) Specializations(ctx context.Context) ([]string, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, d := range list {
		if d.Specialization == "" || seen[d.Specialization] {
			continue
		}
		seen[d.Specialization] = true
		out = append(out, d.Specialization)
	}
	sort.Strings(out)
	return out, nil
}

// mergeCatalog applies overlay availability to a copy of static. Everything
// but Slot.Available comes from static; overlay values are clamped to the
// static capacity and labels the static catalog does not know are ignored.
func mergeCatalog(static, overlay []model.Doctor) []model.Doctor {
	byID := make(map[string]model.Doctor, len(overlay))
	for _, d := range overlay {
		byID[d.ID] = d
	}
	out := make([]model.Doctor, len(static))
	for i, d := range static {
		m := d.Clone()
		if ov, ok := byID[d.ID]; ok {
			for label, slot := range m.Slots {
				o, ok := ov.Slots[label]
				if !ok {
					continue
				}
				slot.Available = clamp(o.Available, 0, slot.Capacity)
				m.Slots[label] = slot
			}
		}
		out[i] = m
	}
	return out
}

func findDoctor(list []model.Doctor, id string) (model.Doctor, bool) {
	for _, d := range list {
		if d.ID == id {
			return d, true
		}
	}
	return model.Doctor{}, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ DoctorStore = (*repository.DoctorRepo)(nil)
