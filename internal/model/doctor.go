package model

import (
	"sort"
	"time"
)

// Slot is the inventory of one bookable time label for a doctor.
// 0 <= Available <= Capacity holds after every mutation.
type Slot struct {
	Capacity  int `json:"capacity"`
	Available int `json:"available"`
}

// Doctor is one catalog entry. Slots maps a label such as "10:00 AM" to its
// inventory. Everything except Slot.Available comes from the static catalog.
type Doctor struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Specialization string          `json:"specialization"`
	Fee            float64         `json:"fee"`
	Experience     string          `json:"experience"`
	Rating         float64         `json:"rating"`
	About          string          `json:"about"`
	Slots          map[string]Slot `json:"slots"`
}

// Clone returns a copy that shares no map with d.
func (d Doctor) Clone() Doctor {
	out := d
	out.Slots = make(map[string]Slot, len(d.Slots))
	for label, s := range d.Slots {
		out.Slots[label] = s
	}
	return out
}

// AvailableSlots counts the slots that can still be booked.
func (d Doctor) AvailableSlots() int {
	n := 0
	for _, s := range d.Slots {
		if s.Available > 0 {
			n++
		}
	}
	return n
}

// SlotLabels returns the slot labels in clock order. Labels that are not
// "3:04 PM" times sort after the parseable ones, alphabetically.
func (d Doctor) SlotLabels() []string {
	labels := make([]string, 0, len(d.Slots))
	for label := range d.Slots {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		ti, ei := time.Parse("3:04 PM", labels[i])
		tj, ej := time.Parse("3:04 PM", labels[j])
		switch {
		case ei == nil && ej == nil:
			if !ti.Equal(tj) {
				return ti.Before(tj)
			}
			return labels[i] < labels[j]
		case ei == nil:
			return true
		case ej == nil:
			return false
		default:
			return labels[i] < labels[j]
		}
	})
	return labels
}
