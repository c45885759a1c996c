package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDoctorClone(t *testing.T) {
	d := Doctor{ID: "d1", Slots: map[string]Slot{"10:00 AM": {Capacity: 3, Available: 1}}}
	c := d.Clone()
	c.Slots["10:00 AM"] = Slot{Capacity: 3, Available: 0}
	if d.Slots["10:00 AM"].Available != 1 {
		t.Fatal("Clone shares the slot map with the original")
	}
}

func TestDoctorAvailableSlots(t *testing.T) {
	d := Doctor{Slots: map[string]Slot{
		"9:00 AM":  {Capacity: 2, Available: 0},
		"10:00 AM": {Capacity: 2, Available: 1},
		"2:00 PM":  {Capacity: 2, Available: 2},
	}}
	if got := d.AvailableSlots(); got != 2 {
		t.Errorf("AvailableSlots = %d; want 2", got)
	}
}

func TestDoctorSlotLabels(t *testing.T) {
	d := Doctor{Slots: map[string]Slot{
		"2:00 PM":  {},
		"10:00 AM": {},
		"9:30 AM":  {},
		"evening":  {},
	}}
	want := []string{"9:30 AM", "10:00 AM", "2:00 PM", "evening"}
	if got := d.SlotLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("SlotLabels = %v; want %v", got, want)
	}
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		s    Status
		want bool
	}{
		{StatusUpcoming, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
		{Status("rescheduled"), true},
	}
	for _, tc := range tests {
		if got := tc.s.Terminal(); got != tc.want {
			t.Errorf("%s.Terminal() = %v; want %v", tc.s, got, tc.want)
		}
	}
}

func TestCredentialJSON(t *testing.T) {
	c := Credential{User: User{ID: "user_1", Email: "a@x.com", Role: RolePatient}, Secret: "pw"}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if !strings.Contains(s, `"password":"pw"`) || !strings.Contains(s, `"id":"user_1"`) {
		t.Errorf("unexpected credential JSON %s", s)
	}
	if strings.Contains(s, "hashed") {
		t.Errorf("plaintext credential should omit the hashed flag: %s", s)
	}

	b, _ = json.Marshal(c.User)
	if strings.Contains(string(b), "password") {
		t.Errorf("session JSON must not carry the secret: %s", b)
	}
}
