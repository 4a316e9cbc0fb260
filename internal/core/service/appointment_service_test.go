package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

type stubAppointmentRepo struct {
	items  map[string]*domain.Appointment
	nextID int
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.nextID++
	c := *a
	c.ID = fmt.Sprintf("a%d", r.nextID)
	r.items[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	out := *a
	return &out, nil
}

func (r *stubAppointmentRepo) List(_ context.Context) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0, len(r.items))
	for _, a := range r.items {
		c := *a
		out = append(out, &c)
	}
	return out, nil
}

func (r *stubAppointmentRepo) Update(_ context.Context, a *domain.Appointment) error {
	if _, ok := r.items[a.ID]; !ok {
		return domain.ErrAppointmentNotFound
	}
	c := *a
	r.items[a.ID] = &c
	return nil
}

func (r *stubAppointmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrAppointmentNotFound
	}
	delete(r.items, id)
	return nil
}

func TestAppointmentService_Create(t *testing.T) {
	svc := NewAppointmentService(&stubAppointmentRepo{items: map[string]*domain.Appointment{}}, discardLogger)

	a, err := svc.Create(context.Background(), domain.Appointment{
		Service: domain.ServiceGrooming,
		Date:    "2024-03-01",
		Time:    "09:30",
		Pet:     " Michi ",
		Owner:   "Laura",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" || a.Pet != "Michi" {
		t.Fatalf("unexpected appointment: %+v", a)
	}
}

func TestAppointmentService_Create_Validation(t *testing.T) {
	svc := NewAppointmentService(&stubAppointmentRepo{items: map[string]*domain.Appointment{}}, discardLogger)

	cases := []struct {
		name string
		in   domain.Appointment
		want error
	}{
		{"missing pet", domain.Appointment{Service: domain.ServiceVeterinary, Date: "2024-03-01", Time: "09:30"}, domain.ErrMissingFields},
		{"bad service", domain.Appointment{Service: "spa", Date: "2024-03-01", Time: "09:30", Pet: "x"}, domain.ErrInvalidInput},
		{"bad date", domain.Appointment{Service: domain.ServiceVeterinary, Date: "01/03/2024", Time: "09:30", Pet: "x"}, domain.ErrInvalidInput},
		{"bad time", domain.Appointment{Service: domain.ServiceVeterinary, Date: "2024-03-01", Time: "9.30", Pet: "x"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestAppointmentService_UpdateUnknown(t *testing.T) {
	svc := NewAppointmentService(&stubAppointmentRepo{items: map[string]*domain.Appointment{}}, discardLogger)

	_, err := svc.Update(context.Background(), domain.Appointment{ID: "nope", Service: domain.ServiceVeterinary, Date: "2024-03-01", Time: "10:00", Pet: "x"})
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}
