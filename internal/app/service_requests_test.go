package app_test

import (
	"context"
	"errors"
	"testing"

	"hotel_concierge/internal/app"
	"hotel_concierge/internal/domain"
)

func TestSubmit_ByConfirmationCodeRecordsRoom(t *testing.T) {
	repo := newFakeRepo()
	r, err := newReservations(repo).Create(context.Background(), deluxeStay())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	svc := app.NewServiceRequestService(repo, app.WithClock(fixedClock))

	sr, err := svc.Submit(context.Background(), app.NewServiceRequest{
		ConfirmationCode: r.ConfirmationCode,
		Category:         "Housekeeping",
		Description:      "Extra towels please",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if sr.ID == 0 || sr.Status != domain.RequestPending || sr.Category != domain.CategoryHousekeeping {
		t.Fatalf("unexpected request: %+v", sr)
	}
	if sr.RoomNumber == nil || *sr.RoomNumber != r.RoomNumber {
		t.Fatalf("expected room %s on request, got %v", r.RoomNumber, sr.RoomNumber)
	}
	if !sr.CreatedAt.Equal(fixedClock()) {
		t.Fatalf("unexpected created_at %v", sr.CreatedAt)
	}
}

func TestSubmit_ByRoomNumber(t *testing.T) {
	repo := newFakeRepo()
	svc := app.NewServiceRequestService(repo, app.WithClock(fixedClock))

	sr, err := svc.Submit(context.Background(), app.NewServiceRequest{
		RoomNumber:  "215",
		Category:    "maintenance",
		Description: "AC is rattling",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if sr.ConfirmationCode != nil || sr.RoomNumber == nil || *sr.RoomNumber != "215" {
		t.Fatalf("unexpected target: %+v", sr)
	}
}

func TestSubmit_Rejections(t *testing.T) {
	repo := newFakeRepo()
	repo.reservations = []domain.Reservation{
		{ConfirmationCode: "CONFGONE01", RoomNumber: "203", CheckIn: "2025-01-10", CheckOut: "2025-01-12", Status: domain.StatusCheckedOut},
	}
	svc := app.NewServiceRequestService(repo, app.WithClock(fixedClock))

	cases := []struct {
		name string
		in   app.NewServiceRequest
		want error
	}{
		{"bad category", app.NewServiceRequest{RoomNumber: "203", Category: "laundry", Description: "x"}, domain.ErrInvalidCategory},
		// category is checked before the target exists
		{"bad category unknown code", app.NewServiceRequest{ConfirmationCode: "CONFNOPE00", Category: "laundry", Description: "x"}, domain.ErrInvalidCategory},
		{"no description", app.NewServiceRequest{RoomNumber: "203", Category: "concierge"}, domain.ErrInvalidArgument},
		{"no target", app.NewServiceRequest{Category: "concierge", Description: "x"}, domain.ErrInvalidArgument},
		{"unknown code", app.NewServiceRequest{ConfirmationCode: "CONFNOPE00", Category: "concierge", Description: "x"}, domain.ErrNotFound},
		{"inactive reservation", app.NewServiceRequest{ConfirmationCode: "confgone01", Category: "concierge", Description: "x"}, domain.ErrNotFound},
		{"unknown room", app.NewServiceRequest{RoomNumber: "999", Category: "concierge", Description: "x"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(repo.requests) != 0 {
		t.Fatalf("rejected requests were persisted: %+v", repo.requests)
	}
}

func TestAdvance(t *testing.T) {
	repo := newFakeRepo()
	svc := app.NewServiceRequestService(repo, app.WithClock(fixedClock))
	sr, err := svc.Submit(context.Background(), app.NewServiceRequest{RoomNumber: "201", Category: "room_service", Description: "Club sandwich"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	got, err := svc.Advance(context.Background(), sr.ID, "in_progress")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if got.Status != domain.RequestInProgress || got.CompletedAt != nil {
		t.Fatalf("unexpected request: %+v", got)
	}
	if _, err := svc.Advance(context.Background(), sr.ID, "pending"); !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
	got, err = svc.Advance(context.Background(), sr.ID, "completed")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}
	if _, err := svc.Advance(context.Background(), 9999, "completed"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Advance(context.Background(), sr.ID, "archived"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
