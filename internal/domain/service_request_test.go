package domain_test

import (
	"errors"
	"testing"

	"hotel_concierge/internal/domain"
)

func TestParseServiceCategory(t *testing.T) {
	for _, c := range domain.ServiceCategories() {
		got, err := domain.ParseServiceCategory(" " + string(c) + " ")
		if err != nil || got != c {
			t.Fatalf("ParseServiceCategory(%s) = %q, %v", c, got, err)
		}
	}
	if _, err := domain.ParseServiceCategory("valet"); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestServiceRequestStatus_Transitions(t *testing.T) {
	if !domain.RequestPending.CanTransitionTo(domain.RequestInProgress) {
		t.Fatalf("pending -> in_progress must be allowed")
	}
	if !domain.RequestInProgress.CanTransitionTo(domain.RequestCompleted) {
		t.Fatalf("in_progress -> completed must be allowed")
	}
	if domain.RequestCompleted.CanTransitionTo(domain.RequestPending) {
		t.Fatalf("completed is terminal")
	}
	if domain.RequestInProgress.CanTransitionTo(domain.RequestPending) {
		t.Fatalf("no backwards transitions")
	}
}
