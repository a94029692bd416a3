package domain

import (
	"fmt"
	"strings"
	"time"
)

type ServiceCategory string

const (
	CategoryRoomService  ServiceCategory = "room_service"
	CategoryHousekeeping ServiceCategory = "housekeeping"
	CategoryMaintenance  ServiceCategory = "maintenance"
	CategoryConcierge    ServiceCategory = "concierge"
)

// ServiceCategories in display order.
func ServiceCategories() []ServiceCategory {
	return []ServiceCategory{CategoryRoomService, CategoryHousekeeping, CategoryMaintenance, CategoryConcierge}
}

func ParseServiceCategory(s string) (ServiceCategory, error) {
	c := ServiceCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ServiceCategories() {
		if c == known {
			return c, nil
		}
	}
	names := make([]string, 0, 4)
	for _, known := range ServiceCategories() {
		names = append(names, string(known))
	}
	return "", fmt.Errorf("%w: %q, choose from: %s", ErrInvalidCategory, s, strings.Join(names, ", "))
}

type ServiceRequestStatus string

const (
	RequestPending    ServiceRequestStatus = "pending"
	RequestInProgress ServiceRequestStatus = "in_progress"
	RequestCompleted  ServiceRequestStatus = "completed"
)

func (s ServiceRequestStatus) CanTransitionTo(next ServiceRequestStatus) bool {
	switch s {
	case RequestPending:
		return next == RequestInProgress || next == RequestCompleted
	case RequestInProgress:
		return next == RequestCompleted
	}
	return false
}

func ParseServiceRequestStatus(s string) (ServiceRequestStatus, error) {
	switch st := ServiceRequestStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case RequestPending, RequestInProgress, RequestCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown service request status %q", ErrInvalidArgument, s)
}

// ServiceRequest targets a reservation, a room, or both.
type ServiceRequest struct {
	ID               int64                `json:"id"`
	ConfirmationCode *string              `json:"confirmation_code,omitempty"`
	RoomNumber       *string              `json:"room_number,omitempty"`
	Category         ServiceCategory      `json:"category"`
	Description      string               `json:"description"`
	Status           ServiceRequestStatus `json:"status"`
	CreatedAt        time.Time            `json:"created_at"`
	CompletedAt      *time.Time           `json:"completed_at,omitempty"`
}
