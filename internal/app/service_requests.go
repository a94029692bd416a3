package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_concierge/internal/domain"
)

// NewServiceRequest targets an active reservation by confirmation code or a room by number.
type NewServiceRequest struct {
	ConfirmationCode string
	RoomNumber       string
	Category         string
	Description      string
}

type ServiceRequestService struct {
	repo domain.BookingRepository
	now  func() time.Time
}

func NewServiceRequestService(r domain.BookingRepository, opts ...Option) *ServiceRequestService {
	return &ServiceRequestService{repo: r, now: buildOptions(opts).now}
}

func (s *ServiceRequestService) Submit(ctx context.Context, in NewServiceRequest) (domain.ServiceRequest, error) {
	category, err := domain.ParseServiceCategory(in.Category)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return domain.ServiceRequest{}, fmt.Errorf("%w: description is required", domain.ErrInvalidArgument)
	}
	code := domain.NormalizeConfirmationCode(in.ConfirmationCode)
	room := strings.TrimSpace(in.RoomNumber)
	if code == "" && room == "" {
		return domain.ServiceRequest{}, fmt.Errorf("%w: a confirmation code or room number is required", domain.ErrInvalidArgument)
	}

	var out domain.ServiceRequest
	err = s.repo.InTx(ctx, func(tx domain.BookingTx) error {
		sr := domain.ServiceRequest{
			Category:    category,
			Description: desc,
			Status:      domain.RequestPending,
			CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
		}

		if code != "" {
			r, err := tx.GetReservation(ctx, code)
			if err != nil {
				return err
			}
			if !r.Status.Occupying() {
				return fmt.Errorf("%w: no active reservation found for confirmation code %s", domain.ErrNotFound, code)
			}
			if room != "" && room != r.RoomNumber {
				return fmt.Errorf("%w: reservation %s is for room %s, not %s", domain.ErrInvalidArgument, code, r.RoomNumber, room)
			}
			sr.ConfirmationCode = &code
			if r.RoomNumber != "" {
				n := r.RoomNumber
				sr.RoomNumber = &n
			}
		} else {
			rm, err := tx.GetRoom(ctx, room)
			if err != nil {
				return err
			}
			sr.RoomNumber = &rm.Number
		}

		id, err := tx.InsertServiceRequest(ctx, sr)
		if err != nil {
			return err
		}
		sr.ID = id
		out = sr
		return nil
	})
	if err != nil {
		return domain.ServiceRequest{}, err
	}

	log.Info().
		Int64("request_id", out.ID).
		Str("category", string(out.Category)).
		Msg("service request submitted")
	return out, nil
}

// Advance moves a request forward through pending -> in_progress -> completed.
func (s *ServiceRequestService) Advance(ctx context.Context, id int64, status string) (domain.ServiceRequest, error) {
	to, err := domain.ParseServiceRequestStatus(status)
	if err != nil {
		return domain.ServiceRequest{}, err
	}

	var out domain.ServiceRequest
	err = s.repo.InTx(ctx, func(tx domain.BookingTx) error {
		sr, err := tx.GetServiceRequest(ctx, id)
		if err != nil {
			return err
		}
		if !sr.Status.CanTransitionTo(to) {
			return fmt.Errorf("%w: service request %d is %s and cannot become %s", domain.ErrInvalidStatusTransition, id, sr.Status, to)
		}
		at := s.now().UTC().Truncate(time.Millisecond)
		if err := tx.UpdateServiceRequestStatus(ctx, id, sr.Status, to, at); err != nil {
			return err
		}
		sr.Status = to
		if to == domain.RequestCompleted {
			sr.CompletedAt = &at
		}
		out = sr
		return nil
	})
	return out, err
}
