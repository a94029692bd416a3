package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_concierge/internal/adapters/observability"
	"hotel_concierge/internal/app"
	"hotel_concierge/internal/domain"
)

type Handlers struct {
	Q  *app.QueryService
	R  *app.ReservationService
	SR *app.ServiceRequestService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(s.opts.Timeout))

		r.Get("/v1/room-types", h.listRoomTypes)
		r.Get("/v1/availability", h.checkAvailability)

		r.Post("/v1/reservations", h.createReservation)
		r.Get("/v1/reservations/{code}", h.getReservation)
		r.Post("/v1/reservations/{code}/cancel", h.transition("cancelled", h.R.Cancel))
		r.Post("/v1/reservations/{code}/check-in", h.transition("checked_in", h.R.CheckIn))
		r.Post("/v1/reservations/{code}/check-out", h.transition("checked_out", h.R.CheckOut))

		r.Post("/v1/service-requests", h.submitServiceRequest)
		r.Post("/v1/service-requests/{id}/status", h.advanceServiceRequest)

		r.Get("/v1/info", h.listInfo)
		r.Get("/v1/info/{topic}", h.getInfo)
		r.Get("/v1/attractions", h.listAttractions)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrNoRoomAvailable):
		writeProblem(w, http.StatusConflict, "No Room Available", err.Error())
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		writeProblem(w, http.StatusConflict, "Invalid Status Transition", err.Error())
	case errors.Is(err, domain.ErrInvalidDateRange):
		writeProblem(w, http.StatusBadRequest, "Invalid Date Range", err.Error())
	case errors.Is(err, domain.ErrOccupancyExceeded):
		writeProblem(w, http.StatusBadRequest, "Occupancy Exceeded", err.Error())
	case errors.Is(err, domain.ErrInvalidCategory):
		writeProblem(w, http.StatusBadRequest, "Invalid Category", err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		writeProblem(w, http.StatusBadRequest, "Invalid Argument", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable serves reference data with a weak ETag and honours If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	return true
}

/********** reference data **********/

func (h *Handlers) listRoomTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Q.ListRoomTypes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, types)
}

func (h *Handlers) listInfo(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Q.ListInfo(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, entries)
}

func (h *Handlers) getInfo(w http.ResponseWriter, r *http.Request) {
	e, err := h.Q.GetInfo(r.Context(), chi.URLParam(r, "topic"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, e)
}

func (h *Handlers) listAttractions(w http.ResponseWriter, r *http.Request) {
	as, err := h.Q.Attractions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, as)
}

/********** availability + reservations **********/

func (h *Handlers) checkAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, err := h.Q.CheckAvailability(r.Context(), q.Get("check_in"), q.Get("check_out"), q.Get("room_type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type reservationRequest struct {
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone"`
	RoomType        string `json:"room_type"`
	RoomNumber      string `json:"room_number"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Guests          *int   `json:"guests"`
	SpecialRequests string `json:"special_requests"`
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var in reservationRequest
	if !decodeBody(w, r, &in) {
		return
	}
	guests := 1
	if in.Guests != nil {
		guests = *in.Guests
	}
	res, err := h.R.Create(r.Context(), app.NewReservation{
		GuestName:       in.GuestName,
		GuestEmail:      in.GuestEmail,
		GuestPhone:      in.GuestPhone,
		RoomTypeID:      in.RoomType,
		RoomNumber:      in.RoomNumber,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		Guests:          guests,
		SpecialRequests: in.SpecialRequests,
	})
	if err != nil {
		if domain.IsClientError(err) {
			observability.ObserveReservation("rejected")
		}
		writeError(w, err)
		return
	}
	observability.ObserveReservation("created")
	w.Header().Set("Location", "/v1/reservations/"+res.ConfirmationCode)
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.R.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) transition(event string, fn func(context.Context, string) (domain.Reservation, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}
		observability.ObserveReservation(event)
		writeJSON(w, http.StatusOK, res)
	}
}

/********** service requests **********/

type serviceRequestRequest struct {
	ConfirmationCode string `json:"confirmation_code"`
	RoomNumber       string `json:"room_number"`
	Category         string `json:"category"`
	Description      string `json:"description"`
}

func (h *Handlers) submitServiceRequest(w http.ResponseWriter, r *http.Request) {
	var in serviceRequestRequest
	if !decodeBody(w, r, &in) {
		return
	}
	sr, err := h.SR.Submit(r.Context(), app.NewServiceRequest{
		ConfirmationCode: in.ConfirmationCode,
		RoomNumber:       in.RoomNumber,
		Category:         in.Category,
		Description:      in.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sr)
}

func (h *Handlers) advanceServiceRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	sr, err := h.SR.Advance(r.Context(), id, in.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sr)
}
