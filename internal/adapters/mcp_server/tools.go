package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"hotel_concierge/internal/adapters/observability"
	"hotel_concierge/internal/app"
	"hotel_concierge/internal/domain"
)

/********** check_availability **********/

// AvailabilityInput is the check_availability tool input.
type AvailabilityInput struct {
	CheckInDate  string `json:"check_in_date" jsonschema:"check-in date (YYYY-MM-DD)"`
	CheckOutDate string `json:"check_out_date" jsonschema:"check-out date (YYYY-MM-DD), strictly after check-in"`
	RoomType     string `json:"room_type,omitempty" jsonschema:"optional room type filter (standard, deluxe, suite, family)"`
}

// AvailableRoomResult is one free room.
type AvailableRoomResult struct {
	RoomNumber   string   `json:"room_number" jsonschema:"room number"`
	Floor        int      `json:"floor" jsonschema:"floor of the room"`
	RoomType     string   `json:"room_type" jsonschema:"room type identifier"`
	RoomTypeName string   `json:"room_type_name" jsonschema:"room type display name"`
	NightlyRate  float64  `json:"nightly_rate" jsonschema:"rate per night"`
	StayTotal    float64  `json:"stay_total" jsonschema:"rate multiplied by the number of nights"`
	MaxOccupancy int      `json:"max_occupancy" jsonschema:"maximum number of guests"`
	Amenities    []string `json:"amenities" jsonschema:"room amenities"`
}

// RoomTypeAvailabilityResult groups free rooms of one type.
type RoomTypeAvailabilityResult struct {
	RoomType     string   `json:"room_type" jsonschema:"room type identifier"`
	Name         string   `json:"name" jsonschema:"room type display name"`
	Count        int      `json:"count" jsonschema:"number of free rooms"`
	RoomNumbers  []string `json:"room_numbers" jsonschema:"free room numbers in booking order"`
	NightlyRate  float64  `json:"nightly_rate" jsonschema:"rate per night"`
	StayTotal    float64  `json:"stay_total" jsonschema:"rate multiplied by the number of nights"`
	MaxOccupancy int      `json:"max_occupancy" jsonschema:"maximum number of guests"`
	Amenities    []string `json:"amenities" jsonschema:"room amenities"`
}

// AvailabilityResult is the check_availability tool output.
type AvailabilityResult struct {
	CheckInDate  string                       `json:"check_in_date" jsonschema:"check-in date"`
	CheckOutDate string                       `json:"check_out_date" jsonschema:"check-out date"`
	Nights       int                          `json:"nights" jsonschema:"number of nights"`
	Rooms        []AvailableRoomResult        `json:"rooms" jsonschema:"free rooms ordered by nightly rate, then room number"`
	ByType       []RoomTypeAvailabilityResult `json:"by_type" jsonschema:"free rooms grouped by room type"`
}

func CheckAvailabilityTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "check_availability",
		Description: "Check room availability for given dates. Returns the free rooms with rates, occupancy and amenities.",
	}
}

func CheckAvailabilityHandler(q *app.QueryService) mcp.ToolHandlerFor[AvailabilityInput, AvailabilityResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AvailabilityInput) (*mcp.CallToolResult, AvailabilityResult, error) {
		a, err := q.CheckAvailability(ctx, input.CheckInDate, input.CheckOutDate, input.RoomType)
		if err != nil {
			return nil, AvailabilityResult{}, err
		}
		return textResult(formatAvailability(a)), toAvailabilityResult(a), nil
	}
}

/********** make_reservation **********/

// MakeReservationInput is the make_reservation tool input.
type MakeReservationInput struct {
	GuestName       string `json:"guest_name" jsonschema:"full name of the guest"`
	GuestEmail      string `json:"guest_email,omitempty" jsonschema:"guest email address"`
	GuestPhone      string `json:"guest_phone,omitempty" jsonschema:"guest phone number"`
	RoomType        string `json:"room_type,omitempty" jsonschema:"room type (standard, deluxe, suite, family); required unless room_number is given"`
	RoomNumber      string `json:"room_number,omitempty" jsonschema:"specific room number to book"`
	CheckInDate     string `json:"check_in_date" jsonschema:"check-in date (YYYY-MM-DD)"`
	CheckOutDate    string `json:"check_out_date" jsonschema:"check-out date (YYYY-MM-DD)"`
	NumGuests       int    `json:"num_guests,omitempty" jsonschema:"number of guests (default 1)"`
	SpecialRequests string `json:"special_requests,omitempty" jsonschema:"any special requests or notes"`
}

// ReservationResult is the reservation record returned by the reservation tools.
type ReservationResult struct {
	ConfirmationNumber string  `json:"confirmation_number" jsonschema:"reservation confirmation number"`
	Status             string  `json:"status" jsonschema:"reservation status (confirmed, checked_in, checked_out, cancelled)"`
	GuestName          string  `json:"guest_name" jsonschema:"guest name"`
	GuestEmail         string  `json:"guest_email,omitempty" jsonschema:"guest email address"`
	GuestPhone         string  `json:"guest_phone,omitempty" jsonschema:"guest phone number"`
	RoomNumber         string  `json:"room_number" jsonschema:"assigned room number"`
	RoomType           string  `json:"room_type" jsonschema:"room type identifier"`
	RoomTypeName       string  `json:"room_type_name" jsonschema:"room type display name"`
	CheckInDate        string  `json:"check_in_date" jsonschema:"check-in date"`
	CheckOutDate       string  `json:"check_out_date" jsonschema:"check-out date"`
	Nights             int     `json:"nights" jsonschema:"number of nights"`
	NumGuests          int     `json:"num_guests" jsonschema:"number of guests"`
	TotalAmount        float64 `json:"total_amount" jsonschema:"total price of the stay"`
	SpecialRequests    string  `json:"special_requests,omitempty" jsonschema:"special requests or notes"`
	CreatedAt          string  `json:"created_at" jsonschema:"RFC3339 timestamp when the reservation was made"`
}

func MakeReservationTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "make_reservation",
		Description: "Make a room reservation. Assigns the lowest-numbered free room of the requested type and returns the confirmation number.",
	}
}

func MakeReservationHandler(res *app.ReservationService) mcp.ToolHandlerFor[MakeReservationInput, ReservationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MakeReservationInput) (*mcp.CallToolResult, ReservationResult, error) {
		guests := input.NumGuests
		if guests == 0 {
			guests = 1
		}
		r, err := res.Create(ctx, app.NewReservation{
			GuestName:       input.GuestName,
			GuestEmail:      input.GuestEmail,
			GuestPhone:      input.GuestPhone,
			RoomTypeID:      input.RoomType,
			RoomNumber:      input.RoomNumber,
			CheckIn:         input.CheckInDate,
			CheckOut:        input.CheckOutDate,
			Guests:          guests,
			SpecialRequests: input.SpecialRequests,
		})
		if err != nil {
			if domain.IsClientError(err) {
				observability.ObserveReservation("rejected")
			}
			return nil, ReservationResult{}, err
		}
		observability.ObserveReservation("created")
		return textResult(formatConfirmed(r)), toReservationResult(r), nil
	}
}

/********** get_reservation / cancel_reservation **********/

// ConfirmationInput names a reservation by its confirmation number.
type ConfirmationInput struct {
	ConfirmationNumber string `json:"confirmation_number" jsonschema:"the reservation confirmation number"`
}

func GetReservationTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_reservation",
		Description: "Look up a reservation by confirmation number.",
	}
}

func GetReservationHandler(res *app.ReservationService) mcp.ToolHandlerFor[ConfirmationInput, ReservationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConfirmationInput) (*mcp.CallToolResult, ReservationResult, error) {
		r, err := res.Get(ctx, input.ConfirmationNumber)
		if err != nil {
			return nil, ReservationResult{}, err
		}
		return textResult(formatReservation(r)), toReservationResult(r), nil
	}
}

func CancelReservationTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "cancel_reservation",
		Description: "Cancel a confirmed reservation. Reservations that are checked in, checked out or already cancelled cannot be cancelled.",
	}
}

func CancelReservationHandler(res *app.ReservationService) mcp.ToolHandlerFor[ConfirmationInput, ReservationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConfirmationInput) (*mcp.CallToolResult, ReservationResult, error) {
		r, err := res.Cancel(ctx, input.ConfirmationNumber)
		if err != nil {
			return nil, ReservationResult{}, err
		}
		observability.ObserveReservation("cancelled")
		return textResult(formatCancelled(r)), toReservationResult(r), nil
	}
}

/********** submit_service_request **********/

// ServiceRequestInput is the submit_service_request tool input.
type ServiceRequestInput struct {
	ConfirmationNumber string `json:"confirmation_number,omitempty" jsonschema:"confirmation number of an active reservation"`
	RoomNumber         string `json:"room_number,omitempty" jsonschema:"room number, when no confirmation number is known"`
	RequestType        string `json:"request_type" jsonschema:"type of request (room_service, housekeeping, maintenance, concierge)"`
	Description        string `json:"description" jsonschema:"description of the request"`
}

// ServiceRequestResult is the logged service request.
type ServiceRequestResult struct {
	RequestID          int64  `json:"request_id" jsonschema:"service request identifier"`
	ConfirmationNumber string `json:"confirmation_number,omitempty" jsonschema:"reservation the request belongs to"`
	RoomNumber         string `json:"room_number,omitempty" jsonschema:"room the request is for"`
	RequestType        string `json:"request_type" jsonschema:"type of request"`
	Description        string `json:"description" jsonschema:"description of the request"`
	Status             string `json:"status" jsonschema:"request status (pending, in_progress, completed)"`
	CreatedAt          string `json:"created_at" jsonschema:"RFC3339 timestamp when the request was logged"`
}

func SubmitServiceRequestTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "submit_service_request",
		Description: "Submit a service request for a guest, by confirmation number of an active reservation or by room number.",
	}
}

func SubmitServiceRequestHandler(srs *app.ServiceRequestService) mcp.ToolHandlerFor[ServiceRequestInput, ServiceRequestResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ServiceRequestInput) (*mcp.CallToolResult, ServiceRequestResult, error) {
		sr, err := srs.Submit(ctx, app.NewServiceRequest{
			ConfirmationCode: input.ConfirmationNumber,
			RoomNumber:       input.RoomNumber,
			Category:         input.RequestType,
			Description:      input.Description,
		})
		if err != nil {
			return nil, ServiceRequestResult{}, err
		}
		return textResult(formatServiceRequest(sr)), toServiceRequestResult(sr), nil
	}
}

/********** get_hotel_info **********/

// HotelInfoInput is the get_hotel_info tool input.
type HotelInfoInput struct {
	Topic string `json:"topic,omitempty" jsonschema:"specific topic (check_in_time, check_out_time, parking, wifi, pool, fitness, spa, restaurant, room_service, cancellation_policy, local_attractions); omit for the general overview"`
}

// AttractionResult is one local attraction.
type AttractionResult struct {
	Name        string `json:"name" jsonschema:"attraction name"`
	Distance    string `json:"distance" jsonschema:"distance from the hotel"`
	Description string `json:"description" jsonschema:"short description"`
}

// OverviewResult is the general hotel summary.
type OverviewResult struct {
	Name         string   `json:"name" jsonschema:"hotel name"`
	Address      string   `json:"address" jsonschema:"street address"`
	Phone        string   `json:"phone" jsonschema:"front desk phone"`
	Email        string   `json:"email" jsonschema:"contact email"`
	CheckInTime  string   `json:"check_in_time" jsonschema:"check-in time"`
	CheckOutTime string   `json:"check_out_time" jsonschema:"check-out time"`
	Amenities    []string `json:"amenities" jsonschema:"amenity summaries"`
	Dining       []string `json:"dining" jsonschema:"dining summaries"`
	Parking      string   `json:"parking" jsonschema:"parking summary"`
	Topics       []string `json:"topics" jsonschema:"every topic that can be asked for"`
}

// HotelInfoResult carries exactly one of text, attractions or overview.
type HotelInfoResult struct {
	Topic       string             `json:"topic,omitempty" jsonschema:"normalized topic key"`
	Text        string             `json:"text,omitempty" jsonschema:"information text for the topic"`
	Attractions []AttractionResult `json:"attractions,omitempty" jsonschema:"local attractions, for the local_attractions topic"`
	Overview    *OverviewResult    `json:"overview,omitempty" jsonschema:"general overview, when no topic is given"`
}

func GetHotelInfoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_hotel_info",
		Description: "Get information about the hotel: one topic, or a general overview when no topic is given.",
	}
}

func GetHotelInfoHandler(q *app.QueryService) mcp.ToolHandlerFor[HotelInfoInput, HotelInfoResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input HotelInfoInput) (*mcp.CallToolResult, HotelInfoResult, error) {
		topic := app.NormalizeTopic(input.Topic)
		switch topic {
		case "":
			o, err := q.Overview(ctx)
			if err != nil {
				return nil, HotelInfoResult{}, err
			}
			out := toOverviewResult(o)
			return textResult(formatOverview(o)), HotelInfoResult{Overview: &out}, nil
		case domain.TopicLocalAttractions:
			as, err := q.Attractions(ctx)
			if err != nil {
				return nil, HotelInfoResult{}, err
			}
			return textResult(formatAttractions(topic, as)), HotelInfoResult{Topic: topic, Attractions: toAttractionResults(as)}, nil
		default:
			e, err := q.GetInfo(ctx, topic)
			if err != nil {
				return nil, HotelInfoResult{}, err
			}
			return textResult(formatTopic(e)), HotelInfoResult{Topic: e.Topic, Text: e.Body}, nil
		}
	}
}

/********** get_room_types **********/

// RoomTypesInput is empty; get_room_types takes no arguments.
type RoomTypesInput struct{}

// RoomTypeResult is one room type with its rate.
type RoomTypeResult struct {
	ID           string   `json:"id" jsonschema:"room type identifier"`
	Name         string   `json:"name" jsonschema:"display name"`
	Description  string   `json:"description" jsonschema:"description"`
	NightlyRate  float64  `json:"nightly_rate" jsonschema:"rate per night"`
	MaxOccupancy int      `json:"max_occupancy" jsonschema:"maximum number of guests"`
	Amenities    []string `json:"amenities" jsonschema:"amenities"`
}

// RoomTypesResult lists room types by nightly rate.
type RoomTypesResult struct {
	RoomTypes []RoomTypeResult `json:"room_types" jsonschema:"room types ordered by nightly rate"`
}

func GetRoomTypesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_room_types",
		Description: "Get information about all room types and rates.",
	}
}

func GetRoomTypesHandler(q *app.QueryService) mcp.ToolHandlerFor[RoomTypesInput, RoomTypesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ RoomTypesInput) (*mcp.CallToolResult, RoomTypesResult, error) {
		types, err := q.ListRoomTypes(ctx)
		if err != nil {
			return nil, RoomTypesResult{}, err
		}
		hotel := ""
		if e, err := q.GetInfo(ctx, domain.TopicName); err == nil {
			hotel = e.Body
		}
		return textResult(formatRoomTypes(hotel, types)), RoomTypesResult{RoomTypes: toRoomTypeResults(types)}, nil
	}
}

/********** helpers **********/

func textResult(md string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: md}}}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
