package mcpserver

import (
	"hotel_concierge/internal/app"
	"hotel_concierge/internal/domain"
)

func toAvailabilityResult(a app.Availability) AvailabilityResult {
	out := AvailabilityResult{
		CheckInDate:  a.CheckIn,
		CheckOutDate: a.CheckOut,
		Nights:       a.Nights,
		Rooms:        make([]AvailableRoomResult, 0, len(a.Rooms)),
		ByType:       make([]RoomTypeAvailabilityResult, 0, len(a.ByType)),
	}
	for _, r := range a.Rooms {
		out.Rooms = append(out.Rooms, AvailableRoomResult{
			RoomNumber:   r.Room.Number,
			Floor:        r.Room.Floor,
			RoomType:     r.RoomType.ID,
			RoomTypeName: r.RoomType.Name,
			NightlyRate:  r.RoomType.NightlyRate,
			StayTotal:    r.RoomType.NightlyRate * float64(a.Nights),
			MaxOccupancy: r.RoomType.MaxOccupancy,
			Amenities:    strs(r.RoomType.Amenities),
		})
	}
	for _, g := range a.ByType {
		out.ByType = append(out.ByType, RoomTypeAvailabilityResult{
			RoomType:     g.RoomType.ID,
			Name:         g.RoomType.Name,
			Count:        g.Count,
			RoomNumbers:  strs(g.RoomNumbers),
			NightlyRate:  g.RoomType.NightlyRate,
			StayTotal:    g.StayTotal,
			MaxOccupancy: g.RoomType.MaxOccupancy,
			Amenities:    strs(g.RoomType.Amenities),
		})
	}
	return out
}

func toReservationResult(r domain.Reservation) ReservationResult {
	return ReservationResult{
		ConfirmationNumber: r.ConfirmationCode,
		Status:             string(r.Status),
		GuestName:          r.GuestName,
		GuestEmail:         deref(r.GuestEmail),
		GuestPhone:         deref(r.GuestPhone),
		RoomNumber:         r.RoomNumber,
		RoomType:           r.RoomTypeID,
		RoomTypeName:       r.RoomTypeName,
		CheckInDate:        r.CheckIn,
		CheckOutDate:       r.CheckOut,
		Nights:             nights(r),
		NumGuests:          r.Guests,
		TotalAmount:        r.TotalAmount,
		SpecialRequests:    deref(r.SpecialRequests),
		CreatedAt:          formatTimestamp(r.CreatedAt),
	}
}

func toServiceRequestResult(sr domain.ServiceRequest) ServiceRequestResult {
	return ServiceRequestResult{
		RequestID:          sr.ID,
		ConfirmationNumber: deref(sr.ConfirmationCode),
		RoomNumber:         deref(sr.RoomNumber),
		RequestType:        string(sr.Category),
		Description:        sr.Description,
		Status:             string(sr.Status),
		CreatedAt:          formatTimestamp(sr.CreatedAt),
	}
}

func toOverviewResult(o app.Overview) OverviewResult {
	return OverviewResult{
		Name:         o.Name,
		Address:      o.Address,
		Phone:        o.Phone,
		Email:        o.Email,
		CheckInTime:  o.CheckInTime,
		CheckOutTime: o.CheckOutTime,
		Amenities:    strs(o.Amenities),
		Dining:       strs(o.Dining),
		Parking:      o.Parking,
		Topics:       strs(o.Topics),
	}
}

func toAttractionResults(as []domain.Attraction) []AttractionResult {
	out := make([]AttractionResult, 0, len(as))
	for _, a := range as {
		out = append(out, AttractionResult{Name: a.Name, Distance: a.Distance, Description: a.Description})
	}
	return out
}

func toRoomTypeResults(types []domain.RoomType) []RoomTypeResult {
	out := make([]RoomTypeResult, 0, len(types))
	for _, rt := range types {
		out = append(out, RoomTypeResult{
			ID:           rt.ID,
			Name:         rt.Name,
			Description:  rt.Description,
			NightlyRate:  rt.NightlyRate,
			MaxOccupancy: rt.MaxOccupancy,
			Amenities:    strs(rt.Amenities),
		})
	}
	return out
}

func nights(r domain.Reservation) int {
	s, err := r.Stay()
	if err != nil {
		return 0
	}
	return s.Nights()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// strs never returns nil so structured output always carries an array.
func strs(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
