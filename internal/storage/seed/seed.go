// Package seed holds the reference data every store is initialized with.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"hotel_concierge/internal/domain"
)

type Data struct {
	RoomTypes []domain.RoomType
	Rooms     []domain.Room
	Info      []domain.InfoEntry
}

// Writer is the slice of a store transaction the seeder needs.
type Writer interface {
	RoomTypeCount(ctx context.Context) (int, error)
	InsertRoomType(ctx context.Context, rt domain.RoomType) error
	InsertRoom(ctx context.Context, r domain.Room) error
	InsertInfo(ctx context.Context, e domain.InfoEntry) error
}

// DemoWriter inserts sample bookings.
type DemoWriter interface {
	ConfirmationCodeExists(ctx context.Context, code string) (bool, error)
	InsertReservation(ctx context.Context, r domain.Reservation) (int64, error)
}

// Apply writes d unless room types already exist. It reports whether anything was written.
// Callers run it inside one transaction so the existence check and the inserts are atomic.
func Apply(ctx context.Context, w Writer, d Data) (bool, error) {
	n, err := w.RoomTypeCount(ctx)
	if err != nil {
		return false, fmt.Errorf("count room types: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	for _, rt := range d.RoomTypes {
		if err := w.InsertRoomType(ctx, rt); err != nil {
			return false, fmt.Errorf("seed room type %s: %w", rt.ID, err)
		}
	}
	for _, r := range d.Rooms {
		if err := w.InsertRoom(ctx, r); err != nil {
			return false, fmt.Errorf("seed room %s: %w", r.Number, err)
		}
	}
	for _, e := range d.Info {
		if err := w.InsertInfo(ctx, e); err != nil {
			return false, fmt.Errorf("seed info %s: %w", e.Topic, err)
		}
	}
	return true, nil
}

// ApplyDemo inserts the sample bookings that are not present yet.
func ApplyDemo(ctx context.Context, w DemoWriter, today time.Time) (int, error) {
	inserted := 0
	for _, r := range DemoReservations(today) {
		exists, err := w.ConfirmationCodeExists(ctx, r.ConfirmationCode)
		if err != nil {
			return inserted, err
		}
		if exists {
			continue
		}
		if _, err := w.InsertReservation(ctx, r); err != nil {
			return inserted, fmt.Errorf("seed reservation %s: %w", r.ConfirmationCode, err)
		}
		inserted++
	}
	return inserted, nil
}

// Default is The Grand Azure Hotel.
func Default() Data {
	return Data{RoomTypes: roomTypes(), Rooms: rooms(), Info: info()}
}

func roomTypes() []domain.RoomType {
	return []domain.RoomType{
		{
			ID: "standard", Name: "Standard Room", NightlyRate: 149.00, MaxOccupancy: 2,
			Description: "Comfortable room with queen bed, work desk, and city view.",
			Amenities:   []string{"Queen Bed", "Work Desk", `40" TV`, "WiFi", "Coffee Maker"},
		},
		{
			ID: "deluxe", Name: "Deluxe Room", NightlyRate: 219.00, MaxOccupancy: 2,
			Description: "Spacious room with king bed, sitting area, and premium amenities.",
			Amenities:   []string{"King Bed", "Sitting Area", `55" TV`, "WiFi", "Mini Bar", "Nespresso Machine"},
		},
		{
			ID: "suite", Name: "Executive Suite", NightlyRate: 399.00, MaxOccupancy: 4,
			Description: "Luxurious suite with separate living room, bedroom, and panoramic views.",
			Amenities:   []string{"King Bed", "Living Room", "Dining Area", `65" TV`, "WiFi", "Full Bar", "Jacuzzi Tub", "Balcony"},
		},
		{
			ID: "family", Name: "Family Room", NightlyRate: 249.00, MaxOccupancy: 4,
			Description: "Large room with two queen beds, perfect for families.",
			Amenities:   []string{"Two Queen Beds", "Sofa Bed", `50" TV`, "WiFi", "Mini Fridge", "Microwave"},
		},
	}
}

// rooms: floors 2-5, five rooms per floor, numbered 201-220.
func rooms() []domain.Room {
	layout := []string{"standard", "standard", "deluxe", "suite", "family"}
	out := make([]domain.Room, 0, 20)
	number := 200
	for floor := 2; floor <= 5; floor++ {
		for _, typeID := range layout {
			number++
			out = append(out, domain.Room{Number: strconv.Itoa(number), RoomTypeID: typeID, Floor: floor, Status: domain.RoomAvailable})
		}
	}
	return out
}

func info() []domain.InfoEntry {
	attractions, _ := json.Marshal([]domain.Attraction{
		{Name: "Seaside Pier", Distance: "0.3 miles", Description: "Historic pier with shops and restaurants"},
		{Name: "Ocean View Beach", Distance: "0.1 miles", Description: "Sandy beach with lifeguards"},
		{Name: "Maritime Museum", Distance: "0.5 miles", Description: "Local history and marine exhibits"},
		{Name: "Downtown Shopping District", Distance: "1.2 miles", Description: "Boutiques, galleries, and dining"},
	})
	return []domain.InfoEntry{
		{Topic: domain.TopicName, Body: "The Grand Azure Hotel"},
		{Topic: domain.TopicAddress, Body: "123 Oceanview Boulevard, Seaside City, CA 90210"},
		{Topic: domain.TopicPhone, Body: "1-800-555-AZURE"},
		{Topic: domain.TopicEmail, Body: "info@grandazure.com"},
		{Topic: domain.TopicCheckInTime, Body: "3:00 PM"},
		{Topic: domain.TopicCheckOutTime, Body: "11:00 AM"},
		{Topic: "early_check_in", Body: "Early check-in available from 12:00 PM for $50 (subject to availability)"},
		{Topic: "late_check_out", Body: "Late check-out until 2:00 PM for $50 (subject to availability)"},
		{Topic: "cancellation_policy", Body: "Free cancellation up to 48 hours before check-in. One night charge for late cancellation."},
		{Topic: domain.TopicParking, Body: "Valet parking: $35/night. Self-parking: $25/night."},
		{Topic: domain.TopicWifi, Body: "Complimentary high-speed WiFi throughout the hotel."},
		{Topic: domain.TopicPool, Body: "Rooftop pool open 6:00 AM - 10:00 PM daily. Towels provided."},
		{Topic: domain.TopicFitness, Body: "24-hour fitness center on Level 3. Complimentary for all guests."},
		{Topic: domain.TopicSpa, Body: "Azure Spa open 9:00 AM - 9:00 PM. Reservations recommended."},
		{Topic: domain.TopicRestaurant, Body: "The Azure Table: Breakfast 6:30-10:30 AM, Dinner 5:30-10:00 PM. Smart casual dress code."},
		{Topic: domain.TopicRoomService, Body: "24-hour room service available. Menu in room or dial 0."},
		{Topic: domain.TopicLocalAttractions, Body: string(attractions)},
	}
}

// DemoReservations are three sample bookings around today.
func DemoReservations(today time.Time) []domain.Reservation {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	date := func(offset int) string { return day.AddDate(0, 0, offset).Format(domain.DateLayout) }
	str := func(s string) *string { return &s }
	created := today.UTC().Truncate(time.Millisecond)
	return []domain.Reservation{
		{
			ConfirmationCode: "CONF000001", GuestName: "John Smith",
			GuestEmail: str("john.smith@email.com"), GuestPhone: str("555-0101"),
			RoomNumber: "203", RoomTypeID: "deluxe", CheckIn: date(-1), CheckOut: date(2),
			Guests: 2, Status: domain.StatusCheckedIn, TotalAmount: 657.00,
			SpecialRequests: str("Late checkout requested"), CreatedAt: created,
		},
		{
			ConfirmationCode: "CONF000002", GuestName: "Sarah Johnson",
			GuestEmail: str("sarah.j@email.com"), GuestPhone: str("555-0102"),
			RoomNumber: "204", RoomTypeID: "suite", CheckIn: date(3), CheckOut: date(5),
			Guests: 2, Status: domain.StatusConfirmed, TotalAmount: 798.00,
			SpecialRequests: str("Anniversary celebration"), CreatedAt: created,
		},
		{
			ConfirmationCode: "CONF000003", GuestName: "The Williams Family",
			GuestEmail: str("williams@email.com"), GuestPhone: str("555-0103"),
			RoomNumber: "205", RoomTypeID: "family", CheckIn: date(1), CheckOut: date(4),
			Guests: 4, Status: domain.StatusConfirmed, TotalAmount: 747.00,
			SpecialRequests: str("Need crib for infant"), CreatedAt: created,
		},
	}
}
