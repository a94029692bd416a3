package mcpserver

import (
	"fmt"
	"strings"

	"hotel_concierge/internal/app"
	"hotel_concierge/internal/domain"
)

const (
	checkInHour  = "3:00 PM"
	checkOutHour = "11:00 AM"
)

var requestFollowUp = map[domain.ServiceCategory]string{
	domain.CategoryRoomService:  "Your order will be delivered within 30-45 minutes.",
	domain.CategoryHousekeeping: "Housekeeping will arrive within 20 minutes.",
	domain.CategoryMaintenance:  "A maintenance technician will be dispatched shortly.",
	domain.CategoryConcierge:    "Our concierge team will contact you within 10 minutes.",
}

func formatAvailability(a app.Availability) string {
	if len(a.ByType) == 0 {
		return fmt.Sprintf("No rooms available for %s to %s.", a.CheckIn, a.CheckOut)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Availability for %s to %s (%s):\n\n", a.CheckIn, a.CheckOut, plural(a.Nights, "night"))
	for _, g := range a.ByType {
		fmt.Fprintf(&b, "**%s** - %d available\n", g.RoomType.Name, g.Count)
		fmt.Fprintf(&b, "  Rate: %s/night (Total: %s)\n", money(g.RoomType.NightlyRate), money(g.StayTotal))
		fmt.Fprintf(&b, "  Max Occupancy: %d guests\n", g.RoomType.MaxOccupancy)
		fmt.Fprintf(&b, "  Amenities: %s\n", strings.Join(g.RoomType.Amenities, ", "))
		fmt.Fprintf(&b, "  Rooms: %s\n\n", strings.Join(g.RoomNumbers, ", "))
	}
	return b.String()
}

func formatConfirmed(r domain.Reservation) string {
	var b strings.Builder
	b.WriteString("**Reservation Confirmed**\n\n")
	fmt.Fprintf(&b, "Confirmation Number: **%s**\n", r.ConfirmationCode)
	fmt.Fprintf(&b, "Guest: %s\n", r.GuestName)
	fmt.Fprintf(&b, "Room: %s (%s)\n", r.RoomNumber, r.RoomTypeName)
	fmt.Fprintf(&b, "Check-in: %s (%s)\n", r.CheckIn, checkInHour)
	fmt.Fprintf(&b, "Check-out: %s (%s)\n", r.CheckOut, checkOutHour)
	fmt.Fprintf(&b, "Guests: %d\n", r.Guests)
	fmt.Fprintf(&b, "Total: %s (%s)\n\n", money(r.TotalAmount), plural(nights(r), "night"))
	b.WriteString("Please save your confirmation number for check-in.\n")
	return b.String()
}

func formatReservation(r domain.Reservation) string {
	var b strings.Builder
	b.WriteString("**Reservation Details**\n\n")
	fmt.Fprintf(&b, "Confirmation: **%s**\n", r.ConfirmationCode)
	fmt.Fprintf(&b, "Status: %s\n", title(string(r.Status)))
	fmt.Fprintf(&b, "Guest: %s\n", r.GuestName)
	if r.GuestEmail != nil {
		fmt.Fprintf(&b, "Email: %s\n", *r.GuestEmail)
	}
	if r.GuestPhone != nil {
		fmt.Fprintf(&b, "Phone: %s\n", *r.GuestPhone)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Room Type: %s\n", r.RoomTypeName)
	fmt.Fprintf(&b, "Room Number: %s\n", r.RoomNumber)
	fmt.Fprintf(&b, "Check-in: %s (%s)\n", r.CheckIn, checkInHour)
	fmt.Fprintf(&b, "Check-out: %s (%s)\n", r.CheckOut, checkOutHour)
	fmt.Fprintf(&b, "Guests: %d\n", r.Guests)
	fmt.Fprintf(&b, "Total: %s\n", money(r.TotalAmount))
	if r.SpecialRequests != nil {
		fmt.Fprintf(&b, "\nSpecial Requests: %s\n", *r.SpecialRequests)
	}
	return b.String()
}

func formatCancelled(r domain.Reservation) string {
	var b strings.Builder
	b.WriteString("**Reservation Cancelled**\n\n")
	fmt.Fprintf(&b, "Confirmation: %s\n", r.ConfirmationCode)
	fmt.Fprintf(&b, "Guest: %s\n", r.GuestName)
	fmt.Fprintf(&b, "Dates: %s to %s\n\n", r.CheckIn, r.CheckOut)
	b.WriteString("The reservation has been cancelled. Cancellations made more than 48 hours before check-in receive a full refund. ")
	b.WriteString("Please allow 5-7 business days for processing.\n")
	return b.String()
}

func formatServiceRequest(sr domain.ServiceRequest) string {
	var b strings.Builder
	b.WriteString("**Service Request Submitted**\n\n")
	fmt.Fprintf(&b, "Request ID: #%d\n", sr.ID)
	fmt.Fprintf(&b, "Type: %s\n", title(string(sr.Category)))
	if sr.RoomNumber != nil {
		fmt.Fprintf(&b, "Room: %s\n", *sr.RoomNumber)
	}
	fmt.Fprintf(&b, "Description: %s\n", sr.Description)
	fmt.Fprintf(&b, "Status: %s\n\n", title(string(sr.Status)))
	if msg, ok := requestFollowUp[sr.Category]; ok {
		b.WriteString(msg + "\n\n")
	}
	b.WriteString("For urgent matters, please call the front desk at extension 0.\n")
	return b.String()
}

func formatTopic(e domain.InfoEntry) string {
	return fmt.Sprintf("**%s:** %s", title(e.Topic), e.Body)
}

func formatAttractions(topic string, as []domain.Attraction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s:**\n\n", title(topic))
	for _, a := range as {
		fmt.Fprintf(&b, "- **%s** (%s)\n  %s\n\n", a.Name, a.Distance, a.Description)
	}
	return b.String()
}

func formatOverview(o app.Overview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n%s\n", o.Name, o.Address)
	fmt.Fprintf(&b, "Phone: %s | Email: %s\n\n", o.Phone, o.Email)
	b.WriteString("**Hours:**\n")
	fmt.Fprintf(&b, "- Check-in: %s\n- Check-out: %s\n\n", o.CheckInTime, o.CheckOutTime)
	writeList(&b, "Amenities", o.Amenities)
	writeList(&b, "Dining", o.Dining)
	if o.Parking != "" {
		writeList(&b, "Parking", []string{o.Parking})
	}
	fmt.Fprintf(&b, "For more details on any topic, ask about: %s.\n", strings.Join(o.Topics, ", "))
	return b.String()
}

func formatRoomTypes(hotel string, types []domain.RoomType) string {
	var b strings.Builder
	if hotel != "" {
		fmt.Fprintf(&b, "**Room Types at %s:**\n\n", hotel)
	} else {
		b.WriteString("**Room Types:**\n\n")
	}
	for _, rt := range types {
		fmt.Fprintf(&b, "### %s\n%s\n", rt.Name, rt.Description)
		fmt.Fprintf(&b, "- **Rate:** %s/night\n", money(rt.NightlyRate))
		fmt.Fprintf(&b, "- **Max Occupancy:** %d guests\n", rt.MaxOccupancy)
		fmt.Fprintf(&b, "- **Amenities:** %s\n\n", strings.Join(rt.Amenities, ", "))
	}
	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// title turns a snake_case key into "Title Case".
func title(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
