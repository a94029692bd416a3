package app

import (
	"encoding/json"
	"fmt"

	"hotel_concierge/internal/domain"
)

/********** read models **********/

// Availability is the result of an availability check.
type Availability struct {
	CheckIn    string                 `json:"check_in"`
	CheckOut   string                 `json:"check_out"`
	Nights     int                    `json:"nights"`
	RoomTypeID string                 `json:"room_type_id,omitempty"`
	Rooms      []domain.AvailableRoom `json:"rooms"`
	ByType     []RoomTypeAvailability `json:"by_type"`
}

// RoomTypeAvailability groups free rooms of one type, in rate order.
type RoomTypeAvailability struct {
	RoomType    domain.RoomType `json:"room_type"`
	Count       int             `json:"count"`
	RoomNumbers []string        `json:"room_numbers"`
	StayTotal   float64         `json:"stay_total"`
}

type Overview struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	CheckInTime  string   `json:"check_in_time"`
	CheckOutTime string   `json:"check_out_time"`
	Amenities    []string `json:"amenities"`
	Dining       []string `json:"dining"`
	Parking      string   `json:"parking"`
	Topics       []string `json:"topics"`
}

/********** mappers **********/

func mapAvailability(stay domain.Stay, roomTypeID string, rooms []domain.AvailableRoom) Availability {
	nights := stay.Nights()
	out := Availability{
		CheckIn:    stay.CheckInDate(),
		CheckOut:   stay.CheckOutDate(),
		Nights:     nights,
		RoomTypeID: roomTypeID,
		Rooms:      rooms,
	}
	if out.Rooms == nil {
		out.Rooms = []domain.AvailableRoom{}
	}

	idx := make(map[string]int, 4)
	for _, r := range rooms {
		i, ok := idx[r.RoomType.ID]
		if !ok {
			i = len(out.ByType)
			idx[r.RoomType.ID] = i
			out.ByType = append(out.ByType, RoomTypeAvailability{
				RoomType:  r.RoomType,
				StayTotal: r.RoomType.NightlyRate * float64(nights),
			})
		}
		out.ByType[i].Count++
		out.ByType[i].RoomNumbers = append(out.ByType[i].RoomNumbers, r.Room.Number)
	}
	if out.ByType == nil {
		out.ByType = []RoomTypeAvailability{}
	}
	return out
}

func decodeAttractions(body string) ([]domain.Attraction, error) {
	var out []domain.Attraction
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("decode attractions: %w", err)
	}
	return out, nil
}

func mapOverview(entries []domain.InfoEntry) Overview {
	byTopic := make(map[string]string, len(entries))
	topics := make([]string, 0, len(entries))
	for _, e := range entries {
		byTopic[e.Topic] = e.Body
		topics = append(topics, e.Topic)
	}
	return Overview{
		Name:         byTopic[domain.TopicName],
		Address:      byTopic[domain.TopicAddress],
		Phone:        byTopic[domain.TopicPhone],
		Email:        byTopic[domain.TopicEmail],
		CheckInTime:  byTopic[domain.TopicCheckInTime],
		CheckOutTime: byTopic[domain.TopicCheckOutTime],
		Amenities:    nonEmpty(byTopic[domain.TopicWifi], byTopic[domain.TopicPool], byTopic[domain.TopicFitness], byTopic[domain.TopicSpa]),
		Dining:       nonEmpty(byTopic[domain.TopicRestaurant], byTopic[domain.TopicRoomService]),
		Parking:      byTopic[domain.TopicParking],
		Topics:       topics,
	}
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
