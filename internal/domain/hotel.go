package domain

type RoomType struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	NightlyRate  float64  `json:"nightly_rate"`
	MaxOccupancy int      `json:"max_occupancy"`
	Amenities    []string `json:"amenities"`
}

// RoomStatus is the operational state of a room; only available rooms can be booked.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

type Room struct {
	ID         int64      `json:"-"`
	Number     string     `json:"number"`
	RoomTypeID string     `json:"room_type_id"`
	Floor      int        `json:"floor"`
	Status     RoomStatus `json:"status"`
}

// AvailableRoom is a free room joined with its type for rate/amenity display.
type AvailableRoom struct {
	Room     Room     `json:"room"`
	RoomType RoomType `json:"room_type"`
}

type InfoEntry struct {
	Topic string `json:"topic"`
	Body  string `json:"body"`
}

type Attraction struct {
	Name        string `json:"name"`
	Distance    string `json:"distance"`
	Description string `json:"description"`
}

// Well-known info topics.
const (
	TopicName             = "name"
	TopicAddress          = "address"
	TopicPhone            = "phone"
	TopicEmail            = "email"
	TopicCheckInTime      = "check_in_time"
	TopicCheckOutTime     = "check_out_time"
	TopicWifi             = "wifi"
	TopicPool             = "pool"
	TopicFitness          = "fitness"
	TopicSpa              = "spa"
	TopicRestaurant       = "restaurant"
	TopicRoomService      = "room_service"
	TopicParking          = "parking"
	TopicLocalAttractions = "local_attractions"
)
