package mysql

import _ "embed"

//go:embed schema.sql
var schemaSQL string

const (
	listRoomTypesSQL = `
SELECT id, name, description, nightly_rate, max_occupancy, amenities
FROM room_types
ORDER BY nightly_rate, id`

	getRoomTypeSQL = `
SELECT id, name, description, nightly_rate, max_occupancy, amenities
FROM room_types
WHERE id = ?`

	countRoomTypesSQL = `SELECT COUNT(*) FROM room_types`

	insertRoomTypeSQL = `
INSERT INTO room_types (id, name, description, nightly_rate, max_occupancy, amenities)
VALUES (?, ?, ?, ?, ?, ?)`

	getRoomSQL = `
SELECT id, number, room_type_id, floor, status
FROM rooms
WHERE number = ?`

	insertRoomSQL = `
INSERT INTO rooms (number, room_type_id, floor, status)
VALUES (?, ?, ?, ?)`

	// Row locks on the candidate rooms serialize concurrent bookings of the same rooms.
	// args: type, type, number, number
	lockRoomsSQL = `
SELECT id FROM rooms
WHERE (? = '' OR room_type_id = ?)
  AND (? = '' OR number = ?)
ORDER BY id
FOR UPDATE`

	// args: type, type, number, number, check_out, check_in
	findAvailableRoomsSQL = `
SELECT rm.id, rm.number, rm.room_type_id, rm.floor,
       rt.id, rt.name, rt.description, rt.nightly_rate, rt.max_occupancy, rt.amenities
FROM rooms rm
JOIN room_types rt ON rt.id = rm.room_type_id
WHERE rm.status = 'available'
  AND (? = '' OR rm.room_type_id = ?)
  AND (? = '' OR rm.number = ?)
  AND NOT EXISTS (
      SELECT 1 FROM reservations r
      WHERE r.room_id = rm.id
        AND r.status IN ('confirmed', 'checked_in')
        AND r.check_in < ?
        AND ? < r.check_out
  )
ORDER BY rt.nightly_rate, CAST(rm.number AS UNSIGNED), rm.number`

	getReservationSQL = `
SELECT r.id, r.confirmation_code, r.guest_name, r.guest_email, r.guest_phone,
       rm.number, rm.room_type_id, rt.name,
       DATE_FORMAT(r.check_in, '%Y-%m-%d'), DATE_FORMAT(r.check_out, '%Y-%m-%d'),
       r.guests, r.status, r.total_amount, r.special_requests, r.created_at
FROM reservations r
JOIN rooms rm ON rm.id = r.room_id
JOIN room_types rt ON rt.id = rm.room_type_id
WHERE r.confirmation_code = ?`

	codeExistsSQL = `SELECT EXISTS (SELECT 1 FROM reservations WHERE confirmation_code = ?)`

	insertReservationSQL = `
INSERT INTO reservations (
  confirmation_code, guest_name, guest_email, guest_phone, room_id,
  check_in, check_out, guests, status, total_amount, special_requests, created_at
) VALUES (?, ?, ?, ?, (SELECT id FROM rooms WHERE number = ?), ?, ?, ?, ?, ?, ?, ?)`

	updateReservationStatusSQL = `
UPDATE reservations SET status = ?
WHERE confirmation_code = ? AND status = ?`

	getServiceRequestSQL = `
SELECT sr.id, sr.confirmation_code, rm.number, sr.category, sr.description,
       sr.status, sr.created_at, sr.completed_at
FROM service_requests sr
LEFT JOIN rooms rm ON rm.id = sr.room_id
WHERE sr.id = ?`

	insertServiceRequestSQL = `
INSERT INTO service_requests (confirmation_code, room_id, category, description, status, created_at)
VALUES (?, (SELECT id FROM rooms WHERE number = ?), ?, ?, ?, ?)`

	updateServiceRequestStatusSQL = `
UPDATE service_requests
SET status = ?, completed_at = CASE WHEN ? = 'completed' THEN ? ELSE completed_at END
WHERE id = ? AND status = ?`

	listInfoSQL = `SELECT topic, body FROM hotel_info ORDER BY id`

	getInfoSQL = `SELECT topic, body FROM hotel_info WHERE topic = ?`

	insertInfoSQL = `INSERT INTO hotel_info (topic, body) VALUES (?, ?)`
)
