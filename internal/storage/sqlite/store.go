// Package sqlite is the default booking store, backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"hotel_concierge/internal/domain"
	"hotel_concierge/internal/storage/seed"
	"hotel_concierge/internal/storage/sqlite/migrations"
)

// dbtx is satisfied by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements domain.BookingRepository.
type Store struct {
	reader
	db *sql.DB
}

var _ domain.BookingRepository = (*Store)(nil)

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

// Open opens the database file at path and applies embedded migrations.
// BEGIN takes the write lock immediately, so concurrent booking transactions serialize
// instead of failing on lock upgrade.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{reader: reader{db: db}, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) InTx(ctx context.Context, fn func(tx domain.BookingTx) error) error {
	return s.inTx(ctx, func(tx *txStore) error { return fn(tx) })
}

func (s *Store) inTx(ctx context.Context, fn func(tx *txStore) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&txStore{reader: reader{db: tx}}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Seed writes the reference data once; later calls are no-ops.
func (s *Store) Seed(ctx context.Context, d seed.Data) (bool, error) {
	var seeded bool
	err := s.inTx(ctx, func(tx *txStore) error {
		var err error
		seeded, err = seed.Apply(ctx, tx, d)
		return err
	})
	return seeded, err
}

// SeedDemo inserts the sample bookings missing from the store.
func (s *Store) SeedDemo(ctx context.Context, today time.Time) (int, error) {
	var n int
	err := s.inTx(ctx, func(tx *txStore) error {
		var err error
		n, err = seed.ApplyDemo(ctx, tx, today)
		return err
	})
	return n, err
}

/********** reads **********/

type reader struct{ db dbtx }

type rowScanner interface{ Scan(dest ...any) error }

func scanRoomType(row rowScanner) (domain.RoomType, error) {
	var rt domain.RoomType
	var amenities string
	if err := row.Scan(&rt.ID, &rt.Name, &rt.Description, &rt.NightlyRate, &rt.MaxOccupancy, &amenities); err != nil {
		return domain.RoomType{}, err
	}
	if err := json.Unmarshal([]byte(amenities), &rt.Amenities); err != nil {
		return domain.RoomType{}, fmt.Errorf("decode amenities of %s: %w", rt.ID, err)
	}
	return rt, nil
}

func (r reader) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, listRoomTypesSQL)
	if err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RoomType, 0, 4)
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r reader) GetRoomType(ctx context.Context, id string) (domain.RoomType, error) {
	rt, err := scanRoomType(r.db.QueryRowContext(ctx, getRoomTypeSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoomType{}, fmt.Errorf("%w: room type %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.RoomType{}, fmt.Errorf("get room type: %w", err)
	}
	return rt, nil
}

func (r reader) GetRoom(ctx context.Context, number string) (domain.Room, error) {
	var rm domain.Room
	err := r.db.QueryRowContext(ctx, getRoomSQL, number).Scan(&rm.ID, &rm.Number, &rm.RoomTypeID, &rm.Floor, &rm.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, fmt.Errorf("%w: room %s", domain.ErrNotFound, number)
	}
	if err != nil {
		return domain.Room{}, fmt.Errorf("get room: %w", err)
	}
	return rm, nil
}

func (r reader) FindAvailableRooms(ctx context.Context, q domain.AvailabilityQuery) ([]domain.AvailableRoom, error) {
	rows, err := r.db.QueryContext(ctx, findAvailableRoomsSQL,
		q.RoomTypeID, q.RoomTypeID,
		q.RoomNumber, q.RoomNumber,
		q.Stay.CheckOutDate(), q.Stay.CheckInDate(),
	)
	if err != nil {
		return nil, fmt.Errorf("find available rooms: %w", err)
	}
	defer rows.Close()

	var out []domain.AvailableRoom
	for rows.Next() {
		var ar domain.AvailableRoom
		var amenities string
		if err := rows.Scan(
			&ar.Room.ID, &ar.Room.Number, &ar.Room.RoomTypeID, &ar.Room.Floor,
			&ar.RoomType.ID, &ar.RoomType.Name, &ar.RoomType.Description,
			&ar.RoomType.NightlyRate, &ar.RoomType.MaxOccupancy, &amenities,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(amenities), &ar.RoomType.Amenities); err != nil {
			return nil, fmt.Errorf("decode amenities of %s: %w", ar.RoomType.ID, err)
		}
		ar.Room.Status = domain.RoomAvailable
		out = append(out, ar)
	}
	return out, rows.Err()
}

func (r reader) GetReservation(ctx context.Context, code string) (domain.Reservation, error) {
	var res domain.Reservation
	var email, phone, special sql.NullString
	var status string
	var created int64
	err := r.db.QueryRowContext(ctx, getReservationSQL, code).Scan(
		&res.ID, &res.ConfirmationCode, &res.GuestName, &email, &phone,
		&res.RoomNumber, &res.RoomTypeID, &res.RoomTypeName,
		&res.CheckIn, &res.CheckOut, &res.Guests, &status, &res.TotalAmount,
		&special, &created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reservation{}, fmt.Errorf("%w: no reservation found with confirmation code %s", domain.ErrNotFound, code)
	}
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	res.GuestEmail = ptrStr(email)
	res.GuestPhone = ptrStr(phone)
	res.SpecialRequests = ptrStr(special)
	res.Status = domain.ReservationStatus(status)
	res.CreatedAt = fromMillis(created)
	return res, nil
}

func (r reader) GetServiceRequest(ctx context.Context, id int64) (domain.ServiceRequest, error) {
	var sr domain.ServiceRequest
	var code, room sql.NullString
	var category, status string
	var created int64
	var completed sql.NullInt64
	err := r.db.QueryRowContext(ctx, getServiceRequestSQL, id).Scan(
		&sr.ID, &code, &room, &category, &sr.Description, &status, &created, &completed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ServiceRequest{}, fmt.Errorf("%w: service request %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.ServiceRequest{}, fmt.Errorf("get service request: %w", err)
	}
	sr.ConfirmationCode = ptrStr(code)
	sr.RoomNumber = ptrStr(room)
	sr.Category = domain.ServiceCategory(category)
	sr.Status = domain.ServiceRequestStatus(status)
	sr.CreatedAt = fromMillis(created)
	if completed.Valid {
		t := fromMillis(completed.Int64)
		sr.CompletedAt = &t
	}
	return sr, nil
}

func (r reader) ListInfo(ctx context.Context) ([]domain.InfoEntry, error) {
	rows, err := r.db.QueryContext(ctx, listInfoSQL)
	if err != nil {
		return nil, fmt.Errorf("list info: %w", err)
	}
	defer rows.Close()

	var out []domain.InfoEntry
	for rows.Next() {
		var e domain.InfoEntry
		if err := rows.Scan(&e.Topic, &e.Body); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r reader) GetInfo(ctx context.Context, topic string) (domain.InfoEntry, error) {
	var e domain.InfoEntry
	err := r.db.QueryRowContext(ctx, getInfoSQL, topic).Scan(&e.Topic, &e.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InfoEntry{}, fmt.Errorf("%w: no information about %q", domain.ErrNotFound, topic)
	}
	if err != nil {
		return domain.InfoEntry{}, fmt.Errorf("get info: %w", err)
	}
	return e, nil
}

/********** writes (transaction only) **********/

type txStore struct{ reader }

var _ domain.BookingTx = (*txStore)(nil)

// LockRooms is a no-op: the immediate transaction already holds the database write lock.
func (t *txStore) LockRooms(ctx context.Context, q domain.AvailabilityQuery) error { return nil }

func (t *txStore) ConfirmationCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := t.db.QueryRowContext(ctx, codeExistsSQL, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("check confirmation code: %w", err)
	}
	return exists, nil
}

func (t *txStore) InsertReservation(ctx context.Context, r domain.Reservation) (int64, error) {
	res, err := t.db.ExecContext(ctx, insertReservationSQL,
		r.ConfirmationCode, r.GuestName, valStr(r.GuestEmail), valStr(r.GuestPhone), r.RoomNumber,
		r.CheckIn, r.CheckOut, r.Guests, string(r.Status), r.TotalAmount,
		valStr(r.SpecialRequests), toMillis(r.CreatedAt),
	)
	if err != nil {
		if isOverlap(err) {
			return 0, fmt.Errorf("%w: room %s is booked between %s and %s", domain.ErrNoRoomAvailable, r.RoomNumber, r.CheckIn, r.CheckOut)
		}
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert reservation %s: duplicate confirmation code: %w", r.ConfirmationCode, err)
		}
		return 0, fmt.Errorf("insert reservation: %w", err)
	}
	return res.LastInsertId()
}

func (t *txStore) UpdateReservationStatus(ctx context.Context, code string, from, to domain.ReservationStatus) error {
	res, err := t.db.ExecContext(ctx, updateReservationStatusSQL, string(to), code, string(from))
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	return expectOneRow(res, "reservation "+code, string(from))
}

func (t *txStore) InsertServiceRequest(ctx context.Context, sr domain.ServiceRequest) (int64, error) {
	res, err := t.db.ExecContext(ctx, insertServiceRequestSQL,
		valStr(sr.ConfirmationCode), valStr(sr.RoomNumber), string(sr.Category), sr.Description,
		string(sr.Status), toMillis(sr.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert service request: %w", err)
	}
	return res.LastInsertId()
}

func (t *txStore) UpdateServiceRequestStatus(ctx context.Context, id int64, from, to domain.ServiceRequestStatus, at time.Time) error {
	res, err := t.db.ExecContext(ctx, updateServiceRequestStatusSQL,
		string(to), string(to), toMillis(at), id, string(from),
	)
	if err != nil {
		return fmt.Errorf("update service request status: %w", err)
	}
	return expectOneRow(res, fmt.Sprintf("service request %d", id), string(from))
}

// seed.Writer

func (t *txStore) RoomTypeCount(ctx context.Context) (int, error) {
	var n int
	err := t.db.QueryRowContext(ctx, countRoomTypesSQL).Scan(&n)
	return n, err
}

func (t *txStore) InsertRoomType(ctx context.Context, rt domain.RoomType) error {
	amenities, err := json.Marshal(rt.Amenities)
	if err != nil {
		return err
	}
	_, err = t.db.ExecContext(ctx, insertRoomTypeSQL,
		rt.ID, rt.Name, rt.Description, rt.NightlyRate, rt.MaxOccupancy, string(amenities))
	return err
}

func (t *txStore) InsertRoom(ctx context.Context, r domain.Room) error {
	status := r.Status
	if status == "" {
		status = domain.RoomAvailable
	}
	_, err := t.db.ExecContext(ctx, insertRoomSQL, r.Number, r.RoomTypeID, r.Floor, string(status))
	return err
}

func (t *txStore) InsertInfo(ctx context.Context, e domain.InfoEntry) error {
	_, err := t.db.ExecContext(ctx, insertInfoSQL, e.Topic, e.Body)
	return err
}

/********** helpers **********/

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func ptrStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// expectOneRow turns a lost compare-and-set into ErrInvalidStatusTransition.
func expectOneRow(res sql.Result, what, from string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s is no longer %s", domain.ErrInvalidStatusTransition, what, from)
	}
	return nil
}

func isOverlap(err error) bool {
	return strings.Contains(err.Error(), "room_overlap")
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
