package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"hotel_concierge/internal/domain"
	"hotel_concierge/internal/storage/seed"
)

const errDuplicateEntry = 1062

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}

func ptrStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repo implements domain.BookingRepository on MySQL. The DSN must set parseTime=true.
type Repo struct {
	queries
	db *sql.DB
}

var _ domain.BookingRepository = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{queries: queries{db: db}, db: db} }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) Close() error { return r.db.Close() }

// Migrate creates the schema if absent.
func (r *Repo) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// InTx runs at READ COMMITTED so reads after LockRooms see rows committed while waiting.
func (r *Repo) InTx(ctx context.Context, fn func(tx domain.BookingTx) error) error {
	return r.inTx(ctx, func(tx *txQueries) error { return fn(tx) })
}

func (r *Repo) inTx(ctx context.Context, fn func(tx *txQueries) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&txQueries{queries: queries{db: tx}}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repo) Seed(ctx context.Context, d seed.Data) (bool, error) {
	var seeded bool
	err := r.inTx(ctx, func(tx *txQueries) error {
		var err error
		seeded, err = seed.Apply(ctx, tx, d)
		return err
	})
	return seeded, err
}

func (r *Repo) SeedDemo(ctx context.Context, today time.Time) (int, error) {
	var n int
	err := r.inTx(ctx, func(tx *txQueries) error {
		var err error
		n, err = seed.ApplyDemo(ctx, tx, today)
		return err
	})
	return n, err
}

/********** reads **********/

type queries struct{ db dbtx }

type rowScanner interface{ Scan(dest ...any) error }

func scanRoomType(row rowScanner) (domain.RoomType, error) {
	var rt domain.RoomType
	var amenities []byte
	if err := row.Scan(&rt.ID, &rt.Name, &rt.Description, &rt.NightlyRate, &rt.MaxOccupancy, &amenities); err != nil {
		return domain.RoomType{}, err
	}
	if err := json.Unmarshal(amenities, &rt.Amenities); err != nil {
		return domain.RoomType{}, fmt.Errorf("decode amenities of %s: %w", rt.ID, err)
	}
	return rt, nil
}

func (q queries) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	rows, err := q.db.QueryContext(ctx, listRoomTypesSQL)
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

func (q queries) GetRoomType(ctx context.Context, id string) (domain.RoomType, error) {
	rt, err := scanRoomType(q.db.QueryRowContext(ctx, getRoomTypeSQL, id))
	if err == sql.ErrNoRows {
		return domain.RoomType{}, fmt.Errorf("%w: room type %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.RoomType{}, fmt.Errorf("get room type: %w", err)
	}
	return rt, nil
}

func (q queries) GetRoom(ctx context.Context, number string) (domain.Room, error) {
	var rm domain.Room
	err := q.db.QueryRowContext(ctx, getRoomSQL, number).Scan(&rm.ID, &rm.Number, &rm.RoomTypeID, &rm.Floor, &rm.Status)
	if err == sql.ErrNoRows {
		return domain.Room{}, fmt.Errorf("%w: room %s", domain.ErrNotFound, number)
	}
	if err != nil {
		return domain.Room{}, fmt.Errorf("get room: %w", err)
	}
	return rm, nil
}

func (q queries) FindAvailableRooms(ctx context.Context, aq domain.AvailabilityQuery) ([]domain.AvailableRoom, error) {
	rows, err := q.db.QueryContext(ctx, findAvailableRoomsSQL,
		aq.RoomTypeID, aq.RoomTypeID,
		aq.RoomNumber, aq.RoomNumber,
		aq.Stay.CheckOutDate(), aq.Stay.CheckInDate(),
	)
	if err != nil {
		return nil, fmt.Errorf("find available rooms: %w", err)
	}
	defer rows.Close()

	var out []domain.AvailableRoom
	for rows.Next() {
		var ar domain.AvailableRoom
		var amenities []byte
		if err := rows.Scan(
			&ar.Room.ID, &ar.Room.Number, &ar.Room.RoomTypeID, &ar.Room.Floor,
			&ar.RoomType.ID, &ar.RoomType.Name, &ar.RoomType.Description,
			&ar.RoomType.NightlyRate, &ar.RoomType.MaxOccupancy, &amenities,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(amenities, &ar.RoomType.Amenities); err != nil {
			return nil, fmt.Errorf("decode amenities of %s: %w", ar.RoomType.ID, err)
		}
		ar.Room.Status = domain.RoomAvailable
		out = append(out, ar)
	}
	return out, rows.Err()
}

func (q queries) GetReservation(ctx context.Context, code string) (domain.Reservation, error) {
	var res domain.Reservation
	var email, phone, special sql.NullString
	var status string
	err := q.db.QueryRowContext(ctx, getReservationSQL, code).Scan(
		&res.ID, &res.ConfirmationCode, &res.GuestName, &email, &phone,
		&res.RoomNumber, &res.RoomTypeID, &res.RoomTypeName,
		&res.CheckIn, &res.CheckOut, &res.Guests, &status, &res.TotalAmount,
		&special, &res.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Reservation{}, fmt.Errorf("%w: no reservation found with confirmation code %s", domain.ErrNotFound, code)
	}
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	res.GuestEmail = ptrStr(email)
	res.GuestPhone = ptrStr(phone)
	res.SpecialRequests = ptrStr(special)
	res.Status = domain.ReservationStatus(status)
	res.CreatedAt = res.CreatedAt.UTC()
	return res, nil
}

func (q queries) GetServiceRequest(ctx context.Context, id int64) (domain.ServiceRequest, error) {
	var sr domain.ServiceRequest
	var code, room sql.NullString
	var category, status string
	var completed sql.NullTime
	err := q.db.QueryRowContext(ctx, getServiceRequestSQL, id).Scan(
		&sr.ID, &code, &room, &category, &sr.Description, &status, &sr.CreatedAt, &completed,
	)
	if err == sql.ErrNoRows {
		return domain.ServiceRequest{}, fmt.Errorf("%w: service request %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.ServiceRequest{}, fmt.Errorf("get service request: %w", err)
	}
	sr.ConfirmationCode = ptrStr(code)
	sr.RoomNumber = ptrStr(room)
	sr.Category = domain.ServiceCategory(category)
	sr.Status = domain.ServiceRequestStatus(status)
	sr.CreatedAt = sr.CreatedAt.UTC()
	if completed.Valid {
		t := completed.Time.UTC()
		sr.CompletedAt = &t
	}
	return sr, nil
}

func (q queries) ListInfo(ctx context.Context) ([]domain.InfoEntry, error) {
	rows, err := q.db.QueryContext(ctx, listInfoSQL)
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

func (q queries) GetInfo(ctx context.Context, topic string) (domain.InfoEntry, error) {
	var e domain.InfoEntry
	err := q.db.QueryRowContext(ctx, getInfoSQL, topic).Scan(&e.Topic, &e.Body)
	if err == sql.ErrNoRows {
		return domain.InfoEntry{}, fmt.Errorf("%w: no information about %q", domain.ErrNotFound, topic)
	}
	if err != nil {
		return domain.InfoEntry{}, fmt.Errorf("get info: %w", err)
	}
	return e, nil
}

/********** writes **********/

type txQueries struct{ queries }

var _ domain.BookingTx = (*txQueries)(nil)

func (t *txQueries) LockRooms(ctx context.Context, aq domain.AvailabilityQuery) error {
	rows, err := t.db.QueryContext(ctx, lockRoomsSQL, aq.RoomTypeID, aq.RoomTypeID, aq.RoomNumber, aq.RoomNumber)
	if err != nil {
		return fmt.Errorf("lock rooms: %w", err)
	}
	defer rows.Close()
	for rows.Next() { // drain
	}
	return rows.Err()
}

func (t *txQueries) ConfirmationCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := t.db.QueryRowContext(ctx, codeExistsSQL, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("check confirmation code: %w", err)
	}
	return exists, nil
}

func (t *txQueries) InsertReservation(ctx context.Context, r domain.Reservation) (int64, error) {
	res, err := t.db.ExecContext(ctx, insertReservationSQL,
		r.ConfirmationCode, r.GuestName, valStr(r.GuestEmail), valStr(r.GuestPhone), r.RoomNumber,
		r.CheckIn, r.CheckOut, r.Guests, string(r.Status), r.TotalAmount,
		valStr(r.SpecialRequests), r.CreatedAt.UTC(),
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("insert reservation %s: duplicate confirmation code: %w", r.ConfirmationCode, err)
		}
		return 0, fmt.Errorf("insert reservation: %w", err)
	}
	return res.LastInsertId()
}

func (t *txQueries) UpdateReservationStatus(ctx context.Context, code string, from, to domain.ReservationStatus) error {
	res, err := t.db.ExecContext(ctx, updateReservationStatusSQL, string(to), code, string(from))
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	return expectOneRow(res, "reservation "+code, string(from))
}

func (t *txQueries) InsertServiceRequest(ctx context.Context, sr domain.ServiceRequest) (int64, error) {
	res, err := t.db.ExecContext(ctx, insertServiceRequestSQL,
		valStr(sr.ConfirmationCode), valStr(sr.RoomNumber), string(sr.Category), sr.Description,
		string(sr.Status), sr.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert service request: %w", err)
	}
	return res.LastInsertId()
}

func (t *txQueries) UpdateServiceRequestStatus(ctx context.Context, id int64, from, to domain.ServiceRequestStatus, at time.Time) error {
	res, err := t.db.ExecContext(ctx, updateServiceRequestStatusSQL,
		string(to), string(to), valTime(&at), id, string(from),
	)
	if err != nil {
		return fmt.Errorf("update service request status: %w", err)
	}
	return expectOneRow(res, fmt.Sprintf("service request %d", id), string(from))
}

func (t *txQueries) RoomTypeCount(ctx context.Context) (int, error) {
	var n int
	err := t.db.QueryRowContext(ctx, countRoomTypesSQL).Scan(&n)
	return n, err
}

func (t *txQueries) InsertRoomType(ctx context.Context, rt domain.RoomType) error {
	amenities, err := json.Marshal(rt.Amenities)
	if err != nil {
		return err
	}
	_, err = t.db.ExecContext(ctx, insertRoomTypeSQL,
		rt.ID, rt.Name, rt.Description, rt.NightlyRate, rt.MaxOccupancy, string(amenities))
	return err
}

func (t *txQueries) InsertRoom(ctx context.Context, r domain.Room) error {
	status := r.Status
	if status == "" {
		status = domain.RoomAvailable
	}
	_, err := t.db.ExecContext(ctx, insertRoomSQL, r.Number, r.RoomTypeID, r.Floor, string(status))
	return err
}

func (t *txQueries) InsertInfo(ctx context.Context, e domain.InfoEntry) error {
	_, err := t.db.ExecContext(ctx, insertInfoSQL, e.Topic, e.Body)
	return err
}

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

func isDuplicate(err error) bool {
	var me *driver.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}
