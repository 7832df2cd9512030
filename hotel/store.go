// Package hotel holds the concierge's side of the desk: the room and
// booking store, the hotel manual, and the tool bindings that expose both to
// the assistant.
package hotel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrNotAvailable is returned when a booking targets a room that does not
// exist or is no longer available.
var ErrNotAvailable = errors.New("room not available or does not exist")

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	number TEXT NOT NULL UNIQUE,
	type TEXT DEFAULT 'STANDARD',
	status TEXT DEFAULT 'AVAILABLE',
	price REAL DEFAULT 100.0,
	description TEXT
);
CREATE TABLE IF NOT EXISTS bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guest_name TEXT NOT NULL,
	room_id INTEGER,
	FOREIGN KEY(room_id) REFERENCES rooms(id)
);
`

// Room is one row of the rooms table.
type Room struct {
	Number      string  `json:"number"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// Store is a sqlite-backed room and booking store. It is constructed
// explicitly and passed to whoever needs it; there is no shared global
// instance.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the store at dsn, applying the schema and
// seeding rooms when the table is empty. Use ":memory:" for an isolated
// throwaway store.
func OpenStore(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty store dsn")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT count(*) FROM rooms`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count rooms: %w", err)
	}
	if count > 0 {
		return nil
	}

	logger.Info("seeding empty room store")
	for _, room := range seedRooms {
		if _, err := s.db.Exec(
			`INSERT INTO rooms (number, status, price, description) VALUES (?, ?, ?, ?)`,
			room.number, room.status, room.price, room.description,
		); err != nil {
			return fmt.Errorf("failed to seed room %s: %w", room.number, err)
		}
	}

	return nil
}

// Available lists rooms currently open for booking.
func (s *Store) Available(ctx context.Context) ([]Room, error) {
	ctx, span := tracer.Start(ctx, "list available rooms")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT number, type, price FROM rooms WHERE status = 'AVAILABLE' ORDER BY number`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query available rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.Number, &room.Type, &room.Price); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rooms: %w", err)
	}

	span.SetAttributes(attribute.Int("rooms.available", len(rooms)))
	return rooms, nil
}

// Room returns full details for one room, or nil when the number is
// unknown.
func (s *Store) Room(ctx context.Context, number string) (*Room, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT number, type, price, description, status FROM rooms WHERE number = ?`, number)

	var room Room
	if err := row.Scan(&room.Number, &room.Type, &room.Price, &room.Description, &room.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query room %s: %w", number, err)
	}

	return &room, nil
}

// Book reserves a room for a guest. The availability check, the booking row,
// and the status flip happen in one transaction, so a room that became
// unavailable between turns fails with ErrNotAvailable instead of being
// double booked.
func (s *Store) Book(ctx context.Context, number, guestName string) error {
	ctx, span := tracer.Start(ctx, "book room")
	defer span.End()
	span.SetAttributes(attribute.String("room.number", number))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin booking: %w", err)
	}
	defer tx.Rollback()

	var roomID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM rooms WHERE number = ? AND status = 'AVAILABLE'`, number).Scan(&roomID)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, ErrNotAvailable.Error())
		return fmt.Errorf("%w: %s", ErrNotAvailable, number)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to check room %s: %w", number, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (guest_name, room_id) VALUES (?, ?)`, guestName, roomID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE rooms SET status = 'OCCUPIED' WHERE id = ?`, roomID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update room status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	return nil
}

// Bookings returns the number of booking rows referencing a room.
func (s *Store) Bookings(ctx context.Context, number string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM bookings b JOIN rooms r ON b.room_id = r.id WHERE r.number = ?`,
		number).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings for room %s: %w", number, err)
	}
	return count, nil
}

var seedRooms = []struct {
	number      string
	status      string
	price       float64
	description string
}{
	{"101", "AVAILABLE", 150.0, "The Alpine Suite: Features a balcony with a view of the snowy peaks, vintage oak furniture, and a complimentary bottle of sparkling water."},
	{"102", "AVAILABLE", 120.0, "The Mendl's Room: Decorated in pastel pinks and creams. Comes with a box of fresh pastries delivered every morning."},
	{"103", "OCCUPIED", 200.0, "The Society Room: Dark wood paneling, velvet armchairs, and a secret bookshelf that opens... well, we shouldn't say."},
	{"104", "AVAILABLE", 100.0, "The Courtyard Standard: A quiet, cozy room facing the inner garden. Perfect for writers and poets."},
	{"105", "AVAILABLE", 300.0, "The Grand Royal: Our finest suite. Four-poster bed, crystal chandelier, and a private bath with gold-plated fixtures."},
}
