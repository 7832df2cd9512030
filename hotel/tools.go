package hotel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/grandrevier/concierge-core/core/llms"
)

type availabilityArgs struct{}

type roomDetailsArgs struct {
	RoomNumber string `json:"room_number" jsonschema:"required,description=The room number to look up, e.g. '101'"`
}

type bookingArgs struct {
	RoomNumber string `json:"room_number" jsonschema:"required,description=The number of the room to book"`
	GuestName  string `json:"guest_name" jsonschema:"required,description=The full name of the guest making the booking"`
}

type manualSearchArgs struct {
	Query string `json:"query" jsonschema:"required,description=What to look up in the hotel manual, e.g. 'breakfast hours'"`
}

// Tools binds the store and manual into the assistant's tool catalog.
func Tools(store *Store, manual *Manual) []llms.Tool {
	return []llms.Tool{
		llms.NewTool(
			"check_room_availability",
			"List the hotel rooms that are currently available, with their type and nightly price.",
			func(availabilityArgs) (string, error) {
				rooms, err := store.Available(context.Background())
				if err != nil {
					return "", err
				}
				if len(rooms) == 0 {
					return "No rooms are currently available.", nil
				}
				payload, err := json.Marshal(rooms)
				if err != nil {
					return "", fmt.Errorf("failed to encode rooms: %w", err)
				}
				return string(payload), nil
			},
		),
		llms.NewTool(
			"get_room_details",
			"Describe a specific room: its style, furnishings, and nightly price.",
			func(args roomDetailsArgs) (string, error) {
				room, err := store.Room(context.Background(), args.RoomNumber)
				if err != nil {
					return "", err
				}
				if room == nil {
					return fmt.Sprintf("There is no room %s in this hotel.", args.RoomNumber), nil
				}
				return fmt.Sprintf("Room %s (%.0f per night): %s", room.Number, room.Price, room.Description), nil
			},
		),
		llms.NewTool(
			"book_room",
			"Book an available room for a guest by room number and guest name.",
			func(args bookingArgs) (string, error) {
				if strings.TrimSpace(args.GuestName) == "" {
					return "", fmt.Errorf("guest name must not be empty")
				}
				if err := store.Book(context.Background(), args.RoomNumber, args.GuestName); err != nil {
					if errors.Is(err, ErrNotAvailable) {
						return fmt.Sprintf("Room %s is not available or does not exist.", args.RoomNumber), nil
					}
					return "", err
				}
				return fmt.Sprintf("Room %s is booked for %s. Enjoy your stay!", args.RoomNumber, args.GuestName), nil
			},
		),
		llms.NewTool(
			"search_hotel_manual",
			"Search the hotel manual for policies and practical information: hours, amenities, pets, parking, cancellation.",
			func(args manualSearchArgs) (string, error) {
				passages := manual.Search(args.Query)
				if len(passages) == 0 {
					return "The manual has nothing on that topic.", nil
				}
				return strings.Join(passages, "\n\n"), nil
			},
		),
	}
}
