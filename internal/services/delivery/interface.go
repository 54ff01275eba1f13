package delivery

//go:generate mockgen -package=mocks -destination=mocks/mock_client.go github.com/KirkDiggler/clanboard/internal/services/delivery Client

import "context"

// Client sends and edits rendered messages in a destination channel
type Client interface {
	// Send posts a new message and returns its id
	Send(ctx context.Context, input *SendInput) (*SendOutput, error)

	// Edit replaces the content of an existing message
	Edit(ctx context.Context, input *EditInput) error

	// Fetch checks that a message still exists
	Fetch(ctx context.Context, input *FetchInput) (*FetchOutput, error)
}
