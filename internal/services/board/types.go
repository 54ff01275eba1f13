package board

import (
	"errors"

	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/KirkDiggler/clanboard/internal/services/delivery"
)

var (
	// ErrMessageGone is returned when an edit found the message deleted; the next render re-creates it
	ErrMessageGone = errors.New("board message deleted externally")

	ErrNilConfig       = errors.New("config cannot be nil")
	ErrNilDelivery     = errors.New("delivery client cannot be nil")
	ErrNilThrottle     = errors.New("throttle cannot be nil")
	ErrNilTrackingRepo = errors.New("tracking repository cannot be nil")
	ErrNotBoardSink    = errors.New("sink is not edited in place")
	ErrNoDestination   = errors.New("sink has no destination")
)

// RenderInput contains parameters for rendering a board
type RenderInput struct {
	SinkType models.SinkType
	Sink     *models.SinkConfig
	Payload  *delivery.Payload
}

// RenderOutput describes what was delivered
type RenderOutput struct {
	// MessageID is the live backing message
	MessageID string

	// Sent is set when a new message was posted instead of edited
	Sent bool
}
