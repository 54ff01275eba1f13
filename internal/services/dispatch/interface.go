package dispatch

//go:generate mockgen -package=mocks -destination=mocks/mock_dispatcher.go github.com/KirkDiggler/clanboard/internal/services/dispatch Dispatcher
//go:generate mockgen -package=mocks -destination=mocks/mock_board_renderer.go github.com/KirkDiggler/clanboard/internal/services/dispatch BoardRenderer

import (
	"context"

	"github.com/KirkDiggler/clanboard/internal/services/board"
)

// Dispatcher renders one cycle's results to every enabled sink of a tracked clan
type Dispatcher interface {
	// Dispatch renders each enabled sink independently. A failing sink never stops its
	// siblings; per-sink failures are reported in the output, not as an error.
	Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error)
}

// BoardRenderer keeps the backing messages of edited-in-place sinks
type BoardRenderer interface {
	EnsureAndRender(ctx context.Context, input *board.RenderInput) (*board.RenderOutput, error)
}
