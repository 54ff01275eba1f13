package last_seen

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/clanboard/internal/repositories/last_seen Repository

import (
	"context"
)

// Repository defines the interface for per-member last activity persistence
type Repository interface {
	// Touch records activity for members; stored times never move backwards
	Touch(ctx context.Context, input *TouchInput) error

	// Seed creates records for members that have none, leaving existing ones untouched
	Seed(ctx context.Context, input *SeedInput) error

	// Prune deletes records for members no longer on the roster
	Prune(ctx context.Context, input *PruneInput) (*PruneOutput, error)

	// Read returns every record for a clan
	Read(ctx context.Context, input *ReadInput) (*ReadOutput, error)
}
