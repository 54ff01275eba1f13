package tracker

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/clanboard/internal/services/tracker Service

import (
	"context"
)

// Service runs one tracking loop per configured clan and applies live configuration changes
type Service interface {
	// Start restores every persisted configuration and starts its loop
	Start(ctx context.Context) error

	// Stop cancels every loop and waits for them to exit
	Stop()

	// Configure enables or updates one sink and restarts the clan's loop
	Configure(ctx context.Context, input *ConfigureInput) (*ConfigureOutput, error)

	// Deconfigure disables one sink, or every sink when SinkType is empty.
	// The loop stops once no sink is left.
	Deconfigure(ctx context.Context, input *DeconfigureInput) (*DeconfigureOutput, error)

	// OnMembershipChanged registers a listener called once per cycle with joins or leaves
	OnMembershipChanged(listener MembershipListener)
}
