package coc

//go:generate mockgen -package=mocks -destination=mocks/mock_client.go github.com/KirkDiggler/clanboard/internal/clients/coc Client

import (
	"context"

	"github.com/KirkDiggler/clanboard/internal/models"
)

// Client is the read side of the external clan API
type Client interface {
	// GetClan fetches a full roster snapshot for a clan
	GetClan(ctx context.Context, input *GetClanInput) (*models.Clan, error)

	// GetPlayer fetches a single player's profile
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error)
}
