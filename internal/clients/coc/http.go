package coc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KirkDiggler/clanboard/internal/metrics"
	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public API root
	DefaultBaseURL = "https://api.clashofclans.com/v1"

	defaultRequestsPerSecond = 10
	defaultHTTPTimeout       = 15 * time.Second
	breakerOpenTimeout       = 30 * time.Second
	breakerTripAfter         = 5
)

// Config holds configuration for the HTTP clan API client
type Config struct {
	// Token is the API bearer token
	Token string

	// BaseURL overrides DefaultBaseURL
	BaseURL string

	// RequestsPerSecond bounds outgoing requests across all tracking loops
	RequestsPerSecond int

	// HTTPClient is optional; a client with a 15s timeout is used when nil
	HTTPClient *http.Client

	Logger zerolog.Logger
}

// httpClient implements the Client interface over the REST API
type httpClient struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// New creates an HTTP backed API client
func New(cfg *Config) (*httpClient, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Token == "" {
		return nil, ErrEmptyToken
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultHTTPTimeout}
	}

	log := cfg.Logger.With().Str("component", "clan_api").Logger()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "clan-api",
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		// a missing clan or player says nothing about API health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("clan api circuit breaker state changed")
			metrics.CircuitBreakerState.Set(float64(to))
		},
	})

	return &httpClient{
		baseURL: baseURL,
		token:   cfg.Token,
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		breaker: breaker,
		log:     log,
	}, nil
}

// GetClan fetches a full roster snapshot for a clan
func (c *httpClient) GetClan(ctx context.Context, input *GetClanInput) (*models.Clan, error) {
	if input == nil || NormalizeTag(input.ClanTag) == "" {
		return nil, ErrEmptyTag
	}

	var resp clanResponse
	if err := c.get(ctx, "clan", "/clans/"+url.PathEscape(NormalizeTag(input.ClanTag)), &resp); err != nil {
		return nil, err
	}

	return resp.toModel(), nil
}

// GetPlayer fetches a single player's profile
func (c *httpClient) GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error) {
	if input == nil || NormalizeTag(input.PlayerTag) == "" {
		return nil, ErrEmptyTag
	}

	var resp playerResponse
	if err := c.get(ctx, "player", "/players/"+url.PathEscape(NormalizeTag(input.PlayerTag)), &resp); err != nil {
		return nil, err
	}

	return resp.toModel(), nil
}

func (c *httpClient) get(ctx context.Context, endpoint, path string, out any) error {
	// Wait fails early when the deadline cannot accommodate the next token
	if err := c.limiter.Wait(ctx); err != nil {
		return c.observe(endpoint, &FetchError{Kind: KindTimeout, Err: err})
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, path, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &FetchError{Kind: KindServiceUnavailable, Err: err}
	}

	return c.observe(endpoint, err)
}

func (c *httpClient) observe(endpoint string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
	}
	metrics.ClanAPIRequests.WithLabelValues(endpoint, outcome).Inc()
	return err
}

func (c *httpClient) do(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &FetchError{Kind: KindUnknown, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &FetchError{Kind: KindUnknown, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return &FetchError{Kind: KindNotFound, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		// 503 is also what the API returns during maintenance
		return &FetchError{Kind: KindServiceUnavailable, StatusCode: resp.StatusCode, Err: readReason(resp.Body)}
	default:
		return &FetchError{Kind: KindUnknown, StatusCode: resp.StatusCode, Err: readReason(resp.Body)}
	}
}

func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Kind: KindTimeout, Err: err}
	}
	return &FetchError{Kind: KindUnknown, Err: err}
}

func readReason(body io.Reader) error {
	var payload struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || json.Unmarshal(data, &payload) != nil || payload.Reason == "" {
		return nil
	}
	if payload.Message != "" {
		return fmt.Errorf("%s: %s", payload.Reason, payload.Message)
	}
	return errors.New(payload.Reason)
}

func (r *clanResponse) toModel() *models.Clan {
	clan := &models.Clan{
		Tag:            r.Tag,
		Name:           r.Name,
		Description:    r.Description,
		ClanLevel:      r.ClanLevel,
		MemberCount:    r.Members,
		WarWins:        r.WarWins,
		WarLosses:      r.WarLosses,
		WarTies:        r.WarTies,
		WarWinStreak:   r.WarWinStreak,
		IsWarLogPublic: r.IsWarLogPublic,
		MemberList:     make([]*models.Member, 0, len(r.MemberList)),
	}
	if r.Location != nil {
		clan.Location = r.Location.Name
	}
	if r.BadgeURLs != nil {
		clan.BadgeURL = r.BadgeURLs.Medium
	}

	for _, m := range r.MemberList {
		versus := m.BuilderBaseTrophies
		if versus == 0 {
			versus = m.VersusTrophies
		}
		clan.MemberList = append(clan.MemberList, &models.Member{
			Tag:               m.Tag,
			Name:              m.Name,
			Role:              m.Role,
			ExpLevel:          m.ExpLevel,
			TownHallLevel:     m.TownHallLevel,
			Trophies:          m.Trophies,
			VersusTrophies:    versus,
			Donations:         m.Donations,
			DonationsReceived: m.DonationsReceived,
		})
	}

	return clan
}

func (r *playerResponse) toModel() *models.Player {
	player := &models.Player{
		Tag:           r.Tag,
		Name:          r.Name,
		ExpLevel:      r.ExpLevel,
		TownHallLevel: r.TownHallLevel,
		Trophies:      r.Trophies,
		BestTrophies:  r.BestTrophies,
		WarStars:      r.WarStars,
		AttackWins:    r.AttackWins,
		DefenseWins:   r.DefenseWins,
		Role:          r.Role,
	}
	if r.League != nil {
		player.League = r.League.Name
	}
	return player
}
