package tracker

import (
	"context"

	"github.com/KirkDiggler/clanboard/internal/clients/coc"
	"github.com/KirkDiggler/clanboard/internal/metrics"
	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/KirkDiggler/clanboard/internal/repositories/last_seen"
	"github.com/KirkDiggler/clanboard/internal/services/diff"
	"github.com/KirkDiggler/clanboard/internal/services/dispatch"
	"github.com/rs/zerolog"
)

// run cycles until ctx is cancelled, waiting the interval after each completed cycle
func (s *service) run(ctx context.Context, st *trackerState) {
	defer close(st.done)

	for {
		s.cycle(ctx, st)

		timer := s.clock.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}
	}
}

// cycle runs fetch, diff, persist and dispatch for one clan. Every failure is absorbed;
// the next cycle starts from the last successful snapshot.
func (s *service) cycle(ctx context.Context, st *trackerState) {
	if ctx.Err() != nil {
		return
	}

	cfg := st.config
	start := s.clock.Now()
	log := s.log.With().
		Str("guild_id", cfg.GuildID).
		Str("clan_tag", cfg.ClanTag).
		Str("cycle_id", s.uuid.NewUUID()).
		Logger()

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	clan, err := s.clanClient.GetClan(fetchCtx, &coc.GetClanInput{ClanTag: cfg.ClanTag})
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Debug().Err(err).Str("kind", string(coc.KindOf(err))).Msg("snapshot fetch failed, skipping cycle")
		metrics.CyclesTotal.WithLabelValues("fetch_failed").Inc()
		return
	}

	cs := diff.Diff(st.previous, clan)

	s.recordActivity(ctx, cfg.ClanTag, clan, cs, log)

	if cs.MembershipChanged() {
		s.notify(ctx, &MembershipChange{
			GuildID: cfg.GuildID,
			ClanTag: cfg.ClanTag,
			Joined:  cs.Joined,
			Left:    cs.Left,
		})
	}

	out, err := s.dispatcher.Dispatch(ctx, &dispatch.DispatchInput{
		Config:    cfg,
		ChangeSet: cs,
		Clan:      clan,
		Previous:  st.previous,
		Boards:    st.boards,
	})
	if err != nil {
		log.Error().Err(err).Msg("dispatch failed")
	} else {
		delivered := 0
		for _, r := range out.Results {
			delivered += r.Messages
		}
		log.Debug().
			Int("donated", len(cs.Donated)).
			Int("received", len(cs.Received)).
			Int("joined", len(cs.Joined)).
			Int("left", len(cs.Left)).
			Int("messages", delivered).
			Msg("cycle complete")
	}

	st.previous = clan

	result := "ok"
	if cs.Baseline {
		result = "baseline"
	}
	metrics.CyclesTotal.WithLabelValues(result).Inc()
	metrics.CycleDuration.Observe(s.clock.Now().Sub(start).Seconds())
}

// recordActivity updates last seen records from the change set and drops members who
// are gone. Persistence failures are logged and the cycle carries on.
func (s *service) recordActivity(ctx context.Context, clanTag string, clan *models.Clan, cs *models.ChangeSet, log zerolog.Logger) {
	now := s.clock.Now()
	present := clan.MemberTags()

	if cs.Baseline {
		if err := s.lastSeenRepo.Seed(ctx, &last_seen.SeedInput{
			ClanTag:    clanTag,
			MemberTags: present,
			Now:        now,
		}); err != nil {
			log.Warn().Err(err).Msg("failed to seed last seen records")
		}
	} else if len(cs.Active) > 0 {
		if err := s.lastSeenRepo.Touch(ctx, &last_seen.TouchInput{
			ClanTag:    clanTag,
			MemberTags: cs.Active,
			Now:        now,
		}); err != nil {
			log.Warn().Err(err).Msg("failed to record member activity")
		}
	}

	pruned, err := s.lastSeenRepo.Prune(ctx, &last_seen.PruneInput{
		ClanTag:     clanTag,
		PresentTags: present,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to prune last seen records")
		return
	}

	if len(pruned.Removed) > 0 {
		log.Debug().Strs("removed", pruned.Removed).Msg("pruned departed members")
	}
}

func (s *service) notify(ctx context.Context, change *MembershipChange) {
	s.listenersMu.RLock()
	listeners := make([]MembershipListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(ctx, change)
	}
}
