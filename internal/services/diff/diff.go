// Package diff computes the change-set between two consecutive clan snapshots.
package diff

import "github.com/KirkDiggler/clanboard/internal/models"

// Diff compares the previous snapshot to the current one.
//
// A nil previous snapshot is a baseline: nothing is reported and the caller seeds
// last-seen records instead. Counter decreases (season resets) never produce a delta.
// All slices follow the roster order of the snapshot they come from.
func Diff(previous, current *models.Clan) *models.ChangeSet {
	cs := &models.ChangeSet{
		Donated:  []models.DonationDelta{},
		Received: []models.DonationDelta{},
		Joined:   []string{},
		Left:     []string{},
		Active:   []string{},
	}

	if current == nil {
		return cs
	}

	if previous == nil {
		cs.Baseline = true
		return cs
	}

	before := make(map[string]*models.Member, len(previous.MemberList))
	for _, m := range previous.MemberList {
		before[m.Tag] = m
	}

	now := make(map[string]struct{}, len(current.MemberList))
	for _, m := range current.MemberList {
		now[m.Tag] = struct{}{}

		prev, ok := before[m.Tag]
		if !ok {
			cs.Joined = append(cs.Joined, m.Tag)
			cs.Active = append(cs.Active, m.Tag)
			continue
		}

		active := false

		if delta := m.Donations - prev.Donations; delta > 0 {
			cs.Donated = append(cs.Donated, models.DonationDelta{Tag: m.Tag, Name: m.Name, Delta: delta})
			active = true
		}

		if delta := m.DonationsReceived - prev.DonationsReceived; delta > 0 {
			cs.Received = append(cs.Received, models.DonationDelta{Tag: m.Tag, Name: m.Name, Delta: delta})
			active = true
		}

		if m.Name != prev.Name || m.ExpLevel > prev.ExpLevel {
			active = true
		}

		if active {
			cs.Active = append(cs.Active, m.Tag)
		}
	}

	for _, m := range previous.MemberList {
		if _, ok := now[m.Tag]; !ok {
			cs.Left = append(cs.Left, m.Tag)
		}
	}

	return cs
}
