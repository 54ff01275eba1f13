package dispatch

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/KirkDiggler/clanboard/internal/services/delivery"
	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

const (
	defaultColor = 0x3498db // Blue
	joinColor    = 0x2ecc71 // Green
	leaveColor   = 0xe74c3c // Red

	// Discord rejects embed fields longer than this
	maxFieldLength = 1024

	unmatchedDonationNote = "unmatched donation, membership changed"
)

type memberEvent string

const (
	memberJoined memberEvent = "joined"
	memberLeft   memberEvent = "left"
)

func colorOr(sink *models.SinkConfig, fallback int) int {
	if sink != nil && sink.Color != 0 {
		return sink.Color
	}
	return fallback
}

// renderDonations renders the donation ledger for one cycle. Entries keep roster order.
func renderDonations(clan *models.Clan, cs *models.ChangeSet, sink *models.SinkConfig, unmatched bool) *delivery.Payload {
	var fields []*discordgo.MessageEmbedField

	if len(cs.Donated) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Donated (%d)", cs.TotalDonated()),
			Value:  joinLines(donationLines(cs.Donated), maxFieldLength),
			Inline: true,
		})
	}

	if len(cs.Received) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Received (%d)", cs.TotalReceived()),
			Value:  joinLines(donationLines(cs.Received), maxFieldLength),
			Inline: true,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("%s donations", clan.Name),
		Color:  colorOr(sink, defaultColor),
		Fields: fields,
	}

	if unmatched {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: unmatchedDonationNote}
	}

	return &delivery.Payload{Embeds: []*discordgo.MessageEmbed{embed}}
}

func donationLines(deltas []models.DonationDelta) []string {
	lines := make([]string, 0, len(deltas))
	for _, d := range deltas {
		name := d.Name
		if name == "" {
			name = d.Tag
		}
		lines = append(lines, fmt.Sprintf("`+%d` %s", d.Delta, name))
	}
	return lines
}

// renderMemberEvent renders one feed entry. member and profile may be nil when the
// roster entry or the profile lookup is unavailable.
func renderMemberEvent(event memberEvent, tag string, clan *models.Clan, member *models.Member, profile *models.Player, sink *models.SinkConfig) *delivery.Payload {
	name := tag
	switch {
	case profile != nil && profile.Name != "":
		name = profile.Name
	case member != nil && member.Name != "":
		name = member.Name
	}

	color := colorOr(sink, joinColor)
	title := fmt.Sprintf("%s joined %s", name, clan.Name)
	if event == memberLeft {
		color = leaveColor
		title = fmt.Sprintf("%s left %s", name, clan.Name)
	}

	var fields []*discordgo.MessageEmbedField
	addField := func(label string, value int) {
		if value > 0 {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   label,
				Value:  fmt.Sprintf("%d", value),
				Inline: true,
			})
		}
	}

	if profile != nil {
		addField("Town Hall", profile.TownHallLevel)
		addField("Level", profile.ExpLevel)
		addField("Trophies", profile.Trophies)
		addField("Best Trophies", profile.BestTrophies)
		addField("War Stars", profile.WarStars)
		if profile.League != "" {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   "League",
				Value:  profile.League,
				Inline: true,
			})
		}
	} else if member != nil {
		addField("Town Hall", member.TownHallLevel)
		addField("Level", member.ExpLevel)
		addField("Trophies", member.Trophies)
	}

	return &delivery.Payload{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       title,
				Description: tag,
				Color:       color,
				Fields:      fields,
			},
		},
	}
}

// sortByLastSeen orders members by most recent activity. Members without a record go
// last and ties keep roster order.
func sortByLastSeen(members []*models.Member, lastSeen map[string]time.Time) []*models.Member {
	sorted := make([]*models.Member, len(members))
	copy(sorted, members)

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, iok := lastSeen[sorted[i].Tag]
		tj, jok := lastSeen[sorted[j].Tag]
		if iok != jok {
			return iok
		}
		return ti.After(tj)
	})

	return sorted
}

// renderBoard renders the last-active leaderboard for the whole roster
func renderBoard(clan *models.Clan, lastSeen map[string]time.Time, now time.Time, sink *models.SinkConfig) *delivery.Payload {
	var b strings.Builder
	for i, m := range sortByLastSeen(clan.MemberList, lastSeen) {
		seen := "unknown"
		if t, ok := lastSeen[m.Tag]; ok {
			seen = humanize.RelTime(t, now, "ago", "from now")
		}
		fmt.Fprintf(&b, "`%2d.` **%s** %s\n", i+1, m.Name, seen)
	}

	description := b.String()
	if description == "" {
		description = "No members"
	}

	return &delivery.Payload{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       fmt.Sprintf("%s last active", clan.Name),
				Description: description,
				Color:       colorOr(sink, defaultColor),
				Footer:      &discordgo.MessageEmbedFooter{Text: "Last updated"},
				Timestamp:   now.UTC().Format(time.RFC3339),
			},
		},
	}
}

// townHallDistribution returns "TH15: 3, TH14: 10" ordered by level descending
func townHallDistribution(members []*models.Member) string {
	counts := make(map[int]int)
	for _, m := range members {
		counts[m.TownHallLevel]++
	}

	levels := make([]int, 0, len(counts))
	for level := range counts {
		levels = append(levels, level)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))

	parts := make([]string, 0, len(levels))
	for _, level := range levels {
		parts = append(parts, fmt.Sprintf("TH%d: %d", level, counts[level]))
	}
	return strings.Join(parts, ", ")
}

// renderSummary renders the promotional clan summary from the snapshot alone
func renderSummary(clan *models.Clan, sink *models.SinkConfig) *delivery.Payload {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Level", Value: fmt.Sprintf("%d", clan.ClanLevel), Inline: true},
		{Name: "Members", Value: fmt.Sprintf("%d/50", len(clan.MemberList)), Inline: true},
		{Name: "War Record", Value: fmt.Sprintf("%d W / %d L / %d T", clan.WarWins, clan.WarLosses, clan.WarTies), Inline: true},
	}

	if clan.WarWinStreak > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Win Streak",
			Value:  fmt.Sprintf("%d", clan.WarWinStreak),
			Inline: true,
		})
	}

	warLog := "Private"
	if clan.IsWarLogPublic {
		warLog = "Public"
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: "War Log", Value: warLog, Inline: true})

	if clan.Location != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Location", Value: clan.Location, Inline: true})
	}

	if dist := townHallDistribution(clan.MemberList); dist != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Town Halls", Value: dist})
	}

	if sink != nil && sink.CustomText != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "\u200b", Value: sink.CustomText})
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s (%s)", clan.Name, clan.Tag),
		Description: clan.Description,
		Color:       colorOr(sink, defaultColor),
		Fields:      fields,
	}

	if clan.BadgeURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: clan.BadgeURL}
	}

	return &delivery.Payload{Embeds: []*discordgo.MessageEmbed{embed}}
}

// joinLines joins lines with newlines. Once the result would exceed limit bytes it keeps as many
// whole lines as fit together with a count of the rest.
func joinLines(lines []string, limit int) string {
	total := len(lines) - 1
	for _, line := range lines {
		total += len(line)
	}
	if total <= limit {
		return strings.Join(lines, "\n")
	}

	more := func(n int) string { return fmt.Sprintf("...and %d more", n) }

	used, kept := 0, 0
	for kept < len(lines) {
		next := used + len(lines[kept]) + 1
		if next+len(more(len(lines)-kept-1)) > limit {
			break
		}
		used = next
		kept++
	}

	if kept == 0 {
		return more(len(lines))
	}
	return strings.Join(lines[:kept], "\n") + "\n" + more(len(lines)-kept)
}
