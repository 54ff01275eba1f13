package dispatch

import (
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testClan() *models.Clan {
	return &models.Clan{
		Tag:       "#CLAN",
		Name:      "Night Owls",
		ClanLevel: 12,
		WarWins:   100,
		WarLosses: 20,
		WarTies:   3,
		MemberList: []*models.Member{
			{Tag: "#A", Name: "Alpha", TownHallLevel: 15},
			{Tag: "#B", Name: "Bravo", TownHallLevel: 14},
			{Tag: "#C", Name: "Charlie", TownHallLevel: 15},
			{Tag: "#D", Name: "Delta", TownHallLevel: 12},
		},
	}
}

func tags(members []*models.Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.Tag)
	}
	return out
}

func TestSortByLastSeen(t *testing.T) {
	clan := testClan()

	t.Run("most recent first, unknown last", func(t *testing.T) {
		lastSeen := map[string]time.Time{
			"#B": testNow.Add(-time.Hour),
			"#D": testNow.Add(-time.Minute),
		}

		sorted := sortByLastSeen(clan.MemberList, lastSeen)

		assert.Equal(t, []string{"#D", "#B", "#A", "#C"}, tags(sorted))
	})

	t.Run("equal times keep roster order", func(t *testing.T) {
		same := testNow.Add(-2 * time.Hour)
		lastSeen := map[string]time.Time{
			"#A": same,
			"#B": same,
			"#C": same,
			"#D": same,
		}

		sorted := sortByLastSeen(clan.MemberList, lastSeen)

		assert.Equal(t, []string{"#A", "#B", "#C", "#D"}, tags(sorted))
	})

	t.Run("does not reorder the snapshot", func(t *testing.T) {
		lastSeen := map[string]time.Time{"#D": testNow}

		sortByLastSeen(clan.MemberList, lastSeen)

		assert.Equal(t, []string{"#A", "#B", "#C", "#D"}, tags(clan.MemberList))
	})
}

func TestRenderBoard(t *testing.T) {
	lastSeen := map[string]time.Time{"#C": testNow.Add(-10 * time.Minute)}

	payload := renderBoard(testClan(), lastSeen, testNow, &models.SinkConfig{ChannelID: "c", Color: 0x123456})

	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, 0x123456, embed.Color)

	lines := strings.Split(strings.TrimSpace(embed.Description), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Charlie")
	assert.Contains(t, lines[0], "10 minutes ago")
	assert.Contains(t, lines[1], "Alpha")
	assert.Contains(t, lines[1], "unknown")
}

func TestRenderDonations(t *testing.T) {
	cs := &models.ChangeSet{
		Donated:  []models.DonationDelta{{Tag: "#B", Name: "Bravo", Delta: 15}, {Tag: "#A", Name: "Alpha", Delta: 5}},
		Received: []models.DonationDelta{{Tag: "#C", Name: "Charlie", Delta: 10}},
		Joined:   []string{"#E"},
	}

	t.Run("keeps roster order", func(t *testing.T) {
		payload := renderDonations(testClan(), cs, &models.SinkConfig{}, false)

		require.Len(t, payload.Embeds, 1)
		fields := payload.Embeds[0].Fields
		require.Len(t, fields, 2)
		assert.Equal(t, "Donated (20)", fields[0].Name)
		assert.Equal(t, "`+15` Bravo\n`+5` Alpha", fields[0].Value)
		assert.Equal(t, "Received (10)", fields[1].Name)
		assert.Nil(t, payload.Embeds[0].Footer)
	})

	t.Run("annotates unmatched totals", func(t *testing.T) {
		payload := renderDonations(testClan(), cs, &models.SinkConfig{}, true)

		require.NotNil(t, payload.Embeds[0].Footer)
		assert.Equal(t, unmatchedDonationNote, payload.Embeds[0].Footer.Text)
	})
}

func TestRenderMemberEvent(t *testing.T) {
	clan := testClan()

	t.Run("profile name wins", func(t *testing.T) {
		payload := renderMemberEvent(memberJoined, "#A", clan, clan.MemberList[0], &models.Player{Name: "Alpha Prime", TownHallLevel: 15}, nil)

		assert.Equal(t, "Alpha Prime joined Night Owls", payload.Embeds[0].Title)
		assert.Equal(t, joinColor, payload.Embeds[0].Color)
	})

	t.Run("falls back to tag", func(t *testing.T) {
		payload := renderMemberEvent(memberLeft, "#GONE", clan, nil, nil, nil)

		assert.Equal(t, "#GONE left Night Owls", payload.Embeds[0].Title)
		assert.Equal(t, leaveColor, payload.Embeds[0].Color)
		assert.Empty(t, payload.Embeds[0].Fields)
	})
}

func TestRenderSummary(t *testing.T) {
	clan := testClan()
	clan.Location = "International"

	payload := renderSummary(clan, &models.SinkConfig{CustomText: "Join us!"})

	embed := payload.Embeds[0]
	assert.Equal(t, "Night Owls (#CLAN)", embed.Title)

	values := make(map[string]string)
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "12", values["Level"])
	assert.Equal(t, "4/50", values["Members"])
	assert.Equal(t, "100 W / 20 L / 3 T", values["War Record"])
	assert.Equal(t, "International", values["Location"])
	assert.Equal(t, "TH15: 2, TH14: 1, TH12: 1", values["Town Halls"])
	assert.Equal(t, "Join us!", values["\u200b"])
}

func TestJoinLines(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		assert.Equal(t, "a\nb", joinLines([]string{"a", "b"}, 100))
	})

	t.Run("truncates with count", func(t *testing.T) {
		lines := make([]string, 100)
		for i := range lines {
			lines[i] = strings.Repeat("x", 20)
		}

		out := joinLines(lines, 200)

		assert.LessOrEqual(t, len(out), 200)
		assert.True(t, strings.HasSuffix(out, "more"))
	})

	t.Run("exact fit is not truncated", func(t *testing.T) {
		lines := []string{strings.Repeat("x", 10), strings.Repeat("y", 9)}

		assert.Equal(t, lines[0]+"\n"+lines[1], joinLines(lines, 20))
	})

	t.Run("keeps whole lines and counts the rest", func(t *testing.T) {
		lines := []string{"aaaa", "bbbb", "cccc", "dddd", "eeee"}

		// a second line would need 10 bytes plus "...and 3 more"
		assert.Equal(t, "aaaa\n...and 4 more", joinLines(lines, 20))
	})

	t.Run("never exceeds the field limit", func(t *testing.T) {
		for _, lineLen := range []int{1, 3, 7, 20, 45, 120} {
			for _, count := range []int{1, 10, 99, 100, 255, 256, 1000, 1001} {
				lines := make([]string, count)
				for i := range lines {
					lines[i] = strings.Repeat("x", lineLen)
				}

				out := joinLines(lines, maxFieldLength)

				assert.LessOrEqual(t, len(out), maxFieldLength, "line length %d count %d", lineLen, count)
			}
		}
	})
}
