package diff

import (
	"testing"

	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/stretchr/testify/suite"
)

type DiffTestSuite struct {
	suite.Suite
}

func TestDiffTestSuite(t *testing.T) {
	suite.Run(t, new(DiffTestSuite))
}

func clan(members ...*models.Member) *models.Clan {
	return &models.Clan{Tag: "#CLAN", MemberList: members}
}

func member(tag string, donated, received int) *models.Member {
	return &models.Member{Tag: tag, Name: "name-" + tag, Donations: donated, DonationsReceived: received}
}

func (s *DiffTestSuite) TestBaselineEmitsNothing() {
	cs := Diff(nil, clan(member("#A", 100, 0), member("#B", 5, 7)))

	s.True(cs.Baseline)
	s.True(cs.IsEmpty())
	s.Empty(cs.Active)
}

func (s *DiffTestSuite) TestDonationIncrease() {
	cs := Diff(clan(member("#A", 10, 0)), clan(member("#A", 25, 0)))

	s.False(cs.Baseline)
	s.Equal([]models.DonationDelta{{Tag: "#A", Name: "name-#A", Delta: 15}}, cs.Donated)
	s.Empty(cs.Received)
	s.Equal([]string{"#A"}, cs.Active)
}

func (s *DiffTestSuite) TestCounterResetIsNotNegative() {
	cs := Diff(clan(member("#A", 500, 300)), clan(member("#A", 0, 0)))

	s.Empty(cs.Donated)
	s.Empty(cs.Received)
	s.Empty(cs.Active)
	s.True(cs.IsEmpty())
}

func (s *DiffTestSuite) TestReceivedIncrease() {
	cs := Diff(clan(member("#A", 0, 3)), clan(member("#A", 0, 9)))

	s.Empty(cs.Donated)
	s.Equal([]models.DonationDelta{{Tag: "#A", Name: "name-#A", Delta: 6}}, cs.Received)
}

func (s *DiffTestSuite) TestLeftMember() {
	cs := Diff(clan(member("#A", 0, 0), member("#B", 0, 0)), clan(member("#A", 0, 0)))

	s.Equal([]string{"#B"}, cs.Left)
	s.Empty(cs.Joined)
	s.True(cs.MembershipChanged())
}

func (s *DiffTestSuite) TestJoinedMemberIsActive() {
	cs := Diff(clan(member("#A", 0, 0)), clan(member("#A", 0, 0), member("#C", 40, 0)))

	s.Equal([]string{"#C"}, cs.Joined)
	s.Equal([]string{"#C"}, cs.Active)
	s.Empty(cs.Donated, "a joining member's counters are not a donation delta")
}

func (s *DiffTestSuite) TestUnchangedMemberEmitsNothing() {
	cs := Diff(clan(member("#A", 7, 7)), clan(member("#A", 7, 7)))

	s.True(cs.IsEmpty())
	s.Empty(cs.Active)
}

func (s *DiffTestSuite) TestNameChangeAndLevelUpAreActivity() {
	prev := clan(&models.Member{Tag: "#A", Name: "old", ExpLevel: 100}, &models.Member{Tag: "#B", Name: "b", ExpLevel: 50})
	curr := clan(&models.Member{Tag: "#A", Name: "new", ExpLevel: 100}, &models.Member{Tag: "#B", Name: "b", ExpLevel: 51})

	cs := Diff(prev, curr)

	s.True(cs.IsEmpty())
	s.Equal([]string{"#A", "#B"}, cs.Active)
}

func (s *DiffTestSuite) TestRosterOrderIsPreserved() {
	prev := clan(member("#Z", 0, 0), member("#A", 0, 0), member("#M", 0, 0))
	curr := clan(member("#Z", 1, 0), member("#A", 5, 0), member("#M", 3, 0))

	cs := Diff(prev, curr)

	s.Require().Len(cs.Donated, 3)
	s.Equal("#Z", cs.Donated[0].Tag)
	s.Equal("#A", cs.Donated[1].Tag)
	s.Equal("#M", cs.Donated[2].Tag)
}

func (s *DiffTestSuite) TestDeterministic() {
	prev := clan(member("#A", 1, 2), member("#B", 3, 4), member("#C", 0, 0))
	curr := clan(member("#B", 5, 4), member("#D", 0, 0), member("#A", 1, 9))

	first := Diff(prev, curr)
	for i := 0; i < 20; i++ {
		s.Equal(first, Diff(prev, curr))
	}
}

func (s *DiffTestSuite) TestJoinThenLeaveAcrossCycles() {
	c1 := clan(member("#A", 0, 0))
	c2 := clan(member("#A", 0, 0), member("#B", 0, 0))
	c3 := clan(member("#A", 0, 0))

	first := Diff(c1, c2)
	s.Equal([]string{"#B"}, first.Joined)
	s.Empty(first.Left)

	second := Diff(c2, c3)
	s.Empty(second.Joined)
	s.Equal([]string{"#B"}, second.Left)
}

func (s *DiffTestSuite) TestTotals() {
	cs := Diff(
		clan(member("#A", 0, 0), member("#B", 0, 0)),
		clan(member("#A", 10, 2), member("#B", 0, 8)),
	)

	s.Equal(10, cs.TotalDonated())
	s.Equal(10, cs.TotalReceived())
}
