package models

// Member is one roster entry of a clan snapshot
type Member struct {
	// Tag is the player tag, e.g. #2PP
	Tag string

	// Name is the in-game display name
	Name string

	// Role is the clan role (member, admin, coLeader, leader)
	Role string

	// ExpLevel is the player's experience level
	ExpLevel int

	// TownHallLevel is the player's town hall level
	TownHallLevel int

	// Trophies is the home village trophy count
	Trophies int

	// VersusTrophies is the builder base trophy count
	VersusTrophies int

	// Donations is the number of troops donated this season
	Donations int

	// DonationsReceived is the number of troops received this season
	DonationsReceived int
}

// Clan is a point-in-time snapshot of a clan and its roster
type Clan struct {
	Tag            string
	Name           string
	Description    string
	ClanLevel      int
	MemberCount    int
	WarWins        int
	WarLosses      int
	WarTies        int
	WarWinStreak   int
	IsWarLogPublic bool
	Location       string
	BadgeURL       string

	// MemberList is in roster order as returned by the API
	MemberList []*Member
}

// MemberTags returns the roster tags in roster order
func (c *Clan) MemberTags() []string {
	tags := make([]string, 0, len(c.MemberList))
	for _, m := range c.MemberList {
		tags = append(tags, m.Tag)
	}
	return tags
}

// MemberByTag returns the roster entry for tag or nil
func (c *Clan) MemberByTag(tag string) *Member {
	for _, m := range c.MemberList {
		if m.Tag == tag {
			return m
		}
	}
	return nil
}

// Player is a single player's profile
type Player struct {
	Tag           string
	Name          string
	ExpLevel      int
	TownHallLevel int
	Trophies      int
	BestTrophies  int
	WarStars      int
	AttackWins    int
	DefenseWins   int
	Role          string
	League        string
}
