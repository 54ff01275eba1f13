package coc

// GetClanInput contains parameters for fetching a clan snapshot
type GetClanInput struct {
	ClanTag string
}

// GetPlayerInput contains parameters for fetching a player profile
type GetPlayerInput struct {
	PlayerTag string
}

// wire types, only the fields the tracker consumes

type labelResponse struct {
	Name string `json:"name"`
}

type badgeResponse struct {
	Medium string `json:"medium"`
}

type memberResponse struct {
	Tag                 string `json:"tag"`
	Name                string `json:"name"`
	Role                string `json:"role"`
	ExpLevel            int    `json:"expLevel"`
	TownHallLevel       int    `json:"townHallLevel"`
	Trophies            int    `json:"trophies"`
	BuilderBaseTrophies int    `json:"builderBaseTrophies"`
	VersusTrophies      int    `json:"versusTrophies"`
	Donations           int    `json:"donations"`
	DonationsReceived   int    `json:"donationsReceived"`
}

type clanResponse struct {
	Tag            string            `json:"tag"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	ClanLevel      int               `json:"clanLevel"`
	Members        int               `json:"members"`
	WarWins        int               `json:"warWins"`
	WarLosses      int               `json:"warLosses"`
	WarTies        int               `json:"warTies"`
	WarWinStreak   int               `json:"warWinStreak"`
	IsWarLogPublic bool              `json:"isWarLogPublic"`
	Location       *labelResponse    `json:"location"`
	BadgeURLs      *badgeResponse    `json:"badgeUrls"`
	MemberList     []*memberResponse `json:"memberList"`
}

type playerResponse struct {
	Tag           string         `json:"tag"`
	Name          string         `json:"name"`
	ExpLevel      int            `json:"expLevel"`
	TownHallLevel int            `json:"townHallLevel"`
	Trophies      int            `json:"trophies"`
	BestTrophies  int            `json:"bestTrophies"`
	WarStars      int            `json:"warStars"`
	AttackWins    int            `json:"attackWins"`
	DefenseWins   int            `json:"defenseWins"`
	Role          string         `json:"role"`
	League        *labelResponse `json:"league"`
}
