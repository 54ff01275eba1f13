package last_seen

import "time"

// TouchInput contains parameters for recording member activity
type TouchInput struct {
	ClanTag    string
	MemberTags []string
	Now        time.Time
}

// SeedInput contains parameters for seeding records on a baseline cycle
type SeedInput struct {
	ClanTag    string
	MemberTags []string
	Now        time.Time
}

// PruneInput contains parameters for removing departed members
type PruneInput struct {
	ClanTag string

	// PresentTags is the current roster; every other record is deleted
	PresentTags []string
}

// PruneOutput contains the removed member tags
type PruneOutput struct {
	Removed []string
}

// ReadInput contains parameters for reading a clan's records
type ReadInput struct {
	ClanTag string
}

// ReadOutput maps member tag to last observed activity
type ReadOutput struct {
	LastSeen map[string]time.Time
}
