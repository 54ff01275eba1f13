package models

// DonationDelta is a positive counter movement for one member
type DonationDelta struct {
	Tag   string
	Name  string
	Delta int
}

// ChangeSet is the difference between two consecutive snapshots of one clan
type ChangeSet struct {
	// Baseline is set when there was no previous snapshot; no events are emitted
	Baseline bool

	// Donated lists donation increases in roster order
	Donated []DonationDelta

	// Received lists receipt increases in roster order
	Received []DonationDelta

	// Joined lists tags present now but absent previously
	Joined []string

	// Left lists tags present previously but absent now
	Left []string

	// Active lists tags with any activity signal in roster order
	Active []string
}

// IsEmpty reports whether no donation or membership event is present
func (c *ChangeSet) IsEmpty() bool {
	return len(c.Donated) == 0 && len(c.Received) == 0 && len(c.Joined) == 0 && len(c.Left) == 0
}

// HasDonations reports whether the donation sink has anything to render
func (c *ChangeSet) HasDonations() bool {
	return len(c.Donated) > 0 || len(c.Received) > 0
}

// MembershipChanged reports whether anyone joined or left
func (c *ChangeSet) MembershipChanged() bool {
	return len(c.Joined) > 0 || len(c.Left) > 0
}

// TotalDonated sums the donated deltas
func (c *ChangeSet) TotalDonated() int {
	total := 0
	for _, d := range c.Donated {
		total += d.Delta
	}
	return total
}

// TotalReceived sums the received deltas
func (c *ChangeSet) TotalReceived() int {
	total := 0
	for _, d := range c.Received {
		total += d.Delta
	}
	return total
}
