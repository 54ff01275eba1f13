package models

import "time"

// LastSeen is the last observed activity of one clan member
type LastSeen struct {
	// ClanTag is the clan the member was observed in
	ClanTag string

	// MemberTag is the member's player tag
	MemberTag string

	// LastOnline is when activity was last detected
	LastOnline time.Time
}
