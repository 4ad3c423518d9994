package models

import "time"

// Vote is one row of the append-only vote ledger. Votes are never edited or
// deleted; tallies and quotas are always recomputable by counting rows. The
// composite unique index makes a second vote for the same proposal by the
// same voter impossible regardless of request interleaving.
type Vote struct {
	Base
	CycleID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_votes_cycle_voter_proposal;index:idx_votes_cycle_voter" json:"cycle_id"`
	VoterID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_votes_cycle_voter_proposal;index:idx_votes_cycle_voter" json:"voter_id"`
	ProposalID string    `gorm:"type:uuid;not null;uniqueIndex:idx_votes_cycle_voter_proposal;index" json:"proposal_id"`
	VotedAt    time.Time `gorm:"not null" json:"voted_at"`
}

// VoterBallot is the per-voter quota counter for one cycle. It is a
// concurrency guard, not a source of truth: the vote ledger remains the
// authoritative count. The counter is only ever advanced by a conditional
// UPDATE (votes_cast < max) inside the same transaction that inserts the
// vote row, so two racing casts can never jointly exceed the quota.
type VoterBallot struct {
	CycleID   string    `gorm:"type:uuid;primaryKey" json:"cycle_id"`
	VoterID   string    `gorm:"type:uuid;primaryKey" json:"voter_id"`
	VotesCast int       `gorm:"not null;default:0" json:"votes_cast"`
	UpdatedAt time.Time `json:"updated_at"`
}
