package entity

import "database/sql"

type Reward struct {
	Base

	ID uint64 `gorm:"primaryKey;autoIncrement:false"`

	Title        string
	Price        uint64
	EndedAt      uint64 `gorm:"index"`
	TotalTickets uint64
	Winner       sql.NullString
}

func (r *Reward) IsFinalized() bool {
	return r.Winner.Valid
}

// RewardTicket is one purchase: it owns the ticket range
// [RangeStart, RangeStart+Amount) of the reward.
type RewardTicket struct {
	RewardID uint64 `gorm:"primaryKey;autoIncrement:false"`
	Reward   Reward `gorm:"foreignKey:RewardID"`

	RangeStart uint64 `gorm:"primaryKey;autoIncrement:false"`
	Amount     uint64

	OwnerID string `gorm:"index"`
	Owner   User   `gorm:"foreignKey:OwnerID"`
}
