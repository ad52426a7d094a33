package entity

import "time"

// MembershipContract is an external account allowed to grant points.
type MembershipContract struct {
	ContractID string `gorm:"primaryKey"`
	AddedBy    string
	CreatedAt  time.Time
}
