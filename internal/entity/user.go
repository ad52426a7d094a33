package entity

// User is the ledger record of one registered account.
type User struct {
	Base

	ID string `gorm:"primaryKey"`

	Points uint64

	// Timestamps in milliseconds since epoch, zero means never.
	LastDailyClaim    uint64
	LastFreeSpinwheel uint64

	// SpinwheelWR is the per-account pity counter, only used when the pity
	// scope is "account".
	SpinwheelWR uint8
}
