package entity

const ContractStateID = 1

// ContractState is the single record holding the contract parameters and its
// global counters.
type ContractState struct {
	Base

	ID int `gorm:"primaryKey;autoIncrement:false"`

	Owner            string
	DailyClaimPoints uint64
	SpinWheelPrice   uint64

	LastRewardID uint64

	// SpinwheelWR is the contract-wide pity counter, only used when the pity
	// scope is "global".
	SpinwheelWR uint8
}
