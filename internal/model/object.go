package model

type User struct {
	ID                string `json:"id"`
	Points            uint64 `json:"points"`
	LastDailyClaim    uint64 `json:"last_daily_claim"`
	LastFreeSpinwheel uint64 `json:"last_free_spinwheel"`
	SpinwheelWR       uint8  `json:"spinwheel_wr"`
}

type Reward struct {
	ID           uint64 `json:"id"`
	Title        string `json:"title"`
	Price        uint64 `json:"price"`
	EndedAt      uint64 `json:"ended_at"`
	TotalTickets uint64 `json:"total_tickets"`
	Winner       string `json:"winner,omitempty"`
}

type RewardTicket struct {
	RangeStart uint64 `json:"range_start"`
	Amount     uint64 `json:"amount"`
	OwnerID    string `json:"owner_id"`
}

type MembershipContract struct {
	ContractID string `json:"contract_id"`
	AddedBy    string `json:"added_by"`
	CreatedAt  string `json:"created_at"`
}

type PointTransaction struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Reason       string `json:"reason"`
	Amount       uint64 `json:"amount"`
	BalanceAfter uint64 `json:"balance_after"`
	RefID        string `json:"ref_id,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type LeaderboardEntry struct {
	AccountID string `json:"account_id"`
	Points    uint64 `json:"points"`
	Rank      int    `json:"rank"`
}
