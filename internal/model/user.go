package model

type RegisterAccountRequest struct{}

type RegisterAccountResponse struct {
	User User `json:"user"`
}

type DailyClaimPointRequest struct{}

type DailyClaimPointResponse struct {
	Points uint64 `json:"points"`
}

type GetUserRequest struct {
	AccountID string `json:"account_id" form:"account_id"`
}

type GetUserResponse struct {
	User User `json:"user"`

	// Rank is the one-based position on the points leaderboard, 0 if unknown.
	Rank uint64 `json:"rank"`
}

type GeneratePointsRequest struct {
	AccountID string `json:"account_id"`
	Points    uint64 `json:"points"`
}

type GeneratePointsResponse struct {
	Points uint64 `json:"points"`
}

type GetPointHistoryRequest struct {
	AccountID string `json:"account_id" form:"account_id"`
	Reason    string `json:"reason" form:"reason"`
	Offset    int    `json:"offset" form:"offset"`
	Limit     int    `json:"limit" form:"limit"`
}

type GetPointHistoryResponse struct {
	Transactions []PointTransaction `json:"transactions"`
}

type GetLeaderboardRequest struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
