package model

type CreateRewardRequest struct {
	Title   string `json:"title"`
	Price   uint64 `json:"price"`
	EndedAt uint64 `json:"ended_at"`
}

type CreateRewardResponse struct {
	ID uint64 `json:"id"`
}

type BuyTicketRequest struct {
	RewardID uint64 `json:"reward_id"`
	Amount   uint64 `json:"amount"`
}

type BuyTicketResponse struct {
	RewardID uint64 `json:"reward_id"`
	Amount   uint64 `json:"amount"`
}

type FinalizeRewardRequest struct {
	RewardID uint64 `json:"reward_id"`
}

type FinalizeRewardResponse struct {
	Winner string `json:"winner"`
}

type GetRewardRequest struct {
	RewardID uint64 `json:"reward_id" form:"reward_id"`
}

type GetRewardResponse struct {
	Reward Reward `json:"reward"`
}

type GetListRewardRequest struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetListRewardResponse struct {
	Rewards []Reward `json:"rewards"`
}

type GetRewardTicketsRequest struct {
	RewardID uint64 `json:"reward_id" form:"reward_id"`
}

type GetRewardTicketsResponse struct {
	Tickets []RewardTicket `json:"tickets"`
}
