package model

type PlaySpinWheelRequest struct {
	IsFree bool `json:"is_free"`
}

type PlaySpinWheelResponse struct {
	Payout uint64 `json:"payout"`
	Points uint64 `json:"points"`
	Streak uint8  `json:"streak"`
}
