package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	Internal         Code = 100007
	Conflict         Code = 100009

	// Ledger codes
	Unauthorized       Code = 200001
	AlreadyRegistered  Code = 200002
	InsufficientPoints Code = 200003
	CooldownActive     Code = 200004

	// Reward codes
	RewardEnded      Code = 300001
	RewardNotEnded   Code = 300002
	AlreadyFinalized Code = 300003
	NoTicketsSold    Code = 300004
)
