package entity

import "github.com/questx-lab/arkana/pkg/enum"

type PointTransactionType string

var (
	PointCredit = enum.New(PointTransactionType("credit"))
	PointDebit  = enum.New(PointTransactionType("debit"))
)

type PointTransactionReason string

var (
	ReasonDailyClaim      = enum.New(PointTransactionReason("daily_claim"))
	ReasonSpinWheelPrice  = enum.New(PointTransactionReason("spin_wheel_price"))
	ReasonSpinWheelPayout = enum.New(PointTransactionReason("spin_wheel_payout"))
	ReasonBuyTicket       = enum.New(PointTransactionReason("buy_ticket"))
	ReasonGeneratePoints  = enum.New(PointTransactionReason("generate_points"))
)

// PointTransaction is one line of the points ledger history.
type PointTransaction struct {
	SnowFlakeBase

	AccountID string `gorm:"index"`
	Account   User   `gorm:"foreignKey:AccountID"`

	Type         PointTransactionType
	Reason       PointTransactionReason
	Amount       uint64
	BalanceAfter uint64

	// RefID links the transaction to its cause, e.g. a reward id or the
	// membership contract which granted the points.
	RefID string
}
