package entity

import (
	"context"

	"github.com/questx-lab/arkana/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&ContractState{},
		&Reward{},
		&RewardTicket{},
		&MembershipContract{},
		&PointTransaction{},
	)
}
