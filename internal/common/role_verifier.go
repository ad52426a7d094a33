package common

import (
	"context"

	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/xcontext"
)

// OwnerVerifier allows only the contract owner.
type OwnerVerifier struct {
	contractStateRepo repository.ContractStateRepository
}

func NewOwnerVerifier(contractStateRepo repository.ContractStateRepository) *OwnerVerifier {
	return &OwnerVerifier{contractStateRepo: contractStateRepo}
}

func (verifier *OwnerVerifier) Verify(ctx context.Context) error {
	state, err := verifier.contractStateRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get contract state: %v", err)
		return errorx.Unknown
	}

	callerID := xcontext.RequestUserID(ctx)
	if callerID == "" || callerID != state.Owner {
		return errorx.New(errorx.Unauthorized, "Only the owner is allowed")
	}

	return nil
}

// MembershipVerifier allows only the accounts on the membership allowlist.
type MembershipVerifier struct {
	membershipRepo repository.MembershipRepository
}

func NewMembershipVerifier(membershipRepo repository.MembershipRepository) *MembershipVerifier {
	return &MembershipVerifier{membershipRepo: membershipRepo}
}

func (verifier *MembershipVerifier) Verify(ctx context.Context) error {
	callerID := xcontext.RequestUserID(ctx)
	if callerID == "" {
		return errorx.New(errorx.Unauthorized, "Only membership contracts are allowed")
	}

	ok, err := verifier.membershipRepo.Exists(ctx, callerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check membership: %v", err)
		return errorx.Unknown
	}

	if !ok {
		return errorx.New(errorx.Unauthorized, "Only membership contracts are allowed")
	}

	return nil
}
