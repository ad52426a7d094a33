package domain

import (
	"context"

	"github.com/questx-lab/arkana/internal/common"
	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/model"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/xcontext"
)

type MembershipDomain interface {
	Add(context.Context, *model.AddMembershipContractRequest) (*model.AddMembershipContractResponse, error)
	Remove(context.Context, *model.RemoveMembershipContractRequest) (*model.RemoveMembershipContractResponse, error)
	GetList(context.Context, *model.GetMembershipContractsRequest) (*model.GetMembershipContractsResponse, error)
}

type membershipDomain struct {
	membershipRepo repository.MembershipRepository
	executor       *common.Executor
	ownerVerifier  *common.OwnerVerifier
}

func NewMembershipDomain(
	membershipRepo repository.MembershipRepository,
	contractStateRepo repository.ContractStateRepository,
	executor *common.Executor,
) MembershipDomain {
	return &membershipDomain{
		membershipRepo: membershipRepo,
		executor:       executor,
		ownerVerifier:  common.NewOwnerVerifier(contractStateRepo),
	}
}

func (d *membershipDomain) Add(
	ctx context.Context, req *model.AddMembershipContractRequest,
) (*model.AddMembershipContractResponse, error) {
	err := d.executor.Execute(ctx, func(ctx context.Context) error {
		if err := d.ownerVerifier.Verify(ctx); err != nil {
			return err
		}

		if req.ContractID == "" {
			return errorx.New(errorx.BadRequest, "Require contract_id")
		}

		err := d.membershipRepo.Add(ctx, &entity.MembershipContract{
			ContractID: req.ContractID,
			AddedBy:    xcontext.RequestUserID(ctx),
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot add membership contract: %v", err)
			return errorx.Unknown
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.AddMembershipContractResponse{}, nil
}

func (d *membershipDomain) Remove(
	ctx context.Context, req *model.RemoveMembershipContractRequest,
) (*model.RemoveMembershipContractResponse, error) {
	err := d.executor.Execute(ctx, func(ctx context.Context) error {
		if err := d.ownerVerifier.Verify(ctx); err != nil {
			return err
		}

		if err := d.membershipRepo.Remove(ctx, req.ContractID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot remove membership contract: %v", err)
			return errorx.Unknown
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.RemoveMembershipContractResponse{}, nil
}

func (d *membershipDomain) GetList(
	ctx context.Context, req *model.GetMembershipContractsRequest,
) (*model.GetMembershipContractsResponse, error) {
	contracts, err := d.membershipRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get membership contracts: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.MembershipContract{}
	for i := range contracts {
		result = append(result, convertMembershipContract(&contracts[i]))
	}

	return &model.GetMembershipContractsResponse{Contracts: result}, nil
}
