package common

import (
	"testing"

	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/testutil"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestOwnerVerifier(t *testing.T) {
	ctx := testutil.MockContext()
	verifier := NewOwnerVerifier(repository.NewContractStateRepository())

	require.NoError(t, verifier.Verify(xcontext.WithRequestUserID(ctx, testutil.Owner)))

	err := verifier.Verify(xcontext.WithRequestUserID(ctx, "alice"))
	require.True(t, errorx.Is(err, errorx.Unauthorized))

	err = verifier.Verify(ctx)
	require.True(t, errorx.Is(err, errorx.Unauthorized))
}

func TestMembershipVerifier(t *testing.T) {
	ctx := testutil.MockContext()
	membershipRepo := repository.NewMembershipRepository()
	verifier := NewMembershipVerifier(membershipRepo)

	err := verifier.Verify(xcontext.WithRequestUserID(ctx, "partner"))
	require.True(t, errorx.Is(err, errorx.Unauthorized))

	require.NoError(t, membershipRepo.Add(ctx, &entity.MembershipContract{ContractID: "partner"}))
	require.NoError(t, verifier.Verify(xcontext.WithRequestUserID(ctx, "partner")))

	err = verifier.Verify(ctx)
	require.True(t, errorx.Is(err, errorx.Unauthorized))
}
