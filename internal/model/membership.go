package model

type AddMembershipContractRequest struct {
	ContractID string `json:"contract_id"`
}

type AddMembershipContractResponse struct{}

type RemoveMembershipContractRequest struct {
	ContractID string `json:"contract_id"`
}

type RemoveMembershipContractResponse struct{}

type GetMembershipContractsRequest struct{}

type GetMembershipContractsResponse struct {
	Contracts []MembershipContract `json:"contracts"`
}
