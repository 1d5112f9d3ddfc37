package core

// ActionType engine operation kind
type ActionType string

const (
	ActionTypeDeposit            ActionType = "deposit"
	ActionTypeMint               ActionType = "mint"
	ActionTypeDepositAndMint     ActionType = "deposit_and_mint"
	ActionTypeRedeem             ActionType = "redeem"
	ActionTypeBurn               ActionType = "burn"
	ActionTypeRedeemForSynthetic ActionType = "redeem_for_synthetic"
	ActionTypeLiquidate          ActionType = "liquidate"
)

func (a ActionType) String() string {
	return string(a)
}
