// Package farm implements the reward accrual engine and the transitions of
// the yield farming ledger: appoint, cultivate, till, sow, uproot and the
// maintenance operations around them.
package farm

import (
	"log/slog"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
	"github.com/meverselabs/farms/core/derive"
	"github.com/meverselabs/farms/core/types"
)

// TokenLedger is the token transfer capability used to move deposits and rewards
type TokenLedger interface {
	BalanceOf(ctx *types.Context, asset common.Address, owner common.Address) *amount.Amount
	Transfer(ctx *types.Context, asset common.Address, authority common.Address, From common.Address, To common.Address, Amount *amount.Amount) error
	CreateCustodialAccount(ctx *types.Context, asset common.Address, authority common.Address, labels ...[]byte) (common.Address, error)
}

type FarmContract struct {
	addr    common.Address
	deriver *derive.Deriver
	token   TokenLedger
	log     *slog.Logger
}

// NewFarmContract returns a FarmContract stored under the program id of the deriver
func NewFarmContract(deriver *derive.Deriver, token TokenLedger, log *slog.Logger) *FarmContract {
	return &FarmContract{
		addr:    deriver.ProgramID(),
		deriver: deriver,
		token:   token,
		log:     log,
	}
}

func (cont *FarmContract) Name() string {
	return "FarmContract"
}

func (cont *FarmContract) Address() common.Address {
	return cont.addr
}

// Context returns the contract context of a transition signed by from
func (cont *FarmContract) Context(ctx *types.Context, from common.Address) *types.ContractContext {
	return ctx.ContractContext(cont.addr, from)
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (cont *FarmContract) RewarderInfo(cc *types.ContractContext, manager common.Address) (*Rewarder, error) {
	rewarder, _, err := cont.loadRewarder(cc, manager)
	return rewarder, err
}

func (cont *FarmContract) CropInfo(cc *types.ContractContext, manager common.Address, id uint64) (*Crop, error) {
	return cont.loadCrop(cc, manager, id)
}

func (cont *FarmContract) PlotInfo(cc *types.ContractContext, manager common.Address, farmer common.Address, id uint64) (*Plot, error) {
	return cont.loadPlot(cc, manager, farmer, id)
}

// PendingReward returns the reward the plot could claim at the context time
// It simulates the accrual without writing anything
func (cont *FarmContract) PendingReward(cc *types.ContractContext, manager common.Address, farmer common.Address, id uint64) (*amount.Amount, error) {
	crop, err := cont.loadCrop(cc, manager, id)
	if err != nil {
		return nil, err
	}
	plot, err := cont.loadPlot(cc, manager, farmer, id)
	if err != nil {
		return nil, err
	}
	accrue(crop, cc.LastTimestamp())
	return owedReward(plot, crop), nil
}

// TreasuryBalances returns the deposit and reward treasury balances of the crop
func (cont *FarmContract) TreasuryBalances(cc *types.ContractContext, manager common.Address, id uint64) (*amount.Amount, *amount.Amount, error) {
	crop, err := cont.loadCrop(cc, manager, id)
	if err != nil {
		return nil, nil, err
	}
	ctx := cc.Context()
	return cont.token.BalanceOf(ctx, crop.DepositAsset, crop.DepositTreasury), cont.token.BalanceOf(ctx, crop.RewardAsset, crop.RewardTreasury), nil
}
