package farm

import (
	"github.com/pkg/errors"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
	"github.com/meverselabs/farms/core/types"
)

//////////////////////////////////////////////////
// Public Writer Functions
//////////////////////////////////////////////////

// Till opens an empty plot of the farmer in the crop, it never resets an existing plot
func (cont *FarmContract) Till(cc *types.ContractContext, manager common.Address, farmer common.Address, id uint64) (*Plot, error) {
	if _, err := cont.loadCrop(cc, manager, id); err != nil {
		return nil, err
	}
	d, err := cont.deriver.Plot(manager, farmer, id)
	if err != nil {
		return nil, err
	}
	if prev, err := cont._plotAt(cc, d.Address); err != nil {
		return nil, err
	} else if prev != nil {
		return nil, errors.Wrapf(ErrPlotAlreadyExists, "%v/%v/%d", manager.String(), farmer.String(), id)
	}

	plot := &Plot{
		Address:    d.Address,
		Manager:    manager,
		Farmer:     farmer,
		ID:         id,
		Bump:       d.Bump,
		Staked:     amount.NewAmount(0),
		RewardDebt: amount.NewAmount(0),
		Unclaimed:  amount.NewAmount(0),
	}
	if err := cont.setPlot(cc, plot); err != nil {
		return nil, err
	}
	return plot, nil
}

// Sow deposits Amount of the deposit asset, the deposit fee stays in the treasury
func (cont *FarmContract) Sow(cc *types.ContractContext, manager common.Address, farmer common.Address, id uint64, Amount *amount.Amount) (*Plot, error) {
	if Amount == nil || !Amount.IsPlus() {
		return nil, errors.WithStack(ErrInvalidAmount)
	}
	if overflows(Amount) {
		return nil, errors.WithStack(ErrNumericalOverflow)
	}
	crop, err := cont.loadCrop(cc, manager, id)
	if err != nil {
		return nil, err
	}
	plot, err := cont.loadPlot(cc, manager, farmer, id)
	if err != nil {
		return nil, err
	}
	ctx := cc.Context()
	if bal := cont.token.BalanceOf(ctx, crop.DepositAsset, farmer); bal.Less(Amount) {
		return nil, errors.Wrapf(ErrInsufficientFunds, "%v less than %v", bal.String(), Amount.String())
	}

	accrue(crop, cc.LastTimestamp())
	checkpoint(plot, crop)

	fee := calcFee(Amount, crop.DepositFee)
	net := Amount.Sub(fee)
	total := crop.TotalStaked.Add(net)
	if overflows(total) || overflows(crop.Fees.Add(fee)) {
		return nil, errors.WithStack(ErrNumericalOverflow)
	}
	if err := cont.token.Transfer(ctx, crop.DepositAsset, farmer, farmer, crop.DepositTreasury, Amount); err != nil {
		return nil, err
	}

	plot.Staked = plot.Staked.Add(net)
	crop.TotalStaked = total
	crop.Fees = crop.Fees.Add(fee)
	if err := cont.setCrop(cc, crop); err != nil {
		return nil, err
	}
	if err := cont.setPlot(cc, plot); err != nil {
		return nil, err
	}
	return plot, nil
}

// Uproot withdraws Amount of principal less the withdraw fee and pays every owed reward
func (cont *FarmContract) Uproot(cc *types.ContractContext, manager common.Address, farmer common.Address, id uint64, Amount *amount.Amount) (*Receipt, error) {
	if Amount == nil || !Amount.IsPlus() {
		return nil, errors.WithStack(ErrInvalidAmount)
	}
	crop, err := cont.loadCrop(cc, manager, id)
	if err != nil {
		return nil, err
	}
	plot, err := cont.loadPlot(cc, manager, farmer, id)
	if err != nil {
		return nil, err
	}
	if plot.Staked.Less(Amount) {
		return nil, errors.Wrapf(ErrInsufficientStake, "%v less than %v", plot.Staked.String(), Amount.String())
	}

	accrue(crop, cc.LastTimestamp())
	checkpoint(plot, crop)

	fee := calcFee(Amount, crop.WithdrawFee)
	out := Amount.Sub(fee)
	if out.IsPlus() {
		if err := cont.token.Transfer(cc.Context(), crop.DepositAsset, crop.Rewarder, crop.DepositTreasury, farmer, out); err != nil {
			return nil, err
		}
	}
	plot.Staked = plot.Staked.Sub(Amount)
	crop.TotalStaked = crop.TotalStaked.Sub(Amount)
	crop.Fees = crop.Fees.Add(fee)

	receipt := &Receipt{
		Withdrawn: out,
		Fee:       fee,
	}
	if err := cont.payReward(cc, crop, plot, receipt); err != nil {
		return nil, err
	}
	if err := cont.setCrop(cc, crop); err != nil {
		return nil, err
	}
	if err := cont.setPlot(cc, plot); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Harvest pays every owed reward without touching the principal
func (cont *FarmContract) Harvest(cc *types.ContractContext, manager common.Address, farmer common.Address, id uint64) (*Receipt, error) {
	crop, err := cont.loadCrop(cc, manager, id)
	if err != nil {
		return nil, err
	}
	plot, err := cont.loadPlot(cc, manager, farmer, id)
	if err != nil {
		return nil, err
	}

	accrue(crop, cc.LastTimestamp())
	checkpoint(plot, crop)

	receipt := &Receipt{
		Withdrawn: amount.NewAmount(0),
		Fee:       amount.NewAmount(0),
	}
	if err := cont.payReward(cc, crop, plot, receipt); err != nil {
		return nil, err
	}
	if err := cont.setCrop(cc, crop); err != nil {
		return nil, err
	}
	if err := cont.setPlot(cc, plot); err != nil {
		return nil, err
	}
	return receipt, nil
}

// UpdateCrop advances the reward accumulator of the crop to the context time
func (cont *FarmContract) UpdateCrop(cc *types.ContractContext, manager common.Address, id uint64) (*Crop, error) {
	crop, err := cont.loadCrop(cc, manager, id)
	if err != nil {
		return nil, err
	}
	accrue(crop, cc.LastTimestamp())
	if err := cont.setCrop(cc, crop); err != nil {
		return nil, err
	}
	return crop, nil
}
