package farm

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
	"github.com/meverselabs/farms/core/derive"
	"github.com/meverselabs/farms/core/types"
)

//////////////////////////////////////////////////
// Private Functions
//////////////////////////////////////////////////

func (cont *FarmContract) loadRewarder(cc *types.ContractContext, manager common.Address) (*Rewarder, derive.Derivation, error) {
	d, err := cont.deriver.Rewarder(manager)
	if err != nil {
		return nil, d, err
	}
	bs := cc.ContractData(makeRewarderKey(d.Address))
	if len(bs) == 0 {
		return nil, d, errors.Wrapf(ErrRewarderNotFound, "%v", manager.String())
	}
	data := &Rewarder{}
	if _, err := data.ReadFrom(bytes.NewReader(bs)); err != nil {
		return nil, d, err
	}
	return data, d, nil
}

func (cont *FarmContract) loadCrop(cc *types.ContractContext, manager common.Address, id uint64) (*Crop, error) {
	d, err := cont.deriver.Crop(manager, id)
	if err != nil {
		return nil, err
	}
	data, err := cont._cropAt(cc, d.Address)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.Wrapf(ErrCropNotFound, "%v/%d", manager.String(), id)
	}
	return data, nil
}

func (cont *FarmContract) _cropAt(cc *types.ContractContext, addr common.Address) (*Crop, error) {
	bs := cc.ContractData(makeCropKey(addr))
	if len(bs) == 0 {
		return nil, nil
	}
	data := &Crop{}
	if _, err := data.ReadFrom(bytes.NewReader(bs)); err != nil {
		return nil, err
	}
	return data, nil
}

func (cont *FarmContract) loadPlot(cc *types.ContractContext, manager common.Address, farmer common.Address, id uint64) (*Plot, error) {
	d, err := cont.deriver.Plot(manager, farmer, id)
	if err != nil {
		return nil, err
	}
	data, err := cont._plotAt(cc, d.Address)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.Wrapf(ErrPlotNotFound, "%v/%v/%d", manager.String(), farmer.String(), id)
	}
	return data, nil
}

func (cont *FarmContract) _plotAt(cc *types.ContractContext, addr common.Address) (*Plot, error) {
	bs := cc.ContractData(makePlotKey(addr))
	if len(bs) == 0 {
		return nil, nil
	}
	data := &Plot{}
	if _, err := data.ReadFrom(bytes.NewReader(bs)); err != nil {
		return nil, err
	}
	return data, nil
}

// setRewarder only creates, a rewarder never changes afterwards
func (cont *FarmContract) setRewarder(cc *types.ContractContext, rewarder *Rewarder) error {
	key := makeRewarderKey(rewarder.Address)
	if bs := cc.ContractData(key); len(bs) > 0 {
		prev := &Rewarder{}
		if _, err := prev.ReadFrom(bytes.NewReader(bs)); err != nil {
			return err
		}
		if *prev != *rewarder {
			return errors.Wrapf(ErrImmutableIdentity, "rewarder %v", rewarder.Address.String())
		}
	}
	bf := new(bytes.Buffer)
	if _, err := rewarder.WriteTo(bf); err != nil {
		return err
	}
	cc.SetContractData(key, bf.Bytes())
	return nil
}

func (cont *FarmContract) setCrop(cc *types.ContractContext, crop *Crop) error {
	prev, err := cont._cropAt(cc, crop.Address)
	if err != nil {
		return err
	}
	if prev != nil && (prev.Manager != crop.Manager || prev.ID != crop.ID) {
		return errors.Wrapf(ErrImmutableIdentity, "crop %v", crop.Address.String())
	}
	bf := new(bytes.Buffer)
	if _, err := crop.WriteTo(bf); err != nil {
		return err
	}
	cc.SetContractData(makeCropKey(crop.Address), bf.Bytes())
	return nil
}

func (cont *FarmContract) setPlot(cc *types.ContractContext, plot *Plot) error {
	prev, err := cont._plotAt(cc, plot.Address)
	if err != nil {
		return err
	}
	if prev != nil && (prev.Manager != plot.Manager || prev.Farmer != plot.Farmer || prev.ID != plot.ID) {
		return errors.Wrapf(ErrImmutableIdentity, "plot %v", plot.Address.String())
	}
	bf := new(bytes.Buffer)
	if _, err := plot.WriteTo(bf); err != nil {
		return err
	}
	cc.SetContractData(makePlotKey(plot.Address), bf.Bytes())
	return nil
}

// payReward sends Unclaimed to the farmer, clamped to the reward treasury balance
// The shortfall is dropped and reported on the receipt
func (cont *FarmContract) payReward(cc *types.ContractContext, crop *Crop, plot *Plot, receipt *Receipt) error {
	owed := plot.Unclaimed
	plot.Unclaimed = amount.NewAmount(0)
	receipt.Owed = owed
	receipt.Reward = amount.NewAmount(0)
	receipt.Shortfall = amount.NewAmount(0)
	if !owed.IsPlus() {
		return nil
	}

	ctx := cc.Context()
	available := cont.token.BalanceOf(ctx, crop.RewardAsset, crop.RewardTreasury)
	pay := owed.Min(available)
	if pay.IsPlus() {
		if err := cont.token.Transfer(ctx, crop.RewardAsset, crop.Rewarder, crop.RewardTreasury, plot.Farmer, pay); err != nil {
			return err
		}
	}
	receipt.Reward = pay
	if shortfall := owed.Sub(pay); shortfall.IsPlus() {
		receipt.Shortfall = shortfall
		receipt.Warning = errors.Wrapf(ErrRewardTreasuryUnderfunded, "owed %v paid %v", owed.String(), pay.String())
		cont.log.Warn("reward treasury underfunded",
			"crop", crop.Address.String(),
			"plot", plot.Address.String(),
			"owed", owed.String(),
			"paid", pay.String(),
		)
	}
	return nil
}
