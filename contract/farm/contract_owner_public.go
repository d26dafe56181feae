package farm

import (
	"github.com/pkg/errors"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
	"github.com/meverselabs/farms/core/derive"
	"github.com/meverselabs/farms/core/types"
)

//////////////////////////////////////////////////
// Public Writer Functions : only manager
//////////////////////////////////////////////////

// Appoint creates the rewarder of the manager
// The proof must carry the canonical bump of the rewarder derivation
func (cont *FarmContract) Appoint(cc *types.ContractContext, manager common.Address, proof derive.Derivation) (*Rewarder, error) {
	d, err := cont.deriver.Rewarder(manager)
	if err != nil {
		return nil, err
	}
	if err := cont.deriver.Verify(derive.RewarderSeeds(manager), proof); err != nil {
		return nil, err
	}
	if proof != d {
		return nil, errors.Wrapf(ErrInvalidProof, "bump %d is not canonical", proof.Bump)
	}
	if len(cc.ContractData(makeRewarderKey(d.Address))) > 0 {
		return nil, errors.Wrapf(ErrAlreadyAppointed, "%v", manager.String())
	}

	rewarder := &Rewarder{
		Address: d.Address,
		Manager: manager,
		Bump:    d.Bump,
	}
	if err := cont.setRewarder(cc, rewarder); err != nil {
		return nil, err
	}
	return rewarder, nil
}

func checkManager(cc *types.ContractContext, crop *Crop) error {
	if cc.From() != crop.Manager {
		return errors.Wrapf(ErrUnauthorized, "%v is not the manager of crop %v", cc.From().String(), crop.Address.String())
	}
	return nil
}

func checkTerms(terms CropTerms) error {
	if !validFee(terms.DepositFee) {
		return errors.Wrapf(ErrInvalidFee, "deposit fee %d", terms.DepositFee)
	}
	if !validFee(terms.WithdrawFee) {
		return errors.Wrapf(ErrInvalidFee, "withdraw fee %d", terms.WithdrawFee)
	}
	if terms.RewardRate != nil && terms.RewardRate.IsMinus() {
		return errors.Wrapf(ErrInvalidAmount, "reward rate %v", terms.RewardRate.String())
	}
	return nil
}

func rewardRateOf(terms CropTerms) *amount.Amount {
	if terms.RewardRate == nil || terms.RewardRate.Int == nil {
		return amount.NewAmount(0)
	}
	return terms.RewardRate.Clone()
}

// Cultivate creates the crop with its two zero balance treasuries owned by the rewarder
func (cont *FarmContract) Cultivate(cc *types.ContractContext, manager common.Address, id uint64, params CropParams) (*Crop, error) {
	if err := checkTerms(params.CropTerms); err != nil {
		return nil, err
	}
	rewarder, _, err := cont.loadRewarder(cc, manager)
	if err != nil {
		return nil, err
	}
	d, err := cont.deriver.Crop(manager, id)
	if err != nil {
		return nil, err
	}
	if prev, err := cont._cropAt(cc, d.Address); err != nil {
		return nil, err
	} else if prev != nil {
		return nil, errors.Wrapf(ErrCropAlreadyExists, "%v/%d", manager.String(), id)
	}

	ctx := cc.Context()
	depositTreasury, err := cont.token.CreateCustodialAccount(ctx, params.DepositAsset, rewarder.Address, d.Address[:], labelDeposit)
	if err != nil {
		return nil, err
	}
	rewardTreasury, err := cont.token.CreateCustodialAccount(ctx, params.RewardAsset, rewarder.Address, d.Address[:], labelReward)
	if err != nil {
		return nil, err
	}

	crop := &Crop{
		Address:           d.Address,
		Manager:           manager,
		ID:                id,
		Bump:              d.Bump,
		Rewarder:          rewarder.Address,
		DepositAsset:      params.DepositAsset,
		RewardAsset:       params.RewardAsset,
		DepositTreasury:   depositTreasury,
		RewardTreasury:    rewardTreasury,
		DepositFee:        params.DepositFee,
		WithdrawFee:       params.WithdrawFee,
		RewardRate:        rewardRateOf(params.CropTerms),
		EndTimestamp:      params.EndTimestamp,
		TotalStaked:       amount.NewAmount(0),
		LastUpdate:        cc.LastTimestamp(),
		AccRewardPerShare: amount.NewAmount(0),
		Fees:              amount.NewAmount(0),
	}
	if err := cont.setCrop(cc, crop); err != nil {
		return nil, err
	}
	return crop, nil
}

// Recultivate replaces the economic terms of the crop
// Time already elapsed is settled under the previous terms and never credited twice
func (cont *FarmContract) Recultivate(cc *types.ContractContext, manager common.Address, id uint64, terms CropTerms) (*Crop, error) {
	if err := checkTerms(terms); err != nil {
		return nil, err
	}
	crop, err := cont.loadCrop(cc, manager, id)
	if err != nil {
		return nil, err
	}
	if err := checkManager(cc, crop); err != nil {
		return nil, err
	}
	now := cc.LastTimestamp()
	accrue(crop, now)

	crop.DepositFee = terms.DepositFee
	crop.WithdrawFee = terms.WithdrawFee
	crop.RewardRate = rewardRateOf(terms)
	crop.EndTimestamp = terms.EndTimestamp

	resume := now
	if resume > crop.EndTimestamp {
		resume = crop.EndTimestamp
	}
	if resume > crop.LastUpdate {
		crop.LastUpdate = resume
	}
	if err := cont.setCrop(cc, crop); err != nil {
		return nil, err
	}
	return crop, nil
}

// Collect sends the fees retained by the deposit treasury to the recipient
func (cont *FarmContract) Collect(cc *types.ContractContext, manager common.Address, id uint64, To common.Address) (*amount.Amount, error) {
	crop, err := cont.loadCrop(cc, manager, id)
	if err != nil {
		return nil, err
	}
	if err := checkManager(cc, crop); err != nil {
		return nil, err
	}
	fees := crop.Fees
	if !fees.IsPlus() {
		return amount.NewAmount(0), nil
	}
	if err := cont.token.Transfer(cc.Context(), crop.DepositAsset, crop.Rewarder, crop.DepositTreasury, To, fees); err != nil {
		return nil, err
	}
	crop.Fees = amount.NewAmount(0)
	if err := cont.setCrop(cc, crop); err != nil {
		return nil, err
	}
	return fees, nil
}

// Fund moves reward asset from the funder into the reward treasury of the crop
func (cont *FarmContract) Fund(cc *types.ContractContext, manager common.Address, id uint64, From common.Address, Amount *amount.Amount) error {
	if Amount == nil || !Amount.IsPlus() {
		return errors.WithStack(ErrInvalidAmount)
	}
	crop, err := cont.loadCrop(cc, manager, id)
	if err != nil {
		return err
	}
	ctx := cc.Context()
	if cont.token.BalanceOf(ctx, crop.RewardAsset, From).Less(Amount) {
		return errors.Wrapf(ErrInsufficientFunds, "%v", From.String())
	}
	if overflows(cont.token.BalanceOf(ctx, crop.RewardAsset, crop.RewardTreasury).Add(Amount)) {
		return errors.WithStack(ErrNumericalOverflow)
	}
	return cont.token.Transfer(ctx, crop.RewardAsset, From, From, crop.RewardTreasury, Amount)
}
