package farm

import (
	"math"
	"math/big"

	"github.com/meverselabs/farms/common/amount"
)

// FeeDenominator is the fee rate that takes the whole amount
const FeeDenominator = 1_000_000_000

// RewardPrecision scales AccRewardPerShare
var RewardPrecision = amount.NewAmount(1_000_000_000_000)

// MaxAmount is the largest balance the token ledger can carry
var MaxAmount = amount.NewAmount(math.MaxUint64)

// accrue advances the crop accumulator up to min(now, EndTimestamp)
// A clock that went backward is treated as no time passing
func accrue(crop *Crop, now uint64) {
	if now <= crop.LastUpdate {
		return
	}
	effective := now
	if effective > crop.EndTimestamp {
		effective = crop.EndTimestamp
	}
	if effective <= crop.LastUpdate {
		return
	}
	if crop.TotalStaked.IsPlus() && crop.RewardRate.IsPlus() {
		elapsed := amount.NewAmount(effective - crop.LastUpdate)
		inc := crop.RewardRate.Mul(elapsed).Mul(RewardPrecision).Div(crop.TotalStaked)
		crop.AccRewardPerShare = crop.AccRewardPerShare.Add(inc)
	}
	crop.LastUpdate = effective
}

// pendingReward returns what the plot earned since its last checkpoint, never negative
func pendingReward(plot *Plot, crop *Crop) *amount.Amount {
	delta := crop.AccRewardPerShare.Sub(plot.RewardDebt)
	if !delta.IsPlus() || !plot.Staked.IsPlus() {
		return amount.NewAmount(0)
	}
	return plot.Staked.Mul(delta).Div(RewardPrecision)
}

// checkpoint moves the pending reward into Unclaimed and resets the reward debt
func checkpoint(plot *Plot, crop *Crop) *amount.Amount {
	pending := pendingReward(plot, crop)
	plot.Unclaimed = plot.Unclaimed.Add(pending)
	plot.RewardDebt = crop.AccRewardPerShare.Clone()
	return pending
}

// owedReward is Unclaimed plus the pending reward of the plot
func owedReward(plot *Plot, crop *Crop) *amount.Amount {
	return plot.Unclaimed.Add(pendingReward(plot, crop))
}

// calcFee returns floor(am * rate / FeeDenominator)
func calcFee(am *amount.Amount, rate uint64) *amount.Amount {
	if rate == 0 {
		return amount.NewAmount(0)
	}
	fee := new(big.Int).Mul(am.Int, new(big.Int).SetUint64(rate))
	fee.Quo(fee, big.NewInt(FeeDenominator))
	return amount.NewAmountFromBig(fee)
}

func validFee(rate uint64) bool {
	return rate <= FeeDenominator
}

func overflows(am *amount.Amount) bool {
	return MaxAmount.Less(am)
}
