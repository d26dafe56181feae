package apiserver

import (
	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
	"github.com/meverselabs/farms/contract/farm"
	"github.com/meverselabs/farms/core/derive"
)

type derivationResult struct {
	Address common.Address `json:"address"`
	Bump    uint8          `json:"bump"`
}

type receiptResult struct {
	*farm.Receipt
	Warning string `json:"warning,omitempty"`
}

type treasuryResult struct {
	Deposit *amount.Amount `json:"deposit"`
	Reward  *amount.Amount `json:"reward"`
}

func toReceiptResult(receipt *farm.Receipt) *receiptResult {
	ret := &receiptResult{Receipt: receipt}
	if receipt.Warning != nil {
		ret.Warning = receipt.Warning.Error()
	}
	return ret
}

// RegisterFarm sets the farm methods to the "farm" sub
func RegisterFarm(s *APIServer, p *farm.Processor) error {
	sub, err := s.JRPC("farm")
	if err != nil {
		return err
	}

	sub.Set("DeriveRewarder", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		d, err := p.Deriver().Rewarder(manager)
		if err != nil {
			return nil, err
		}
		return &derivationResult{Address: d.Address, Bump: d.Bump}, nil
	})
	sub.Set("DeriveCrop", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		id, err := arg.Uint64(1)
		if err != nil {
			return nil, err
		}
		d, err := p.Deriver().Crop(manager, id)
		if err != nil {
			return nil, err
		}
		return &derivationResult{Address: d.Address, Bump: d.Bump}, nil
	})
	sub.Set("DerivePlot", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, farmer, id, err := plotArgs(arg)
		if err != nil {
			return nil, err
		}
		d, err := p.Deriver().Plot(manager, farmer, id)
		if err != nil {
			return nil, err
		}
		return &derivationResult{Address: d.Address, Bump: d.Bump}, nil
	})

	sub.Set("Appoint", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		proof := derive.Derivation{}
		if proof.Address, err = arg.Address(1); err != nil {
			return nil, err
		}
		if proof.Bump, err = arg.Uint8(2); err != nil {
			return nil, err
		}
		return p.Appoint(manager, proof)
	})
	sub.Set("Cultivate", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, id, err := cropArgs(arg, 0)
		if err != nil {
			return nil, err
		}
		terms, err := termsArgs(arg, 2)
		if err != nil {
			return nil, err
		}
		params := farm.CropParams{CropTerms: terms}
		if params.DepositAsset, err = arg.Address(6); err != nil {
			return nil, err
		}
		if params.RewardAsset, err = arg.Address(7); err != nil {
			return nil, err
		}
		return p.Cultivate(manager, id, params)
	})
	sub.Set("Recultivate", func(ID interface{}, arg *Argument) (interface{}, error) {
		caller, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		manager, id, err := cropArgs(arg, 1)
		if err != nil {
			return nil, err
		}
		terms, err := termsArgs(arg, 3)
		if err != nil {
			return nil, err
		}
		return p.Recultivate(caller, manager, id, terms)
	})
	sub.Set("UpdateCrop", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, id, err := cropArgs(arg, 0)
		if err != nil {
			return nil, err
		}
		return p.UpdateCrop(manager, id)
	})
	sub.Set("Till", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, farmer, id, err := plotArgs(arg)
		if err != nil {
			return nil, err
		}
		return p.Till(manager, farmer, id)
	})
	sub.Set("Sow", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, farmer, id, err := plotArgs(arg)
		if err != nil {
			return nil, err
		}
		am, err := arg.Amount(3)
		if err != nil {
			return nil, err
		}
		return p.Sow(manager, farmer, id, am)
	})
	sub.Set("Uproot", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, farmer, id, err := plotArgs(arg)
		if err != nil {
			return nil, err
		}
		am, err := arg.Amount(3)
		if err != nil {
			return nil, err
		}
		receipt, err := p.Uproot(manager, farmer, id, am)
		if err != nil {
			return nil, err
		}
		return toReceiptResult(receipt), nil
	})
	sub.Set("Harvest", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, farmer, id, err := plotArgs(arg)
		if err != nil {
			return nil, err
		}
		receipt, err := p.Harvest(manager, farmer, id)
		if err != nil {
			return nil, err
		}
		return toReceiptResult(receipt), nil
	})
	sub.Set("Collect", func(ID interface{}, arg *Argument) (interface{}, error) {
		caller, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		manager, id, err := cropArgs(arg, 1)
		if err != nil {
			return nil, err
		}
		To, err := arg.Address(3)
		if err != nil {
			return nil, err
		}
		return p.Collect(caller, manager, id, To)
	})
	sub.Set("Fund", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, id, err := cropArgs(arg, 0)
		if err != nil {
			return nil, err
		}
		From, err := arg.Address(2)
		if err != nil {
			return nil, err
		}
		am, err := arg.Amount(3)
		if err != nil {
			return nil, err
		}
		if err := p.Fund(manager, id, From, am); err != nil {
			return nil, err
		}
		return true, nil
	})

	sub.Set("RewarderInfo", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		return p.RewarderInfo(manager)
	})
	sub.Set("CropInfo", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, id, err := cropArgs(arg, 0)
		if err != nil {
			return nil, err
		}
		return p.CropInfo(manager, id)
	})
	sub.Set("PlotInfo", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, farmer, id, err := plotArgs(arg)
		if err != nil {
			return nil, err
		}
		return p.PlotInfo(manager, farmer, id)
	})
	sub.Set("PendingReward", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, farmer, id, err := plotArgs(arg)
		if err != nil {
			return nil, err
		}
		return p.PendingReward(manager, farmer, id)
	})
	sub.Set("TreasuryBalances", func(ID interface{}, arg *Argument) (interface{}, error) {
		manager, id, err := cropArgs(arg, 0)
		if err != nil {
			return nil, err
		}
		dep, rew, err := p.TreasuryBalances(manager, id)
		if err != nil {
			return nil, err
		}
		return &treasuryResult{Deposit: dep, Reward: rew}, nil
	})
	return nil
}

////////////////////////////////////////////////////////////////////////
// Private Functions
////////////////////////////////////////////////////////////////////////

// crop arguments are manager, id starting at index
func cropArgs(arg *Argument, index int) (common.Address, uint64, error) {
	manager, err := arg.Address(index)
	if err != nil {
		return common.ZeroAddr, 0, err
	}
	id, err := arg.Uint64(index + 1)
	if err != nil {
		return common.ZeroAddr, 0, err
	}
	return manager, id, nil
}

func plotArgs(arg *Argument) (common.Address, common.Address, uint64, error) {
	manager, err := arg.Address(0)
	if err != nil {
		return common.ZeroAddr, common.ZeroAddr, 0, err
	}
	farmer, err := arg.Address(1)
	if err != nil {
		return common.ZeroAddr, common.ZeroAddr, 0, err
	}
	id, err := arg.Uint64(2)
	if err != nil {
		return common.ZeroAddr, common.ZeroAddr, 0, err
	}
	return manager, farmer, id, nil
}

// terms are depositFee, withdrawFee, rewardRate, endTimestamp starting at index
func termsArgs(arg *Argument, index int) (farm.CropTerms, error) {
	var terms farm.CropTerms
	var err error
	if terms.DepositFee, err = arg.Uint64(index); err != nil {
		return terms, err
	}
	if terms.WithdrawFee, err = arg.Uint64(index + 1); err != nil {
		return terms, err
	}
	if terms.RewardRate, err = arg.Amount(index + 2); err != nil {
		return terms, err
	}
	if terms.EndTimestamp, err = arg.Uint64(index + 3); err != nil {
		return terms, err
	}
	return terms, nil
}
