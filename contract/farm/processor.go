package farm

import (
	"log/slog"
	"time"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
	"github.com/meverselabs/farms/core/derive"
	"github.com/meverselabs/farms/core/store"
	"github.com/meverselabs/farms/core/types"
)

// Processor applies farm transitions to the store one at a time
// Every transition commits all of its writes and transfers or none of them
type Processor struct {
	st   *store.Store
	cont *FarmContract
	log  *slog.Logger
}

// NewProcessor returns a Processor
func NewProcessor(st *store.Store, cont *FarmContract, log *slog.Logger) *Processor {
	return &Processor{
		st:   st,
		cont: cont,
		log:  log,
	}
}

// Contract returns the farm contract of the processor
func (p *Processor) Contract() *FarmContract {
	return p.cont
}

// Deriver returns the address deriver of the processor
func (p *Processor) Deriver() *derive.Deriver {
	return p.cont.deriver
}

func (p *Processor) execute(op string, from common.Address, fn func(cc *types.ContractContext) error) error {
	start := time.Now()
	err := p.st.Execute(func(ctx *types.Context) error {
		return fn(p.cont.Context(ctx, from))
	})
	TransitionsTotal.WithLabelValues(op, resultLabel(err)).Inc()
	TransitionDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		p.log.Debug("transition rejected", "op", op, "from", from.String(), "err", err)
	} else {
		p.log.Debug("transition committed", "op", op, "from", from.String())
	}
	return err
}

func (p *Processor) view(fn func(cc *types.ContractContext) error) error {
	return p.st.View(func(ctx *types.Context) error {
		return fn(p.cont.Context(ctx, common.ZeroAddr))
	})
}

func (p *Processor) report(receipt *Receipt) {
	if receipt != nil && receipt.Warning != nil {
		RewardShortfallTotal.Inc()
	}
}

func (p *Processor) Appoint(manager common.Address, proof derive.Derivation) (*Rewarder, error) {
	var rewarder *Rewarder
	err := p.execute("appoint", manager, func(cc *types.ContractContext) error {
		var err error
		rewarder, err = p.cont.Appoint(cc, manager, proof)
		return err
	})
	return rewarder, err
}

func (p *Processor) Cultivate(manager common.Address, id uint64, params CropParams) (*Crop, error) {
	var crop *Crop
	err := p.execute("cultivate", manager, func(cc *types.ContractContext) error {
		var err error
		crop, err = p.cont.Cultivate(cc, manager, id, params)
		return err
	})
	return crop, err
}

// Recultivate is signed by caller, which must be the manager of the crop
func (p *Processor) Recultivate(caller common.Address, manager common.Address, id uint64, terms CropTerms) (*Crop, error) {
	var crop *Crop
	err := p.execute("recultivate", caller, func(cc *types.ContractContext) error {
		var err error
		crop, err = p.cont.Recultivate(cc, manager, id, terms)
		return err
	})
	return crop, err
}

func (p *Processor) UpdateCrop(manager common.Address, id uint64) (*Crop, error) {
	var crop *Crop
	err := p.execute("update_crop", manager, func(cc *types.ContractContext) error {
		var err error
		crop, err = p.cont.UpdateCrop(cc, manager, id)
		return err
	})
	return crop, err
}

func (p *Processor) Till(manager common.Address, farmer common.Address, id uint64) (*Plot, error) {
	var plot *Plot
	err := p.execute("till", farmer, func(cc *types.ContractContext) error {
		var err error
		plot, err = p.cont.Till(cc, manager, farmer, id)
		return err
	})
	return plot, err
}

func (p *Processor) Sow(manager common.Address, farmer common.Address, id uint64, Amount *amount.Amount) (*Plot, error) {
	var plot *Plot
	err := p.execute("sow", farmer, func(cc *types.ContractContext) error {
		var err error
		plot, err = p.cont.Sow(cc, manager, farmer, id, Amount)
		return err
	})
	return plot, err
}

func (p *Processor) Uproot(manager common.Address, farmer common.Address, id uint64, Amount *amount.Amount) (*Receipt, error) {
	var receipt *Receipt
	err := p.execute("uproot", farmer, func(cc *types.ContractContext) error {
		var err error
		receipt, err = p.cont.Uproot(cc, manager, farmer, id, Amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.report(receipt)
	return receipt, nil
}

func (p *Processor) Harvest(manager common.Address, farmer common.Address, id uint64) (*Receipt, error) {
	var receipt *Receipt
	err := p.execute("harvest", farmer, func(cc *types.ContractContext) error {
		var err error
		receipt, err = p.cont.Harvest(cc, manager, farmer, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.report(receipt)
	return receipt, nil
}

// Collect is signed by caller, which must be the manager of the crop
func (p *Processor) Collect(caller common.Address, manager common.Address, id uint64, To common.Address) (*amount.Amount, error) {
	var fees *amount.Amount
	err := p.execute("collect", caller, func(cc *types.ContractContext) error {
		var err error
		fees, err = p.cont.Collect(cc, manager, id, To)
		return err
	})
	return fees, err
}

func (p *Processor) Fund(manager common.Address, id uint64, From common.Address, Amount *amount.Amount) error {
	return p.execute("fund", From, func(cc *types.ContractContext) error {
		return p.cont.Fund(cc, manager, id, From, Amount)
	})
}

func (p *Processor) RewarderInfo(manager common.Address) (*Rewarder, error) {
	var rewarder *Rewarder
	err := p.view(func(cc *types.ContractContext) error {
		var err error
		rewarder, err = p.cont.RewarderInfo(cc, manager)
		return err
	})
	return rewarder, err
}

func (p *Processor) CropInfo(manager common.Address, id uint64) (*Crop, error) {
	var crop *Crop
	err := p.view(func(cc *types.ContractContext) error {
		var err error
		crop, err = p.cont.CropInfo(cc, manager, id)
		return err
	})
	return crop, err
}

func (p *Processor) PlotInfo(manager common.Address, farmer common.Address, id uint64) (*Plot, error) {
	var plot *Plot
	err := p.view(func(cc *types.ContractContext) error {
		var err error
		plot, err = p.cont.PlotInfo(cc, manager, farmer, id)
		return err
	})
	return plot, err
}

func (p *Processor) PendingReward(manager common.Address, farmer common.Address, id uint64) (*amount.Amount, error) {
	var pending *amount.Amount
	err := p.view(func(cc *types.ContractContext) error {
		var err error
		pending, err = p.cont.PendingReward(cc, manager, farmer, id)
		return err
	})
	return pending, err
}

func (p *Processor) TreasuryBalances(manager common.Address, id uint64) (*amount.Amount, *amount.Amount, error) {
	var deposit, reward *amount.Amount
	err := p.view(func(cc *types.ContractContext) error {
		var err error
		deposit, reward, err = p.cont.TreasuryBalances(cc, manager, id)
		return err
	})
	return deposit, reward, err
}
