package farm

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
	"github.com/meverselabs/farms/common/logger"
	"github.com/meverselabs/farms/core/derive"
	"github.com/meverselabs/farms/core/types"
)

func newTestContract(t *testing.T) (*FarmContract, *types.ContractContext) {
	deriver := derive.NewDeriver(common.Address{0x46, 0x41, 0x52, 0x4d})
	cont := NewFarmContract(deriver, nil, logger.Discard())
	ctx := types.NewEmptyContext(1000)
	return cont, cont.Context(ctx, common.ZeroAddr)
}

func TestSetCropKeepsIdentity(t *testing.T) {
	cont, cc := newTestContract(t)
	crop := newCrop(10, 1000, 2000)
	crop.Address = common.Address{0xc0}
	crop.Manager = common.Address{0x10}
	crop.ID = 3
	require.NoError(t, cont.setCrop(cc, crop))
	stored := cc.ContractData(makeCropKey(crop.Address))
	require.NotEmpty(t, stored)

	moved := *crop
	moved.Manager = common.Address{0x11}
	err := cont.setCrop(cc, &moved)
	assert.True(t, errors.Is(err, ErrImmutableIdentity))
	assert.True(t, IsIdentityError(err))

	renumbered := *crop
	renumbered.ID = 4
	assert.True(t, errors.Is(cont.setCrop(cc, &renumbered), ErrImmutableIdentity))
	assert.Equal(t, stored, cc.ContractData(makeCropKey(crop.Address)))

	updated := *crop
	updated.TotalStaked = amount.NewAmount(500)
	require.NoError(t, cont.setCrop(cc, &updated))
	got, err := cont._cropAt(cc, crop.Address)
	require.NoError(t, err)
	assert.Equal(t, "500", got.TotalStaked.String())
}

func TestSetPlotKeepsIdentity(t *testing.T) {
	cont, cc := newTestContract(t)
	plot := newPlot()
	plot.Address = common.Address{0xb0}
	plot.Manager = common.Address{0x10}
	plot.Farmer = common.Address{0x21}
	plot.ID = 1
	require.NoError(t, cont.setPlot(cc, plot))
	stored := cc.ContractData(makePlotKey(plot.Address))

	for _, change := range []func(p *Plot){
		func(p *Plot) { p.Manager = common.Address{0x11} },
		func(p *Plot) { p.Farmer = common.Address{0x22} },
		func(p *Plot) { p.ID = 2 },
	} {
		next := *plot
		change(&next)
		next.Staked = amount.NewAmount(7)
		assert.True(t, errors.Is(cont.setPlot(cc, &next), ErrImmutableIdentity))
	}
	assert.Equal(t, stored, cc.ContractData(makePlotKey(plot.Address)))
}

func TestSetRewarderIsWriteOnce(t *testing.T) {
	cont, cc := newTestContract(t)
	rewarder := &Rewarder{Address: common.Address{0xa0}, Manager: common.Address{0x10}, Bump: 254}
	require.NoError(t, cont.setRewarder(cc, rewarder))
	stored := cc.ContractData(makeRewarderKey(rewarder.Address))

	other := *rewarder
	other.Manager = common.Address{0x11}
	assert.True(t, errors.Is(cont.setRewarder(cc, &other), ErrImmutableIdentity))
	assert.Equal(t, stored, cc.ContractData(makeRewarderKey(rewarder.Address)))
}
