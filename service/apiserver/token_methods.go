package apiserver

import (
	"github.com/meverselabs/farms/common/amount"
	"github.com/meverselabs/farms/contract/token"
	"github.com/meverselabs/farms/core/store"
	"github.com/meverselabs/farms/core/types"
)

// RegisterToken sets the token methods to the "token" sub
// Mint is only served when allowMint is set
func RegisterToken(s *APIServer, st *store.Store, cont *token.TokenContract, allowMint bool) error {
	sub, err := s.JRPC("token")
	if err != nil {
		return err
	}

	sub.Set("BalanceOf", func(ID interface{}, arg *Argument) (interface{}, error) {
		asset, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		owner, err := arg.Address(1)
		if err != nil {
			return nil, err
		}
		var bal *amount.Amount
		if err := st.View(func(ctx *types.Context) error {
			bal = cont.BalanceOf(ctx, asset, owner)
			return nil
		}); err != nil {
			return nil, err
		}
		return bal, nil
	})
	sub.Set("TotalSupply", func(ID interface{}, arg *Argument) (interface{}, error) {
		asset, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		var sup *amount.Amount
		if err := st.View(func(ctx *types.Context) error {
			sup = cont.TotalSupply(ctx, asset)
			return nil
		}); err != nil {
			return nil, err
		}
		return sup, nil
	})
	sub.Set("Mint", func(ID interface{}, arg *Argument) (interface{}, error) {
		if !allowMint {
			return nil, ErrMintDisabled
		}
		asset, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		To, err := arg.Address(1)
		if err != nil {
			return nil, err
		}
		am, err := arg.Amount(2)
		if err != nil {
			return nil, err
		}
		if err := st.Execute(func(ctx *types.Context) error {
			return cont.Mint(ctx, asset, To, am)
		}); err != nil {
			return nil, err
		}
		return true, nil
	})
	return nil
}
