// Package token keeps multi-asset balances inside the ledger context so that
// value movements commit or revert together with the transition that
// requested them.
package token

import (
	"github.com/pkg/errors"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
	"github.com/meverselabs/farms/core/derive"
	"github.com/meverselabs/farms/core/types"
)

type TokenContract struct {
	addr    common.Address
	deriver *derive.Deriver
}

// NewTokenContract returns a TokenContract storing its data under addr
func NewTokenContract(addr common.Address, deriver *derive.Deriver) *TokenContract {
	return &TokenContract{
		addr:    addr,
		deriver: deriver,
	}
}

func (cont *TokenContract) Address() common.Address {
	return cont.addr
}

func (cont *TokenContract) context(ctx *types.Context, from common.Address) *types.ContractContext {
	return ctx.ContractContext(cont.addr, from)
}

//////////////////////////////////////////////////
// Private Functions
//////////////////////////////////////////////////

func (cont *TokenContract) balanceOf(cc *types.ContractContext, asset common.Address, owner common.Address) *amount.Amount {
	bs := cc.AccountData(asset, makeTokenKey(owner, tagTokenAmount))
	return amount.NewAmountFromBytes(bs)
}

func (cont *TokenContract) addBalance(cc *types.ContractContext, asset common.Address, addr common.Address, am *amount.Amount) error {
	if !am.IsPlus() {
		return errors.Wrapf(ErrInvalidTransferAmount, "%v", am.String())
	}
	bal := cont.balanceOf(cc, asset, addr).Add(am)
	cc.SetAccountData(asset, makeTokenKey(addr, tagTokenAmount), bal.Bytes())
	return nil
}

func (cont *TokenContract) subBalance(cc *types.ContractContext, asset common.Address, addr common.Address, am *amount.Amount) error {
	if !am.IsPlus() {
		return errors.Wrapf(ErrInvalidTransferAmount, "%v", am.String())
	}
	bal := cont.balanceOf(cc, asset, addr)
	if bal.Less(am) {
		return errors.Wrapf(ErrInsufficientBalance, "%v less than %v", bal.String(), am.String())
	}
	bal = bal.Sub(am)
	if bal.IsZero() {
		cc.SetAccountData(asset, makeTokenKey(addr, tagTokenAmount), nil)
	} else {
		cc.SetAccountData(asset, makeTokenKey(addr, tagTokenAmount), bal.Bytes())
	}
	return nil
}

func (cont *TokenContract) custodian(cc *types.ContractContext, asset common.Address, account common.Address) (common.Address, bool) {
	bs := cc.AccountData(asset, makeTokenKey(account, tagCustody))
	if len(bs) == 0 {
		return common.ZeroAddr, false
	}
	var authority common.Address
	copy(authority[:], bs)
	return authority, true
}

//////////////////////////////////////////////////
// Public Writer Functions
//////////////////////////////////////////////////

// Mint creates new units of the asset on the account
func (cont *TokenContract) Mint(ctx *types.Context, asset common.Address, To common.Address, Amount *amount.Amount) error {
	if To == common.ZeroAddr {
		return errors.WithStack(ErrTransferToZero)
	}
	cc := cont.context(ctx, common.ZeroAddr)
	if err := cont.addBalance(cc, asset, To, Amount); err != nil {
		return err
	}
	total := cont.TotalSupply(ctx, asset).Add(Amount)
	cc.SetAccountData(asset, []byte{tagTokenTotalSupply}, total.Bytes())
	return nil
}

// Transfer moves the asset when the authority controls the source account
// A custodial account is controlled by its custodian, any other account by itself
func (cont *TokenContract) Transfer(ctx *types.Context, asset common.Address, authority common.Address, From common.Address, To common.Address, Amount *amount.Amount) error {
	if To == common.ZeroAddr {
		return errors.WithStack(ErrTransferToZero)
	}
	cc := cont.context(ctx, authority)
	owner := From
	if custodian, has := cont.custodian(cc, asset, From); has {
		owner = custodian
	}
	if owner != authority {
		return errors.Wrapf(ErrUnauthorized, "%v cannot move funds of %v", authority.String(), From.String())
	}
	if err := cont.subBalance(cc, asset, From, Amount); err != nil {
		return err
	}
	return cont.addBalance(cc, asset, To, Amount)
}

// CreateCustodialAccount derives a zero balance account of the asset controlled by the authority
func (cont *TokenContract) CreateCustodialAccount(ctx *types.Context, asset common.Address, authority common.Address, labels ...[]byte) (common.Address, error) {
	d, err := cont.deriver.Custody(asset, authority, labels...)
	if err != nil {
		return common.ZeroAddr, err
	}
	cc := cont.context(ctx, authority)
	if _, has := cont.custodian(cc, asset, d.Address); has {
		return common.ZeroAddr, errors.Wrapf(ErrCustodyExists, "%v", d.Address.String())
	}
	if !cont.balanceOf(cc, asset, d.Address).IsZero() {
		return common.ZeroAddr, errors.Wrapf(ErrCustodyExists, "%v holds a balance", d.Address.String())
	}
	cc.SetAccountData(asset, makeTokenKey(d.Address, tagCustody), authority.Bytes())
	return d.Address, nil
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (cont *TokenContract) BalanceOf(ctx *types.Context, asset common.Address, owner common.Address) *amount.Amount {
	return cont.balanceOf(cont.context(ctx, common.ZeroAddr), asset, owner)
}

func (cont *TokenContract) TotalSupply(ctx *types.Context, asset common.Address) *amount.Amount {
	bs := cont.context(ctx, common.ZeroAddr).AccountData(asset, []byte{tagTokenTotalSupply})
	return amount.NewAmountFromBytes(bs)
}

// Custodian returns the authority of a custodial account
func (cont *TokenContract) Custodian(ctx *types.Context, asset common.Address, account common.Address) (common.Address, bool) {
	return cont.custodian(cont.context(ctx, common.ZeroAddr), asset, account)
}
