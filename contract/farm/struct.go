package farm

import (
	"io"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
	"github.com/meverselabs/farms/common/bin"
)

// Rewarder marks a manager as appointed, it never changes after appoint
type Rewarder struct {
	Address common.Address `json:"address"`
	Manager common.Address `json:"manager"`
	Bump    uint8          `json:"bump"`
}

func (s *Rewarder) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.Address); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Manager); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint8(w, s.Bump); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *Rewarder) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.Address); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Manager); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint8(r, &s.Bump); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}

// CropTerms are the economic parameters of a crop
// Fees are rates over FeeDenominator and RewardRate is paid per second to the whole crop
type CropTerms struct {
	DepositFee   uint64         `json:"depositFee"`
	WithdrawFee  uint64         `json:"withdrawFee"`
	EndTimestamp uint64         `json:"endTimestamp"`
	RewardRate   *amount.Amount `json:"rewardRate"`
}

// CropParams are the arguments of cultivate
type CropParams struct {
	CropTerms
	DepositAsset common.Address `json:"depositAsset"`
	RewardAsset  common.Address `json:"rewardAsset"`
}

type Crop struct {
	Address           common.Address `json:"address"`
	Manager           common.Address `json:"manager"`
	ID                uint64         `json:"id"`
	Bump              uint8          `json:"bump"`
	Rewarder          common.Address `json:"rewarder"`
	DepositAsset      common.Address `json:"depositAsset"`
	RewardAsset       common.Address `json:"rewardAsset"`
	DepositTreasury   common.Address `json:"depositTreasury"`
	RewardTreasury    common.Address `json:"rewardTreasury"`
	DepositFee        uint64         `json:"depositFee"`
	WithdrawFee       uint64         `json:"withdrawFee"`
	RewardRate        *amount.Amount `json:"rewardRate"`
	EndTimestamp      uint64         `json:"endTimestamp"`
	TotalStaked       *amount.Amount `json:"totalStaked"`
	LastUpdate        uint64         `json:"lastUpdate"`
	AccRewardPerShare *amount.Amount `json:"accRewardPerShare"`
	Fees              *amount.Amount `json:"fees"`
}

func (s *Crop) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	for _, addr := range []common.Address{s.Address, s.Manager} {
		if sum, err := sw.Address(w, addr); err != nil {
			return sum, err
		}
	}
	if sum, err := sw.Uint64(w, s.ID); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint8(w, s.Bump); err != nil {
		return sum, err
	}
	for _, addr := range []common.Address{s.Rewarder, s.DepositAsset, s.RewardAsset, s.DepositTreasury, s.RewardTreasury} {
		if sum, err := sw.Address(w, addr); err != nil {
			return sum, err
		}
	}
	if sum, err := sw.Uint64(w, s.DepositFee); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, s.WithdrawFee); err != nil {
		return sum, err
	}
	if sum, err := sw.Amount(w, s.RewardRate); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, s.EndTimestamp); err != nil {
		return sum, err
	}
	if sum, err := sw.Amount(w, s.TotalStaked); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, s.LastUpdate); err != nil {
		return sum, err
	}
	if sum, err := sw.Amount(w, s.AccRewardPerShare); err != nil {
		return sum, err
	}
	if sum, err := sw.Amount(w, s.Fees); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *Crop) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	for _, p := range []*common.Address{&s.Address, &s.Manager} {
		if sum, err := sr.Address(r, p); err != nil {
			return sum, err
		}
	}
	if sum, err := sr.Uint64(r, &s.ID); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint8(r, &s.Bump); err != nil {
		return sum, err
	}
	for _, p := range []*common.Address{&s.Rewarder, &s.DepositAsset, &s.RewardAsset, &s.DepositTreasury, &s.RewardTreasury} {
		if sum, err := sr.Address(r, p); err != nil {
			return sum, err
		}
	}
	if sum, err := sr.Uint64(r, &s.DepositFee); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint64(r, &s.WithdrawFee); err != nil {
		return sum, err
	}
	if sum, err := sr.Amount(r, &s.RewardRate); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint64(r, &s.EndTimestamp); err != nil {
		return sum, err
	}
	if sum, err := sr.Amount(r, &s.TotalStaked); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint64(r, &s.LastUpdate); err != nil {
		return sum, err
	}
	if sum, err := sr.Amount(r, &s.AccRewardPerShare); err != nil {
		return sum, err
	}
	if sum, err := sr.Amount(r, &s.Fees); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}

type Plot struct {
	Address    common.Address `json:"address"`
	Manager    common.Address `json:"manager"`
	Farmer     common.Address `json:"farmer"`
	ID         uint64         `json:"id"`
	Bump       uint8          `json:"bump"`
	Staked     *amount.Amount `json:"staked"`
	RewardDebt *amount.Amount `json:"rewardDebt"`
	Unclaimed  *amount.Amount `json:"unclaimed"`
}

func (s *Plot) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	for _, addr := range []common.Address{s.Address, s.Manager, s.Farmer} {
		if sum, err := sw.Address(w, addr); err != nil {
			return sum, err
		}
	}
	if sum, err := sw.Uint64(w, s.ID); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint8(w, s.Bump); err != nil {
		return sum, err
	}
	for _, am := range []*amount.Amount{s.Staked, s.RewardDebt, s.Unclaimed} {
		if sum, err := sw.Amount(w, am); err != nil {
			return sum, err
		}
	}
	return sw.Sum(), nil
}

func (s *Plot) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	for _, p := range []*common.Address{&s.Address, &s.Manager, &s.Farmer} {
		if sum, err := sr.Address(r, p); err != nil {
			return sum, err
		}
	}
	if sum, err := sr.Uint64(r, &s.ID); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint8(r, &s.Bump); err != nil {
		return sum, err
	}
	for _, p := range []**amount.Amount{&s.Staked, &s.RewardDebt, &s.Unclaimed} {
		if sum, err := sr.Amount(r, p); err != nil {
			return sum, err
		}
	}
	return sr.Sum(), nil
}

// Receipt reports the value an uproot or harvest moved to the farmer
type Receipt struct {
	Withdrawn *amount.Amount `json:"withdrawn"`
	Fee       *amount.Amount `json:"fee"`
	Owed      *amount.Amount `json:"owed"`
	Reward    *amount.Amount `json:"reward"`
	Shortfall *amount.Amount `json:"shortfall"`
	Warning   error          `json:"-"`
}
