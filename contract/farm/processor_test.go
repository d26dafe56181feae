package farm_test

import (
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
	"github.com/meverselabs/farms/contract/farm"
	"github.com/meverselabs/farms/contract/token"
	"github.com/meverselabs/farms/core/derive"
	"github.com/meverselabs/farms/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("appoint", func() {
	BeforeEach(beforeEach)
	AfterEach(afterEach)

	It("creates the rewarder once", func() {
		rewarder := appoint(manager)
		Expect(rewarder.Manager).To(Equal(manager))

		info, err := proc.RewarderInfo(manager)
		Expect(err).To(Succeed())
		Expect(*info).To(Equal(*rewarder))

		d, _ := deriver.Rewarder(manager)
		_, err = proc.Appoint(manager, d)
		Expect(errors.Is(err, farm.ErrAlreadyAppointed)).To(BeTrue())
		Expect(farm.IsIdentityError(err)).To(BeTrue())
	})

	It("rejects a proof of another manager", func() {
		d, _ := deriver.Rewarder(alice)
		_, err := proc.Appoint(manager, d)
		Expect(errors.Is(err, farm.ErrInvalidProof)).To(BeTrue())

		_, err = proc.RewarderInfo(manager)
		Expect(errors.Is(err, farm.ErrRewarderNotFound)).To(BeTrue())
	})

	It("rejects a non canonical bump", func() {
		d, _ := deriver.Rewarder(manager)
		d.Bump--
		_, err := proc.Appoint(manager, d)
		Expect(errors.Is(err, farm.ErrInvalidProof)).To(BeTrue())
	})
})

var _ = Describe("cultivate", func() {
	BeforeEach(beforeEach)
	AfterEach(afterEach)

	It("requires a rewarder", func() {
		_, err := proc.Cultivate(manager, 0, farm.CropParams{CropTerms: terms(0, 0, 0, 100), DepositAsset: depositAsset, RewardAsset: rewardAsset})
		Expect(errors.Is(err, farm.ErrRewarderNotFound)).To(BeTrue())
	})

	It("creates zero balance treasuries owned by the rewarder", func() {
		rewarder := appoint(manager)
		crop := cultivate(0, terms(10, 0, 0, 100))
		Expect(crop.Rewarder).To(Equal(rewarder.Address))
		Expect(crop.LastUpdate).To(Equal(now()))
		Expect(crop.DepositTreasury).NotTo(Equal(crop.RewardTreasury))

		deposit, reward := treasuries(0)
		Expect(deposit.IsZero()).To(BeTrue())
		Expect(reward.IsZero()).To(BeTrue())

		Expect(st.View(func(ctx *types.Context) error {
			custodian, has := tokenCont.Custodian(ctx, depositAsset, crop.DepositTreasury)
			Expect(has).To(BeTrue())
			Expect(custodian).To(Equal(rewarder.Address))
			custodian, has = tokenCont.Custodian(ctx, rewardAsset, crop.RewardTreasury)
			Expect(has).To(BeTrue())
			Expect(custodian).To(Equal(rewarder.Address))
			return nil
		})).To(Succeed())

		// the manager cannot drain a treasury
		mint(depositAsset, crop.DepositTreasury, amount.NewAmount(5))
		err := st.Execute(func(ctx *types.Context) error {
			return tokenCont.Transfer(ctx, depositAsset, manager, crop.DepositTreasury, manager, amount.NewAmount(5))
		})
		Expect(errors.Is(err, token.ErrUnauthorized)).To(BeTrue())
	})

	It("keeps crops of one manager apart", func() {
		appoint(manager)
		a := cultivate(0, terms(10, 0, 0, 100))
		b := cultivate(1, terms(10, 0, 0, 100))
		Expect(a.Address).NotTo(Equal(b.Address))
		Expect(a.DepositTreasury).NotTo(Equal(b.DepositTreasury))

		_, err := proc.Cultivate(manager, 0, farm.CropParams{CropTerms: terms(0, 0, 0, 100), DepositAsset: depositAsset, RewardAsset: rewardAsset})
		Expect(errors.Is(err, farm.ErrCropAlreadyExists)).To(BeTrue())
	})

	It("rejects fees above the denominator", func() {
		appoint(manager)
		_, err := proc.Cultivate(manager, 0, farm.CropParams{CropTerms: terms(0, farm.FeeDenominator+1, 0, 100)})
		Expect(errors.Is(err, farm.ErrInvalidFee)).To(BeTrue())
		Expect(farm.IsValidationError(err)).To(BeTrue())

		_, err = proc.CropInfo(manager, 0)
		Expect(errors.Is(err, farm.ErrCropNotFound)).To(BeTrue())
	})
})

var _ = Describe("till", func() {
	BeforeEach(func() {
		beforeEach()
		appoint(manager)
	})
	AfterEach(afterEach)

	It("requires the crop", func() {
		_, err := proc.Till(manager, alice, 0)
		Expect(errors.Is(err, farm.ErrCropNotFound)).To(BeTrue())
	})

	It("opens an empty plot once", func() {
		cultivate(0, terms(0, 0, 0, 100))
		plot := till(alice, 0)
		Expect(plot.Staked.IsZero()).To(BeTrue())
		Expect(plot.RewardDebt.IsZero()).To(BeTrue())
		Expect(plot.Farmer).To(Equal(alice))

		_, err := proc.Till(manager, alice, 0)
		Expect(errors.Is(err, farm.ErrPlotAlreadyExists)).To(BeTrue())

		other := till(bob, 0)
		Expect(other.Address).NotTo(Equal(plot.Address))
	})
})

var _ = Describe("sow and uproot", func() {
	BeforeEach(func() {
		beforeEach()
		appoint(manager)
	})
	AfterEach(afterEach)

	It("stakes and withdraws with a zero rate", func() {
		cultivate(0, terms(0, 0, 0, 1000))
		till(alice, 0)

		plot := sow(alice, 0, 1000)
		Expect(plot.Staked.String()).To(Equal("1000"))
		Expect(cropInfo(0).TotalStaked.String()).To(Equal("1000"))

		sleep(30)
		receipt, err := proc.Uproot(manager, alice, 0, amount.NewAmount(1000))
		Expect(err).To(Succeed())
		Expect(receipt.Withdrawn.String()).To(Equal("1000"))
		Expect(receipt.Reward.IsZero()).To(BeTrue())
		Expect(receipt.Warning).To(BeNil())

		Expect(plotInfo(alice, 0).Staked.IsZero()).To(BeTrue())
		Expect(cropInfo(0).TotalStaked.IsZero()).To(BeTrue())
		Expect(pending(alice, 0)).To(Equal("0"))
		Expect(balanceOf(depositAsset, alice).Equal(_Initial)).To(BeTrue())
	})

	for _, order := range [][]common.Address{{alice, bob}, {bob, alice}} {
		order := order
		It("splits the reward by stake weight", func() {
			cultivate(0, terms(10, 0, 0, 1000))
			for _, f := range order {
				till(f, 0)
				sow(f, 0, 500)
			}
			sleep(10)
			_, err := proc.UpdateCrop(manager, 0)
			Expect(err).To(Succeed())

			Expect(pending(alice, 0)).To(Equal("50"))
			Expect(pending(bob, 0)).To(Equal("50"))
		})
	}

	It("keeps earned rewards when the stake changes", func() {
		cultivate(0, terms(10, 0, 0, 1000))
		till(alice, 0)
		till(bob, 0)
		sow(alice, 0, 100)
		sleep(10)
		sow(bob, 0, 100)
		sleep(10)

		Expect(pending(alice, 0)).To(Equal("150"))
		Expect(pending(bob, 0)).To(Equal("50"))
		Expect(plotInfo(alice, 0).Unclaimed.IsZero()).To(BeTrue())

		sow(alice, 0, 200)
		Expect(plotInfo(alice, 0).Unclaimed.String()).To(Equal("150"))
		sleep(10)
		Expect(pending(alice, 0)).To(Equal("225"))
		Expect(pending(bob, 0)).To(Equal("75"))
	})

	It("retains the withdraw fee in the treasury", func() {
		cultivate(0, terms(0, 0, 100_000_000, 1000))
		till(alice, 0)
		sow(alice, 0, 1000)
		before, _ := treasuries(0)
		Expect(before.String()).To(Equal("1000"))

		receipt, err := proc.Uproot(manager, alice, 0, amount.NewAmount(1000))
		Expect(err).To(Succeed())
		Expect(receipt.Withdrawn.String()).To(Equal("900"))
		Expect(receipt.Fee.String()).To(Equal("100"))
		Expect(balanceOf(depositAsset, alice).String()).To(Equal("999900"))

		crop := cropInfo(0)
		Expect(crop.TotalStaked.IsZero()).To(BeTrue())
		Expect(crop.Fees.String()).To(Equal("100"))
		after, _ := treasuries(0)
		Expect(before.Sub(after).String()).To(Equal("900"))

		_, err = proc.Collect(charlie, manager, 0, charlie)
		Expect(errors.Is(err, farm.ErrUnauthorized)).To(BeTrue())
		Expect(farm.IsIdentityError(err)).To(BeTrue())
		Expect(cropInfo(0).Fees.String()).To(Equal("100"))
		Expect(balanceOf(depositAsset, charlie).String()).To(Equal("1000000"))

		fees, err := proc.Collect(manager, manager, 0, charlie)
		Expect(err).To(Succeed())
		Expect(fees.String()).To(Equal("100"))
		Expect(balanceOf(depositAsset, charlie).String()).To(Equal("1000100"))
		after, _ = treasuries(0)
		Expect(after.IsZero()).To(BeTrue())
		Expect(cropInfo(0).Fees.IsZero()).To(BeTrue())
	})

	It("credits the deposit less the deposit fee", func() {
		cultivate(0, terms(0, 10_000_000, 0, 1000))
		till(alice, 0)
		plot := sow(alice, 0, 1000)
		Expect(plot.Staked.String()).To(Equal("990"))

		crop := cropInfo(0)
		Expect(crop.TotalStaked.String()).To(Equal("990"))
		Expect(crop.Fees.String()).To(Equal("10"))
		deposit, _ := treasuries(0)
		Expect(deposit.String()).To(Equal("1000"))
		Expect(balanceOf(depositAsset, alice).String()).To(Equal("999000"))
	})

	It("rejects invalid amounts without changing state", func() {
		cultivate(0, terms(0, 0, 0, 1000))

		_, err := proc.Sow(manager, alice, 0, amount.NewAmount(10))
		Expect(errors.Is(err, farm.ErrPlotNotFound)).To(BeTrue())

		till(alice, 0)
		_, err = proc.Sow(manager, alice, 0, amount.NewAmount(0))
		Expect(errors.Is(err, farm.ErrInvalidAmount)).To(BeTrue())

		_, err = proc.Sow(manager, alice, 0, _Initial.Add(amount.NewAmount(1)))
		Expect(errors.Is(err, farm.ErrInsufficientFunds)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("1000000 less than 1000001"))

		_, err = proc.Sow(manager, alice, 0, farm.MaxAmount.Add(amount.NewAmount(1)))
		Expect(errors.Is(err, farm.ErrNumericalOverflow)).To(BeTrue())

		sow(alice, 0, 100)
		_, err = proc.Uproot(manager, alice, 0, amount.NewAmount(101))
		Expect(errors.Is(err, farm.ErrInsufficientStake)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("100 less than 101"))
		_, err = proc.Uproot(manager, alice, 0, amount.NewAmount(0))
		Expect(errors.Is(err, farm.ErrInvalidAmount)).To(BeTrue())

		Expect(plotInfo(alice, 0).Staked.String()).To(Equal("100"))
		Expect(cropInfo(0).TotalStaked.String()).To(Equal("100"))
		Expect(balanceOf(depositAsset, alice).String()).To(Equal("999900"))
	})
})

type failingLedger struct {
	*token.TokenContract
	failAsset common.Address
}

func (l *failingLedger) Transfer(ctx *types.Context, asset common.Address, authority common.Address, From common.Address, To common.Address, Amount *amount.Amount) error {
	if asset == l.failAsset {
		return errors.New("transfer refused")
	}
	return l.TokenContract.Transfer(ctx, asset, authority, From, To, Amount)
}

var _ = Describe("rewards", func() {
	BeforeEach(func() {
		beforeEach()
		appoint(manager)
	})
	AfterEach(afterEach)

	It("pays the full reward from a funded treasury", func() {
		cultivate(0, terms(10, 0, 0, 1000))
		fund(0, 1000)
		till(alice, 0)
		sow(alice, 0, 100)
		sleep(10)

		receipt, err := proc.Harvest(manager, alice, 0)
		Expect(err).To(Succeed())
		Expect(receipt.Reward.String()).To(Equal("100"))
		Expect(receipt.Shortfall.IsZero()).To(BeTrue())
		Expect(balanceOf(rewardAsset, alice).String()).To(Equal("100"))
		Expect(plotInfo(alice, 0).Staked.String()).To(Equal("100"))
		Expect(pending(alice, 0)).To(Equal("0"))

		_, reward := treasuries(0)
		Expect(reward.String()).To(Equal("900"))
	})

	It("clamps the payout to an underfunded treasury and still commits", func() {
		cultivate(0, terms(10, 0, 0, 1000))
		fund(0, 20)
		till(alice, 0)
		sow(alice, 0, 500)
		sleep(10)

		shortfalls := testutil.ToFloat64(farm.RewardShortfallTotal)
		receipt, err := proc.Uproot(manager, alice, 0, amount.NewAmount(500))
		Expect(err).To(Succeed())
		Expect(receipt.Owed.String()).To(Equal("100"))
		Expect(receipt.Reward.String()).To(Equal("20"))
		Expect(receipt.Shortfall.String()).To(Equal("80"))
		Expect(errors.Is(receipt.Warning, farm.ErrRewardTreasuryUnderfunded)).To(BeTrue())
		Expect(testutil.ToFloat64(farm.RewardShortfallTotal)).To(Equal(shortfalls + 1))

		plot := plotInfo(alice, 0)
		Expect(plot.Staked.IsZero()).To(BeTrue())
		Expect(plot.Unclaimed.IsZero()).To(BeTrue())
		Expect(balanceOf(rewardAsset, alice).String()).To(Equal("20"))
		Expect(balanceOf(depositAsset, alice).Equal(_Initial)).To(BeTrue())
	})

	It("rolls back every write when a transfer fails", func() {
		cultivate(0, terms(10, 0, 0, 1000))
		fund(0, 1000)
		till(alice, 0)
		sow(alice, 0, 500)
		sleep(10)
		before := cropInfo(0)

		broken := newProcessor(&failingLedger{TokenContract: tokenCont, failAsset: rewardAsset})
		_, err := broken.Uproot(manager, alice, 0, amount.NewAmount(500))
		Expect(err).To(MatchError(ContainSubstring("transfer refused")))

		crop := cropInfo(0)
		Expect(crop.TotalStaked.String()).To(Equal("500"))
		Expect(crop.LastUpdate).To(Equal(before.LastUpdate))
		Expect(crop.AccRewardPerShare.Equal(before.AccRewardPerShare)).To(BeTrue())
		Expect(plotInfo(alice, 0).Staked.String()).To(Equal("500"))
		Expect(balanceOf(depositAsset, alice).String()).To(Equal("999500"))
		deposit, _ := treasuries(0)
		Expect(deposit.String()).To(Equal("500"))
	})

	It("stops accruing at the end timestamp", func() {
		cultivate(0, terms(10, 0, 0, 5))
		till(alice, 0)
		sow(alice, 0, 100)
		sleep(20)

		crop, err := proc.UpdateCrop(manager, 0)
		Expect(err).To(Succeed())
		acc := crop.AccRewardPerShare
		Expect(crop.LastUpdate).To(Equal(crop.EndTimestamp))

		sleep(100)
		crop, err = proc.UpdateCrop(manager, 0)
		Expect(err).To(Succeed())
		Expect(crop.AccRewardPerShare.Equal(acc)).To(BeTrue())
		Expect(pending(alice, 0)).To(Equal("50"))

		// deposits after the end are accepted and earn nothing
		till(bob, 0)
		sow(bob, 0, 100)
		sleep(10)
		Expect(pending(bob, 0)).To(Equal("0"))
	})

	It("resumes on recultivate without crediting the gap", func() {
		cultivate(0, terms(10, 0, 0, 5))
		till(alice, 0)
		sow(alice, 0, 100)
		sleep(20)

		_, err := proc.Recultivate(alice, manager, 0, terms(1000, 0, 0, 10))
		Expect(errors.Is(err, farm.ErrUnauthorized)).To(BeTrue())
		Expect(cropInfo(0).RewardRate.String()).To(Equal("10"))

		crop, err := proc.Recultivate(manager, manager, 0, terms(10, 0, 0, 10))
		Expect(err).To(Succeed())
		Expect(crop.LastUpdate).To(Equal(now()))
		Expect(pending(alice, 0)).To(Equal("50"))

		sleep(10)
		Expect(pending(alice, 0)).To(Equal("150"))

		_, err = proc.Recultivate(manager, manager, 0, farm.CropTerms{WithdrawFee: farm.FeeDenominator + 1})
		Expect(errors.Is(err, farm.ErrInvalidFee)).To(BeTrue())
	})

	It("rejects funding beyond the funder balance", func() {
		cultivate(0, terms(10, 0, 0, 5))
		err := proc.Fund(manager, 0, funder, _Initial.Add(amount.NewAmount(1)))
		Expect(errors.Is(err, farm.ErrInsufficientFunds)).To(BeTrue())
		err = proc.Fund(manager, 0, funder, amount.NewAmount(0))
		Expect(errors.Is(err, farm.ErrInvalidAmount)).To(BeTrue())
	})
})

var _ = Describe("invariants", func() {
	BeforeEach(func() {
		beforeEach()
		appoint(manager)
	})
	AfterEach(afterEach)

	It("conserves stake and never decreases the accumulator", func() {
		farmers := []common.Address{alice, bob, charlie}
		cultivate(0, terms(7, 3_000_000, 5_000_000, 400))
		fund(0, 100_000)
		for _, f := range farmers {
			till(f, 0)
		}

		rnd := rand.New(rand.NewSource(42))
		prevAcc := amount.NewAmount(0)
		for i := 0; i < 200; i++ {
			f := farmers[rnd.Intn(len(farmers))]
			staked := plotInfo(f, 0).Staked
			if rnd.Intn(2) == 0 || staked.IsZero() {
				sow(f, 0, 1+uint64(rnd.Intn(5000)))
			} else {
				n := 1 + rnd.Int63n(staked.Int64())
				_, err := proc.Uproot(manager, f, 0, amount.NewAmount(uint64(n)))
				Expect(err).To(Succeed())
			}
			sleep(int64(rnd.Intn(5)))

			sum := amount.NewAmount(0)
			for _, g := range farmers {
				sum = sum.Add(plotInfo(g, 0).Staked)
				p, err := proc.PendingReward(manager, g, 0)
				Expect(err).To(Succeed())
				Expect(p.IsMinus()).To(BeFalse())
			}
			crop := cropInfo(0)
			Expect(sum.Equal(crop.TotalStaked)).To(BeTrue(), "step %d", i)
			Expect(crop.AccRewardPerShare.Less(prevAcc)).To(BeFalse(), "step %d", i)
			deposit, _ := treasuries(0)
			Expect(deposit.Equal(crop.TotalStaked.Add(crop.Fees))).To(BeTrue(), "step %d", i)
			prevAcc = crop.AccRewardPerShare
		}
	})
})

var _ = Describe("persistence", func() {
	It("reloads the ledger from disk", func() {
		dir, err := os.MkdirTemp("", "farms")
		Expect(err).To(Succeed())
		DeferCleanup(os.RemoveAll, dir)

		beforeEach()
		st.Close()
		st = openStore("leveldb", dir)
		proc = newProcessor(tokenCont)
		mint(depositAsset, alice, _Initial)

		appoint(manager)
		cultivate(3, terms(10, 0, 0, 1000))
		till(alice, 3)
		sow(alice, 3, 400)
		st.Close()

		st = openStore("leveldb", dir)
		proc = newProcessor(tokenCont)
		defer afterEach()

		Expect(plotInfo(alice, 3).Staked.String()).To(Equal("400"))
		Expect(cropInfo(3).TotalStaked.String()).To(Equal("400"))
		Expect(balanceOf(depositAsset, alice).String()).To(Equal("999600"))

		d, err := deriver.Crop(manager, 3)
		Expect(err).To(Succeed())
		Expect(cropInfo(3).Address).To(Equal(d.Address))
		Expect(deriver.Verify(derive.CropSeeds(manager, 3), d)).To(Succeed())
	})
})
