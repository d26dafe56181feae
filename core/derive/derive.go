// Package derive maps a domain tag and an ownership chain to a program
// derived address. Derivation is pure: the same inputs always produce the
// same address and bump, and no two distinct input tuples share a seed
// encoding.
package derive

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/bin"
)

// Tag is the domain tag that leads every seed list
type Tag string

// MaxSeeds leaves one slot for the bump seed
const (
	MaxSeeds      = 15
	MaxSeedLength = 32
)

// domain tags
const (
	TagRewarder Tag = "rewarder"
	TagCrop     Tag = "crop"
	TagPlot     Tag = "plot"
	TagCustody  Tag = "custody"
)

// Derivation is a derived address with its proof
type Derivation struct {
	Address common.Address
	Bump    uint8
}

type findFunc func(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error)

// Deriver derives addresses under one program id
type Deriver struct {
	programID solana.PublicKey
	find      findFunc
}

// NewDeriver returns a Deriver for the program id
func NewDeriver(programID common.Address) *Deriver {
	return &Deriver{
		programID: solana.PublicKey(programID),
		find:      solana.FindProgramAddress,
	}
}

// ProgramID returns the program id of the deriver
func (d *Deriver) ProgramID() common.Address {
	return common.Address(d.programID)
}

// Rewarder derives the rewarder address of the manager
func (d *Deriver) Rewarder(manager common.Address) (Derivation, error) {
	return d.Derive(RewarderSeeds(manager))
}

// Crop derives the crop address of the manager and the sequence id
func (d *Deriver) Crop(manager common.Address, id uint64) (Derivation, error) {
	return d.Derive(CropSeeds(manager, id))
}

// Plot derives the plot address of the farmer in the crop sequence id
func (d *Deriver) Plot(manager common.Address, farmer common.Address, id uint64) (Derivation, error) {
	return d.Derive(PlotSeeds(manager, farmer, id))
}

// Custody derives a custodial account address owned by the authority
func (d *Deriver) Custody(asset common.Address, authority common.Address, labels ...[]byte) (Derivation, error) {
	return d.Derive(CustodySeeds(asset, authority, labels...))
}

// Derive searches the canonical bump for the seeds
func (d *Deriver) Derive(seeds [][]byte) (Derivation, error) {
	if err := checkSeeds(seeds); err != nil {
		return Derivation{}, err
	}
	pk, bump, err := d.find(seeds, d.programID)
	if err != nil {
		return Derivation{}, errors.Wrapf(ErrAddressDerivationExhausted, "%s: %v", seeds[0], err)
	}
	return Derivation{
		Address: common.Address(pk),
		Bump:    bump,
	}, nil
}

// Verify checks the derivation was produced from the seeds
func (d *Deriver) Verify(seeds [][]byte, proof Derivation) error {
	withBump := append(append([][]byte{}, seeds...), []byte{proof.Bump})
	pk, err := solana.CreateProgramAddress(withBump, d.programID)
	if err != nil {
		return errors.Wrap(ErrInvalidProof, err.Error())
	}
	if common.Address(pk) != proof.Address {
		return errors.WithStack(ErrInvalidProof)
	}
	return nil
}

// RewarderSeeds returns ["rewarder", manager]
func RewarderSeeds(manager common.Address) [][]byte {
	return [][]byte{[]byte(TagRewarder), manager.Bytes()}
}

// CropSeeds returns ["crop", manager, id_le]
func CropSeeds(manager common.Address, id uint64) [][]byte {
	return [][]byte{[]byte(TagCrop), manager.Bytes(), bin.Uint64Bytes(id)}
}

// PlotSeeds returns ["plot", manager, farmer, id_le]
func PlotSeeds(manager common.Address, farmer common.Address, id uint64) [][]byte {
	return [][]byte{[]byte(TagPlot), manager.Bytes(), farmer.Bytes(), bin.Uint64Bytes(id)}
}

// CustodySeeds returns ["custody", asset, authority, labels...]
func CustodySeeds(asset common.Address, authority common.Address, labels ...[]byte) [][]byte {
	return append([][]byte{[]byte(TagCustody), asset.Bytes(), authority.Bytes()}, labels...)
}

func checkSeeds(seeds [][]byte) error {
	if len(seeds) == 0 || len(seeds) > MaxSeeds {
		return errors.Wrapf(ErrInvalidSeed, "seed count %d", len(seeds))
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return errors.Wrapf(ErrInvalidSeed, "seed %d is %d bytes", i, len(seed))
		}
	}
	return nil
}
