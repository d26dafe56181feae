package main

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/core/derive"
)

type derivationOutput struct {
	Kind    string         `json:"kind"`
	Address common.Address `json:"address"`
	Bump    uint8          `json:"bump"`
}

func deriveCommand(opts *rootOptions) *cobra.Command {
	var programIDStr string
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "derives farm addresses offline",
	}
	cmd.PersistentFlags().StringVar(&programIDStr, "program", "", "program id overriding the config")

	deriver := func() (*derive.Deriver, error) {
		if programIDStr == "" {
			cfg, err := opts.load()
			if err != nil {
				return nil, err
			}
			programIDStr = cfg.ProgramID
		}
		programID, err := common.ParseAddress(programIDStr)
		if err != nil {
			return nil, err
		}
		return derive.NewDeriver(programID), nil
	}
	output := func(cmd *cobra.Command, kind string, d derive.Derivation) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		return enc.Encode(&derivationOutput{Kind: kind, Address: d.Address, Bump: d.Bump})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rewarder [manager]",
		Short: "returns the rewarder address of the manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dr, err := deriver()
			if err != nil {
				return err
			}
			manager, err := common.ParseAddress(args[0])
			if err != nil {
				return err
			}
			d, err := dr.Rewarder(manager)
			if err != nil {
				return err
			}
			return output(cmd, "rewarder", d)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "crop [manager] [id]",
		Short: "returns the crop address of the manager and the id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dr, err := deriver()
			if err != nil {
				return err
			}
			manager, err := common.ParseAddress(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return err
			}
			d, err := dr.Crop(manager, id)
			if err != nil {
				return err
			}
			return output(cmd, "crop", d)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "plot [manager] [farmer] [id]",
		Short: "returns the plot address of the farmer in the crop",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dr, err := deriver()
			if err != nil {
				return err
			}
			manager, err := common.ParseAddress(args[0])
			if err != nil {
				return err
			}
			farmer, err := common.ParseAddress(args[1])
			if err != nil {
				return err
			}
			id, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return err
			}
			d, err := dr.Plot(manager, farmer, id)
			if err != nil {
				return err
			}
			return output(cmd, "plot", d)
		},
	})
	return cmd
}
