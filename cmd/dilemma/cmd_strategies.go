package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evolab/dilemma/engine"
)

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the strategy catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := engine.List()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				type row struct {
					ID          uint8  `json:"id"`
					Name        string `json:"name"`
					Temperament string `json:"temperament"`
				}
				rows := make([]row, len(infos))
				for i, info := range infos {
					rows[i] = row{uint8(info.ID), info.Name, info.Temperament.String()}
				}
				return json.NewEncoder(os.Stdout).Encode(rows)
			}

			for _, info := range infos {
				fmt.Printf("%-20s %s\n", info.Name, info.Temperament)
			}
			return nil
		},
	}
}
