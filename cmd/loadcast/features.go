package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/xh3b4sd/loadcast/feature"
	"github.com/xh3b4sd/tracer"
)

func featuresCommand() *cobra.Command {
	var dat string
	var hou int

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Print the feature record derived for a date and hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := feature.Parse(dat, hou)
			if err != nil {
				return tracer.Mask(err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(rec)
		},
	}

	cmd.Flags().StringVar(&dat, "date", "", "Calendar date as YYYY-MM-DD")
	cmd.Flags().IntVar(&hou, "hour", 10, "Hour of the day from 0 to 23")
	cmd.MarkFlagRequired("date")

	return cmd
}
