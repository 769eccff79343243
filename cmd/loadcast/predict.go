package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xh3b4sd/loadcast/config"
	"github.com/xh3b4sd/loadcast/ctxlog"
	"github.com/xh3b4sd/loadcast/feature"
	"github.com/xh3b4sd/loadcast/loader"
	"github.com/xh3b4sd/loadcast/service"
	"github.com/xh3b4sd/tracer"
)

func predictCommand(pat *string) *cobra.Command {
	var dat string
	var hou int

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Restore the model once and print a single explained forecast",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := time.Parse(feature.Layout, dat)
			if err != nil {
				return tracer.Mask(err)
			}

			cfg, err := config.Load(*pat)
			if err != nil {
				return tracer.Mask(err)
			}

			ctx := ctxlog.WithLogger(cmd.Context(), newLogger(cfg, os.Stderr))

			l := newLoader(cfg)
			defer l.Sigkill()

			{
				err := l.Restore(ctx)
				if err != nil {
					return tracer.Mask(err)
				}
			}

			svc := service.New(service.Config{For: l, Tim: cfg.Timeout})

			res, err := svc.Forecast(ctx, day, hou)
			if err != nil {
				return tracer.Mask(err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(res)
		},
	}

	cmd.Flags().StringVar(&dat, "date", "", "Calendar date as YYYY-MM-DD")
	cmd.Flags().IntVar(&hou, "hour", 10, "Hour of the day from 0 to 23")
	cmd.MarkFlagRequired("date")

	return cmd
}

func newLoader(cfg config.Config) *loader.Loader {
	return &loader.Loader{
		Add: cfg.Host,
		Deb: cfg.LogLevel == "debug",
		Mod: cfg.ModelPath,
		Por: cfg.Port,
		Pyt: cfg.Python,
		Tim: cfg.Restore,
	}
}
