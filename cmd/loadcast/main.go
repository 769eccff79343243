package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xh3b4sd/loadcast/config"
)

func main() {
	if err := command().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func command() *cobra.Command {
	var pat string

	cmd := &cobra.Command{
		Use:           "loadcast",
		Short:         "Forecast electrical load in megawatts and explain each forecast",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&pat, "config", config.Path(), "Path of the YAML config file")

	cmd.AddCommand(
		serveCommand(&pat),
		predictCommand(&pat),
		featuresCommand(),
	)

	return cmd
}
