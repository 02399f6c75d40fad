package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	conf "github.com/microcosm-collective/itemcache/config"
	"github.com/microcosm-collective/itemcache/controller"
)

var configPath string

func main() {
	// Default to stderr for containers; -logtostderr=false restores files
	flag.Set("logtostderr", "true")

	rootCmd := &cobra.Command{
		Use:     "itemcache",
		Short:   "Items API with a cache-aside read path",
		Version: controller.BuildVersion,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// glog reads its flags from the standard flag set, which cobra
			// has already populated
			flag.CommandLine.Parse([]string{})

			// 100 megabytes max before rolling the log files
			glog.MaxSize = 1024 * 1024 * 100
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().StringVar(
		&configPath,
		"config",
		conf.DefaultConfigFilePath,
		"path to the config file",
	)

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
