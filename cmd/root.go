package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dConf/cmd/conf"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dconf",
		Short: "namespaced dynamic configuration store",
		Long: fmt.Sprintf(`dConf (v%s)

A small key-value configuration store written in Go. Values are grouped
in namespaces and persisted in JSON files, a bbolt database or redis.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dConf",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dConf v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(conf.Commands...)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	conf.SetupFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
