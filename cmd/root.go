package cmd

import (
	"fmt"
	"github.com/kmattheis/scenebridge/cmd/scene"
	"github.com/kmattheis/scenebridge/cmd/serve"
	"github.com/kmattheis/scenebridge/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.1.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "scenebridge",
		Short: "command bridge for single-threaded 3D hosts",
		Long: fmt.Sprintf(`scenebridge (v%s)

A command bridge written in Go that exposes a single-threaded 3D
scene host to concurrent automation clients over TCP, unix sockets
or websockets.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of scenebridge",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("scenebridge v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(scene.SceneCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, cbor)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix, ws)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
