package serve

import (
	"fmt"
	cmdUtil "github.com/kmattheis/scenebridge/cmd/util"
	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/kmattheis/scenebridge/rpc/serializer"
	"github.com/kmattheis/scenebridge/rpc/server"
	"github.com/kmattheis/scenebridge/rpc/transport"
	"github.com/kmattheis/scenebridge/rpc/transport/tcp"
	"github.com/kmattheis/scenebridge/rpc/transport/unix"
	"github.com/kmattheis/scenebridge/rpc/transport/ws"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the scene bridge server",
		Long:    `Start the scene bridge server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is SCENEBRIDGE_<flag> (e.g. SCENEBRIDGE_ENDPOINT=localhost:9000)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "localhost:8765", cmdUtil.WrapString("The address on which the server will listen (e.g. localhost:8765 for tcp and ws, /tmp/scenebridge.sock for unix)"))

	key = "exec-timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Maximum time in seconds a single command may occupy the host loop before the waiting client receives a timeout error"))

	key = "debug-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Optional address for the debug listener serving /metrics and /debug/pprof (empty disables the listener)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "transport-write-timeout"
	ServeCmd.PersistentFlags().Int(key, 5, cmdUtil.WrapString("The write timeout for a single response (in seconds, 0 disables the deadline)"))

	key = "transport-write-buffer"
	ServeCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("The size of the socket write buffer for the transport (in KB, tcp and unix only)"))

	key = "transport-read-buffer"
	ServeCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("The size of the socket read buffer for the transport (in KB, tcp and unix only)"))

	key = "transport-tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY for the transport (tcp only)"))

	key = "transport-tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The keepalive interval for the transport (in seconds, tcp only, 0 keeps the OS default)"))

	key = "transport-tcp-linger"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The linger time for the transport (in seconds, tcp only, 0 keeps the OS default)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.ExecTimeoutSecond = viper.GetInt64("exec-timeout")
	serveCmdConfig.DebugEndpoint = viper.GetString("debug-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Transport = cmdUtil.GetTransportConfig()

	return serveCmdConfig.Validate()
}

// run starts the scene bridge server and blocks until the process receives SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	var s serializer.ISerializer
	switch viper.GetString("serializer") {
	case "json":
		s = serializer.NewJSONSerializer()
	case "gob":
		s = serializer.NewGOBSerializer()
	case "cbor":
		s = serializer.NewCBORSerializer()
	default:
		return fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}

	// Parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "tcp":
		t = tcp.NewTCPServerTransport(64 * 1024)
	case "unix":
		t = unix.NewUnixServerTransport(64 * 1024)
	case "ws":
		t = ws.NewWSServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	if err := serv.Start(); err != nil {
		return err
	}

	// wait for the shutdown signal, then close the listener and the host loop
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	return serv.Close()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("scenebridge")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
