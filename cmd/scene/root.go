package scene

import (
	"github.com/kmattheis/scenebridge/cmd/util"
	"github.com/kmattheis/scenebridge/rpc/client"
	"github.com/spf13/cobra"
)

var (
	sceneClient client.ISceneClient

	// SceneCommands represents the scene command group
	SceneCommands = &cobra.Command{
		Use:               "scene",
		Short:             "Perform scene operations on a running bridge server",
		PersistentPreRunE: setupSceneClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the scene command
	util.SetupRPCClientFlags(SceneCommands)

	// Add subcommands
	SceneCommands.AddCommand(createCmd)
	SceneCommands.AddCommand(deleteCmd)
	SceneCommands.AddCommand(moveCmd)
	SceneCommands.AddCommand(scaleCmd)
	SceneCommands.AddCommand(rotateCmd)
	SceneCommands.AddCommand(duplicateCmd)
	SceneCommands.AddCommand(parentCmd)
	SceneCommands.AddCommand(infoCmd)
	SceneCommands.AddCommand(listCmd)
	SceneCommands.AddCommand(cameraCmd)
	SceneCommands.AddCommand(materialCreateCmd)
	SceneCommands.AddCommand(materialAssignCmd)
	SceneCommands.AddCommand(materialSetCmd)
	SceneCommands.AddCommand(materialsCmd)
	SceneCommands.AddCommand(collectionCreateCmd)
	SceneCommands.AddCommand(collectionMoveCmd)
	SceneCommands.AddCommand(keyframeCmd)
	SceneCommands.AddCommand(framesCmd)
	SceneCommands.AddCommand(sendCmd)
	SceneCommands.AddCommand(perfTestCmd)
}

// setupSceneClient initializes the RPC scene client
func setupSceneClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the scene client
	sceneClient, err = client.NewRPCSceneClient(
		*config,
		t,
		s,
	)

	return err
}
