package scene

import (
	"encoding/json"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strconv"
	"strings"
)

func init() {
	// optional flags for the create style commands
	createCmd.Flags().String("name", "", "Optional name for the new object")
	createCmd.Flags().String("location", "", "Initial location as x,y,z")
	duplicateCmd.Flags().String("new-name", "", "Optional name for the copy")
	duplicateCmd.Flags().String("offset", "", "Offset for the copy as x,y,z")
	materialCreateCmd.Flags().String("color", "", "Base color as r,g,b or r,g,b,a")
	collectionCreateCmd.Flags().String("parent", "", "Parent collection (defaults to the scene root)")
}

var (
	createCmd = &cobra.Command{
		Use:   "create [type]",
		Short: "Creates an object (CUBE, SPHERE, CYLINDER, PLANE), defaults to CUBE",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}

			var location []float64
			if raw := viper.GetString("location"); raw != "" {
				var err error
				if location, err = parseFloats(raw); err != nil {
					return err
				}
			}

			if obj, err := sceneClient.CreateObject(kind, location, viper.GetString("name")); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, type=%s, location=%v\n", obj.Name, obj.Type, obj.Location)
			}
			return nil
		},
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [name]",
		Short: "Deletes an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sceneClient.DeleteObject(args[0]); err != nil {
				return err
			} else {
				fmt.Println("delete successfully")
			}
			return nil
		},
	}
	moveCmd = &cobra.Command{
		Use:   "move [name] [x,y,z]",
		Short: "Moves an object to the given location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := parseFloats(args[1])
			if err != nil {
				return err
			}
			if obj, err := sceneClient.MoveObject(args[0], location); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, location=%v\n", obj.Name, obj.Location)
			}
			return nil
		},
	}
	scaleCmd = &cobra.Command{
		Use:   "scale [name] [x,y,z]",
		Short: "Sets the scale factors of an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, err := parseFloats(args[1])
			if err != nil {
				return err
			}
			if obj, err := sceneClient.ScaleObject(args[0], scale); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, scale=%v\n", obj.Name, obj.Scale)
			}
			return nil
		},
	}
	rotateCmd = &cobra.Command{
		Use:   "rotate [name] [x,y,z]",
		Short: "Sets the euler rotation of an object (radians)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rotation, err := parseFloats(args[1])
			if err != nil {
				return err
			}
			if obj, err := sceneClient.RotateObject(args[0], rotation); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, rotation=%v\n", obj.Name, obj.Rotation)
			}
			return nil
		},
	}
	duplicateCmd = &cobra.Command{
		Use:   "duplicate [name]",
		Short: "Duplicates an object, optionally shifted by an offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var offset []float64
			if raw := viper.GetString("offset"); raw != "" {
				var err error
				if offset, err = parseFloats(raw); err != nil {
					return err
				}
			}
			if obj, err := sceneClient.DuplicateObject(args[0], viper.GetString("new-name"), offset); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, location=%v\n", obj.Name, obj.Location)
			}
			return nil
		},
	}
	parentCmd = &cobra.Command{
		Use:   "parent [child] [parent]",
		Short: "Makes one object a child of another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sceneClient.ParentObjects(args[0], args[1]); err != nil {
				return err
			} else {
				fmt.Println("parent set successfully")
			}
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info [name]",
		Short: "Shows the full state of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := sceneClient.ObjectInfo(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("name=%s, type=%s\n", info.Name, info.Type)
			fmt.Printf("location=%v, rotation=%v, scale=%v\n", info.Location, info.Rotation, info.Scale)
			fmt.Printf("parent=%s, collection=%s\n", info.Parent, info.Collection)
			fmt.Printf("materials=%v\n", info.Materials)
			for property, keyframes := range info.Keyframes {
				for _, k := range keyframes {
					fmt.Printf("keyframe %s: frame=%d, value=%v\n", property, k.Frame, k.Value)
				}
			}
			return nil
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all objects in the scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := sceneClient.SceneInfo()
			if err != nil {
				return err
			}
			fmt.Printf("objects=%d, active=%s\n", len(info.Objects), info.ActiveObject)
			for _, obj := range info.Objects {
				fmt.Printf("name=%s, type=%s, location=%v\n", obj.Name, obj.Type, obj.Location)
			}
			return nil
		},
	}
	cameraCmd = &cobra.Command{
		Use:   "camera [x,y,z] [rx,ry,rz]",
		Short: "Places the scene camera (created on first use), rotation is optional",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := parseFloats(args[0])
			if err != nil {
				return err
			}
			var rotation []float64
			if len(args) == 2 {
				if rotation, err = parseFloats(args[1]); err != nil {
					return err
				}
			}
			if obj, err := sceneClient.SetCameraPosition(location, rotation); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, location=%v, rotation=%v\n", obj.Name, obj.Location, obj.Rotation)
			}
			return nil
		},
	}
	materialCreateCmd = &cobra.Command{
		Use:   "material-create [name]",
		Short: "Creates a material with an optional base color",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			var color []float64
			if raw := viper.GetString("color"); raw != "" {
				var err error
				if color, err = parseFloats(raw); err != nil {
					return err
				}
			}
			if mat, err := sceneClient.CreateMaterial(name, color); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, color=%v\n", mat.Name, mat.Color)
			}
			return nil
		},
	}
	materialAssignCmd = &cobra.Command{
		Use:   "material-assign [object] [material]",
		Short: "Assigns a material to an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sceneClient.AssignMaterial(args[0], args[1]); err != nil {
				return err
			} else {
				fmt.Println("assign successfully")
			}
			return nil
		},
	}
	materialSetCmd = &cobra.Command{
		Use:   "material-set [material] [property] [value]",
		Short: "Sets a material property ('Base Color', 'Metallic' or 'Roughness')",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value interface{}
			if strings.Contains(args[2], ",") {
				vec, err := parseFloats(args[2])
				if err != nil {
					return err
				}
				value = vec
			} else {
				f, err := strconv.ParseFloat(args[2], 64)
				if err != nil {
					return fmt.Errorf("value must be a number or a comma-separated list: %w", err)
				}
				value = f
			}
			if err := sceneClient.SetMaterialProperty(args[0], args[1], value); err != nil {
				return err
			} else {
				fmt.Println("set successfully")
			}
			return nil
		},
	}
	materialsCmd = &cobra.Command{
		Use:   "materials",
		Short: "Lists all materials in the scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			materials, err := sceneClient.Materials()
			if err != nil {
				return err
			}
			for _, mat := range materials {
				fmt.Printf("name=%s, color=%v, metallic=%g, roughness=%g\n", mat.Name, mat.Color, mat.Metallic, mat.Roughness)
			}
			return nil
		},
	}
	collectionCreateCmd = &cobra.Command{
		Use:   "collection-create [name]",
		Short: "Creates a collection, optionally under a parent collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if coll, err := sceneClient.CreateCollection(args[0], viper.GetString("parent")); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, parent=%s\n", coll.Name, coll.Parent)
			}
			return nil
		},
	}
	collectionMoveCmd = &cobra.Command{
		Use:   "collection-move [collection] [objects...]",
		Short: "Moves objects into a collection",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sceneClient.MoveToCollection(args[1:], args[0]); err != nil {
				return err
			} else {
				fmt.Printf("moved %d objects to %s\n", len(args)-1, args[0])
			}
			return nil
		},
	}
	keyframeCmd = &cobra.Command{
		Use:   "keyframe [object] [property] [frame] [x,y,z]",
		Short: "Records an animation key for an object property (location, rotation, scale)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("frame must be a number: %w", err)
			}
			value, err := parseFloats(args[3])
			if err != nil {
				return err
			}
			if err := sceneClient.AddKeyframe(args[0], args[1], frame, value); err != nil {
				return err
			} else {
				fmt.Println("keyframe added successfully")
			}
			return nil
		},
	}
	framesCmd = &cobra.Command{
		Use:   "frames [start] [end]",
		Short: "Sets the animation frame range of the scene",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("start must be a number: %w", err)
			}
			end, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("end must be a number: %w", err)
			}
			if err := sceneClient.SetAnimationRange(start, end); err != nil {
				return err
			} else {
				fmt.Println("animation range set successfully")
			}
			return nil
		},
	}
	sendCmd = &cobra.Command{
		Use:   "send [type] [params]",
		Short: "Sends a raw command with JSON encoded parameters",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]interface{}{}
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
					return fmt.Errorf("params must be valid JSON: %w", err)
				}
			}
			resp, err := sceneClient.Send(args[0], params)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
)

// parseFloats parses a comma-separated list of numbers (e.g. "1,2,3")
func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("%q must be a number: %w", part, err)
		}
		values = append(values, v)
	}
	return values, nil
}
