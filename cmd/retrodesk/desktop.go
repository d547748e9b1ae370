package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
	"github.com/1broseidon/retrodesk/internal/icons"
)

var workAreaCmd = &cobra.Command{
	Use:   "workarea",
	Short: "Print the usable desktop rectangle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wa, err := newClient(cmd).GetWorkArea()
		if err != nil {
			return err
		}
		return printYAML(cmd, wa)
	},
}

var viewportCmd = &cobra.Command{
	Use:   "viewport WIDTH HEIGHT",
	Short: "Resize a static viewport and print the new work area",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := intArgs([]string{"WIDTH", "HEIGHT"}, args)
		if err != nil {
			return err
		}
		wa, err := newClient(cmd).SetViewport(geometry.Size{Width: n[0], Height: n[1]})
		if err != nil {
			return err
		}
		return printYAML(cmd, wa)
	},
}

var iconCmd = &cobra.Command{
	Use:   "icon",
	Short: "Inspect and arrange desktop icons",
}

var iconListCmd = &cobra.Command{
	Use:   "list",
	Short: "List icon positions and grid cells",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := newClient(cmd).ListIcons()
		if err != nil {
			return err
		}
		return printYAML(cmd, data)
	},
}

var iconDragCmd = &cobra.Command{
	Use:   "drag ID X Y",
	Short: "Drop an icon at a pixel position and snap it to the grid",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := intArgs([]string{"X", "Y"}, args[1:])
		if err != nil {
			return err
		}
		icon, err := newClient(cmd).IconDrag(args[0], geometry.Point{X: n[0], Y: n[1]})
		if err != nil {
			return err
		}
		return printYAML(cmd, icon)
	},
}

var iconSelectCmd = &cobra.Command{
	Use:   "select [ID]",
	Short: "Select an icon, or move the selection with --step",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stepFlag, _ := cmd.Flags().GetString("step")
		if (len(args) == 1) == (stepFlag != "") {
			return fmt.Errorf("give either an icon ID or --step")
		}

		client := newClient(cmd)
		var (
			id  string
			err error
		)
		if len(args) == 1 {
			id, err = client.SelectIcon(args[0])
		} else {
			step, perr := icons.ParseStep(stepFlag)
			if perr != nil {
				return perr
			}
			id, err = client.StepIconSelection(step)
		}
		if err != nil {
			return err
		}
		return printYAML(cmd, map[string]string{"selected": id})
	},
}

var gestureCmd = &cobra.Command{
	Use:   "gesture",
	Short: "Drive pointer gestures step by step",
	Long:  "Drive drag and resize gestures one pointer event at a time. A window has at most one gesture in flight.",
}

var gestureBeginCmd = &cobra.Command{
	Use:   "begin ID X Y",
	Short: "Press the pointer on a window's title bar or a resize handle",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := intArgs([]string{"X", "Y"}, args[1:])
		if err != nil {
			return err
		}
		handle, _ := cmd.Flags().GetString("handle")
		data, err := newClient(cmd).GestureBegin(args[0], handle, geometry.Point{X: n[0], Y: n[1]})
		if err != nil {
			return err
		}
		return printYAML(cmd, data)
	},
}

var gestureMoveCmd = &cobra.Command{
	Use:   "move ID X Y",
	Short: "Move the pointer of a window's gesture",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := intArgs([]string{"X", "Y"}, args[1:])
		if err != nil {
			return err
		}
		data, err := newClient(cmd).GestureMove(args[0], geometry.Point{X: n[0], Y: n[1]})
		if err != nil {
			return err
		}
		return printYAML(cmd, data)
	},
}

var gestureEndCmd = &cobra.Command{
	Use:   "end ID",
	Short: "End a window's gesture and commit its geometry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		reason, err := endReason(cmd)
		if err != nil {
			return err
		}
		data, err := newClient(cmd).GestureEnd(args[0], token, reason)
		if err != nil {
			return err
		}
		return printYAML(cmd, data)
	},
}

var gestureCancelAllCmd = &cobra.Command{
	Use:   "cancel-all",
	Short: "End every gesture in flight, as on window blur",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, err := endReason(cmd)
		if err != nil {
			return err
		}
		ids, err := newClient(cmd).GestureCancelAll(reason)
		if err != nil {
			return err
		}
		return printYAML(cmd, map[string][]string{"cancelled": ids})
	},
}

var endReasons = []gesture.EndReason{
	gesture.EndPointerUp,
	gesture.EndPointerCancel,
	gesture.EndLostCapture,
	gesture.EndBlur,
	gesture.EndVisibilityChange,
}

// endReason reads --reason; empty leaves the choice to the daemon.
func endReason(cmd *cobra.Command) (gesture.EndReason, error) {
	s, _ := cmd.Flags().GetString("reason")
	if s == "" {
		return "", nil
	}
	for _, r := range endReasons {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown end reason %q (use pointer-up, pointer-cancel, lost-capture, blur or visibility-change)", s)
}

func init() {
	rootCmd.AddCommand(workAreaCmd, viewportCmd, iconCmd, gestureCmd)
	iconCmd.AddCommand(iconListCmd, iconDragCmd, iconSelectCmd)
	gestureCmd.AddCommand(gestureBeginCmd, gestureMoveCmd, gestureEndCmd, gestureCancelAllCmd)

	gestureBeginCmd.Flags().String("handle", "", "Resize handle: n, ne, e, se, s, sw, w or nw (default: drag)")
	iconSelectCmd.Flags().String("step", "", "Move the selection: next, previous or clear")
	gestureEndCmd.Flags().String("token", "", "Only end the gesture with this token")
	gestureEndCmd.Flags().String("reason", "", "End reason (default pointer-up)")
	gestureCancelAllCmd.Flags().String("reason", "", "End reason (default blur)")
}
