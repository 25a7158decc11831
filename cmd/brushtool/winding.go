package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Faultbox/brushkit/pkg/geom"
)

func (a *app) windingCmd() *cobra.Command {
	var (
		clips     []string
		keepFront bool
	)
	cmd := &cobra.Command{
		Use:   "winding <plane>",
		Short: "Print the base winding of a plane, optionally clipped",
		Long: `Build the large square winding that lies on a plane and clip it by
further planes. By default the part behind each clip plane is kept, which is
how brush faces are cut.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePlane(args[0], a.cfg.Brush.DefaultShader)
			if err != nil {
				return err
			}
			w, err := p.BaseWindingForPlane()
			if err != nil {
				return err
			}

			for i, s := range clips {
				clip, err := parsePlane(s, a.cfg.Brush.DefaultShader)
				if err != nil {
					return fmt.Errorf("clip %d: %w", i+1, err)
				}
				if w, err = w.Clip(clip, keepFront); err != nil {
					return fmt.Errorf("clip %d: %w", i+1, err)
				}
			}

			printWinding(cmd.OutOrStdout(), w)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&clips, "clip", "c", nil, "Clip by this plane (repeatable)")
	cmd.Flags().BoolVar(&keepFront, "front", false, "Keep the part in front of clip planes")
	return cmd
}

func printWinding(out io.Writer, w geom.Winding) {
	fmt.Fprintf(out, "winding: %d points\n", w.Len())
	for _, pnt := range w {
		fmt.Fprintf(out, "  %v\n", pnt)
	}
	fmt.Fprintf(out, "area: %g\n", w.Area())
	if w.IsTiny() {
		fmt.Fprintln(out, "tiny: true")
	}
}
