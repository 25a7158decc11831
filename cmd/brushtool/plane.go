package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) planeCmd() *cobra.Command {
	var (
		points  []string
		winding bool
	)
	cmd := &cobra.Command{
		Use:   "plane <x1,y1,z1,x2,y2,z2,x3,y3,z3>",
		Short: "Show the plane through three points",
		Long: `Derive normal and offset of the plane through three points given in
face order, and optionally classify points against it.`,
		Example: `  brushtool plane "0,0,0 1,0,0 0,1,0" --point 0,0,5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePlane(args[0], a.cfg.Brush.DefaultShader)
			if err != nil {
				a.log.Warn("bad plane", zap.String("arg", args[0]), zap.Error(err))
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "normal: %v\n", p.Normal())
			fmt.Fprintf(out, "dist:   %g\n", p.Dist())
			fmt.Fprintf(out, "shader: %s\n", p.Shader())

			for _, s := range points {
				pnt, err := parsePoint(s)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "point %v: distance %g, on plane %t\n",
					pnt, p.DistanceToPoint(pnt), p.OnPlane(pnt))
			}

			if winding {
				w, err := p.BaseWindingForPlane()
				if err != nil {
					return err
				}
				printWinding(out, w)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&points, "point", "p", nil, "Point x,y,z to measure against the plane (repeatable)")
	cmd.Flags().BoolVarP(&winding, "winding", "w", false, "Also print the base winding")
	return cmd
}
