package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/brushkit/pkg/geom"
)

func (a *app) intersectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intersect <plane> <plane> <plane>",
		Short: "Find the point where three planes meet",
		Long: `Each plane is nine numbers: three points in face order. Planes with
a (near) singular normal matrix have no single intersection point; the
threshold is brush.intersection_tolerance.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var planes [3]*geom.Plane
			for i, s := range args {
				p, err := parsePlane(s, a.cfg.Brush.DefaultShader)
				if err != nil {
					return fmt.Errorf("plane %d: %w", i+1, err)
				}
				planes[i] = p
			}

			pnt, err := planes[0].PlaneIntersectionTol(planes[1], planes[2], a.cfg.Brush.IntersectionTolerance)
			if err != nil {
				a.log.Warn("no intersection", zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", pnt)
			return nil
		},
	}
}
