package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/brushkit/internal/config"
	"github.com/Faultbox/brushkit/internal/prtview"
)

func (a *app) portalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portals",
		Short: "Show or change portal viewer display settings",
	}
	cmd.AddCommand(a.portalsShowCmd(), a.portalsSetCmd())
	return cmd
}

func (a *app) portalsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current portal settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printPortals(cmd.OutOrStdout(), &a.cfg.Portals)
		},
	}
}

func (a *app) portalsSetCmd() *cobra.Command {
	var (
		width2D, width3D, trans, clipRange float64
		zbuffer                            string
		color2D, color3D, colorFog         string
		dryRun                             bool
	)
	toggles := map[string]func(*prtview.Settings) *bool{
		"show-2d":      func(s *prtview.Settings) *bool { return &s.Show2D },
		"antialias-2d": func(s *prtview.Settings) *bool { return &s.AA2D },
		"show-3d":      func(s *prtview.Settings) *bool { return &s.Show3D },
		"antialias-3d": func(s *prtview.Settings) *bool { return &s.AA3D },
		"fog":          func(s *prtview.Settings) *bool { return &s.Fog },
		"polygons":     func(s *prtview.Settings) *bool { return &s.Polygons },
		"lines":        func(s *prtview.Settings) *bool { return &s.Lines },
		"clip":         func(s *prtview.Settings) *bool { return &s.Clip },
	}
	toggleValues := make(map[string]*bool, len(toggles))

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change portal settings and save them to the config file",
		Long: `Apply the given changes to a copy of the portal settings. Ranged
values are clamped to their slider range. Nothing is saved if any value is
rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := prtview.Begin(&a.cfg.Portals)
			defer sess.Cancel()

			fl := cmd.Flags()
			if fl.Changed("width-2d") {
				sess.SetWidth2D(width2D)
			}
			if fl.Changed("width-3d") {
				sess.SetWidth3D(width3D)
			}
			if fl.Changed("transparency") {
				sess.SetTransparency(trans)
			}
			if fl.Changed("clip-range") {
				sess.SetClipRange(clipRange)
			}
			if fl.Changed("zbuffer") {
				m, err := prtview.ParseZBufferMode(zbuffer)
				if err != nil {
					return err
				}
				sess.SetZBuffer(m)
			}
			colors := []struct {
				flag   string
				value  string
				target prtview.ColorTarget
			}{
				{"color-2d", color2D, prtview.Color2D},
				{"color-3d", color3D, prtview.Color3D},
				{"color-fog", colorFog, prtview.ColorFog},
			}
			for _, c := range colors {
				if !fl.Changed(c.flag) {
					continue
				}
				col, err := prtview.ParseColor(c.value)
				if err != nil {
					return fmt.Errorf("--%s: %w", c.flag, err)
				}
				sess.SetColor(c.target, col)
			}
			for name, field := range toggles {
				if fl.Changed(name) {
					v := *toggleValues[name]
					sess.Toggle(func(s *prtview.Settings) { *field(s) = v })
				}
			}

			if err := sess.Commit(); err != nil {
				return err
			}
			if err := printPortals(cmd.OutOrStdout(), &a.cfg.Portals); err != nil {
				return err
			}
			if dryRun {
				return nil
			}

			path := config.Path(&a.flags)
			if err := a.cfg.SaveTo(path); err != nil {
				return err
			}
			a.log.Info("portal settings saved", zap.String("path", path))
			return nil
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&width2D, "width-2d", 0, "2D line width")
	fl.Float64Var(&width3D, "width-3d", 0, "3D line width")
	fl.Float64Var(&trans, "transparency", 0, "3D polygon transparency in percent")
	fl.Float64Var(&clipRange, "clip-range", 0, "Cubic clip range in steps of 64 units")
	fl.StringVar(&zbuffer, "zbuffer", "", "Depth mode: test-write, test-only or off")
	fl.StringVar(&color2D, "color-2d", "", "2D line color as #rrggbb")
	fl.StringVar(&color3D, "color-3d", "", "3D line color as #rrggbb")
	fl.StringVar(&colorFog, "color-fog", "", "Fog color as #rrggbb")
	fl.BoolVar(&dryRun, "dry-run", false, "Print the result without saving")
	for name := range toggles {
		toggleValues[name] = fl.Bool(name, false, "Set "+name)
	}
	return cmd
}

func printPortals(out io.Writer, s *prtview.Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	fmt.Fprintf(out, "# 2D %s\n", s.LineWidth2DText())
	fmt.Fprintf(out, "# 3D %s\n", s.LineWidth3DText())
	fmt.Fprintf(out, "# %s\n", s.TransparencyText())
	fmt.Fprintf(out, "# %s\n", s.ClipRangeText())
	fmt.Fprintf(out, "# %s\n", s.ZBuffer.Description())
	printSwatches(out, s)
	return nil
}

// printSwatches shows each portal color as a block of that color. Output
// that is not a color terminal gets the hex values only.
func printSwatches(out io.Writer, s *prtview.Settings) {
	term := termenv.NewOutput(out)
	swatches := []struct {
		name  string
		color prtview.Color
	}{
		{"2d", s.Color2D},
		{"3d", s.Color3D},
		{"fog", s.ColorFog},
	}
	for _, sw := range swatches {
		block := term.String("    ").Background(term.Color(sw.color.String()))
		fmt.Fprintf(out, "# %-4s %s %s\n", sw.name, sw.color, block)
	}
}
