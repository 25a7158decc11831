package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/brushkit/internal/logger"
	"github.com/Faultbox/brushkit/internal/watcher"
	"github.com/Faultbox/brushkit/pkg/encoding"
	"github.com/Faultbox/brushkit/pkg/geom"
	"github.com/Faultbox/brushkit/pkg/mapfile"
)

// watchDebounce collapses the burst of events one editor save produces.
const watchDebounce = 200 * time.Millisecond

type buildOptions struct {
	output  string
	message string
	trim    bool
	watch   bool
}

func (a *app) buildCmd() *cobra.Command {
	var opts buildOptions
	cmd := &cobra.Command{
		Use:   "build <doc.yaml>",
		Short: "Build brushes from a YAML document and write a .map",
		Long: `Read a brush document, build every brush and write them into the
worldspawn entity of a .map file. Faces of invalid planes are written with the
no-draw shader.

With --watch the document is rebuilt whenever it changes until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch && opts.output == "" {
				return errors.New("--watch needs --output")
			}
			if err := a.build(cmd.OutOrStdout(), args[0], opts); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watchBuild(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&opts.output, "output", "o", "", "Write the .map here instead of stdout")
	fl.StringVar(&opts.message, "message", "", "Worldspawn message key")
	fl.BoolVar(&opts.trim, "trim", false, "Drop planes that do not touch the brush")
	fl.BoolVarP(&opts.watch, "watch", "w", false, "Rebuild when the document changes")
	return cmd
}

// build runs one document to map conversion.
func (a *app) build(stdout io.Writer, source string, opts buildOptions) error {
	doc, err := mapfile.LoadDocument(source)
	if err != nil {
		return err
	}

	brushes, err := a.buildBrushes(doc, opts.trim)
	if err != nil {
		return err
	}

	if opts.output == "" {
		err = a.writeMap(stdout, brushes, opts.message)
	} else {
		err = a.writeMapFile(opts.output, brushes, opts.message)
	}
	if err != nil {
		return err
	}
	a.log.Info("map written",
		zap.String("source", source),
		zap.String("output", opts.output),
		zap.Int("brushes", len(brushes)))
	return nil
}

func (a *app) watchBuild(ctx context.Context, stdout io.Writer, source string, opts buildOptions) error {
	w, err := watcher.New(watchDebounce, logger.Named("watch"))
	if err != nil {
		return err
	}
	defer w.Close()

	err = w.Watch([]string{source}, func(string) {
		if err := a.build(stdout, source, opts); err != nil {
			a.log.Error("rebuild failed", zap.String("source", source), zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	a.log.Info("watching for changes", zap.String("source", source))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// buildBrushes builds doc and checks every brush for open or clipped faces.
func (a *app) buildBrushes(doc *mapfile.Document, trim bool) ([]*geom.Brush, error) {
	for i := range doc.Brushes {
		if doc.Brushes[i].Detail && doc.Brushes[i].Shader == "" {
			doc.Brushes[i].Shader = a.cfg.Brush.DetailShader
		}
	}

	brushes, err := doc.Build(a.cfg.Brush.DefaultShader,
		geom.WithLogger(logger.Named("brush")),
		geom.WithIntersectionTolerance(a.cfg.Brush.IntersectionTolerance))
	if err != nil {
		return nil, err
	}

	for i, b := range brushes {
		if trim {
			if n := b.RemoveRedundantPlanes(); n > 0 {
				a.log.Info("trimmed planes", zap.Int("brush", i), zap.Int("removed", n))
			}
		}
		ws, err := b.Windings()
		if err != nil {
			return nil, fmt.Errorf("brush %d: %w", i, err)
		}
		faces := 0
		for _, w := range ws {
			if w != nil {
				faces++
			}
		}
		a.log.Debug("brush built", zap.Int("brush", i), zap.Int("faces", faces))
	}
	return brushes, nil
}

// writeMapFile writes the map next to path and renames it into place, so a
// failed build leaves the previous file untouched.
func (a *app) writeMapFile(path string, brushes []*geom.Brush, message string) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = a.writeMap(f, brushes, message); err != nil {
		return err
	}
	if err = f.Chmod(0644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func (a *app) writeMap(out io.Writer, brushes []*geom.Brush, message string) error {
	enc, err := encoding.NewWriter(out, a.cfg.Output.Charset)
	if err != nil {
		return err
	}
	w := mapfile.NewWriter(enc, a.cfg.Output.Precision)

	pairs := [][2]string{{"classname", "worldspawn"}}
	if message != "" {
		pairs = append(pairs, [2]string{"message", message})
	}
	if err := w.BeginEntity(pairs...); err != nil {
		return err
	}
	for i, b := range brushes {
		corrected, err := w.WriteBrush(b)
		if err != nil {
			return fmt.Errorf("brush %d: %w", i, err)
		}
		if corrected > 0 {
			a.log.Warn("invalid faces set to no-draw shader",
				zap.Int("brush", i), zap.Int("faces", corrected))
		}
	}
	if err := w.EndEntity(); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return enc.Close()
}
