package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/df07/ascii-raytracer/pkg/config"
	"github.com/df07/ascii-raytracer/pkg/core"
	"github.com/df07/ascii-raytracer/pkg/framebuffer"
	"github.com/df07/ascii-raytracer/pkg/pattern"
	"github.com/df07/ascii-raytracer/pkg/renderer"
	"github.com/df07/ascii-raytracer/pkg/scene"
	"github.com/df07/ascii-raytracer/web/server"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "asciitracer",
		Short: "ASCII ray tracer",
		Long: `Renders a checkerboard floor and reflective spheres as a grid of characters.
Scene, camera and output settings come from an optional YAML config file.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults to the built-in scene)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(
		renderCmd(),
		ringCmd(),
		probeCmd(),
		configCmd(),
		serveCmd(),
		scenesCmd(),
	)
	return rootCmd
}

func newLogger() core.Logger {
	if verbose {
		return renderer.NewDefaultLogger()
	}
	return nil
}

func renderCmd() *cobra.Command {
	var (
		format    string
		outputDir string
		workers   int
		mirror    bool
		sceneID   string
		scenesDir string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if sceneID != "" {
				if cfg, err = scene.LoadScene(sceneID, scenesDir, cfg); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = format
			}
			if cmd.Flags().Changed("output-dir") {
				cfg.Output.Dir = outputDir
			}
			if cmd.Flags().Changed("workers") {
				cfg.Render.Workers = workers
			}
			if cmd.Flags().Changed("mirror") {
				cfg.Render.MirrorX = mirror
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, cmd.OutOrStdout(), newLogger())
		},
	}

	cmd.Flags().StringVar(&format, "format", config.FormatText, "output format: text, png or s3")
	cmd.Flags().StringVar(&outputDir, "output-dir", "output", "directory for png output")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of render workers (0 = CPU count)")
	cmd.Flags().BoolVar(&mirror, "mirror", false, "mirror the scene along x")
	cmd.Flags().StringVar(&sceneID, "scene", "", "scene ID from the scenes command (default: the config's scene)")
	cmd.Flags().StringVar(&scenesDir, "scenes-dir", "scenes", "directory holding scene config files")
	return cmd
}

// runRender builds the scene from cfg, renders it and hands the grid to the configured sink
func runRender(ctx context.Context, cfg *config.Config, stdout io.Writer, logger core.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := scene.NewSceneFromConfig(cfg.Scene)
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	if cfg.Render.MirrorX {
		s = s.MirrorX()
	}

	camera := renderer.NewCamera(renderer.CameraConfigFrom(cfg.Camera))
	rt := renderer.NewRaytracer(s, camera, renderer.RenderConfigFrom(cfg.Render))
	rt.SetLogger(logger)

	grid, _ := rt.Render()

	sink, finish, err := newSink(cfg, stdout, logger)
	if err != nil {
		return err
	}
	return finish(sink.Write(ctx, grid))
}

// newSink selects the framebuffer sink for cfg.Output.Format. The returned
// finish func takes the sink's write error and releases the sink's resources,
// returning the first error of the two.
func newSink(cfg *config.Config, stdout io.Writer, logger core.Logger) (framebuffer.Sink, func(error) error, error) {
	image := framebuffer.ImageConfig{
		PixelScale:  cfg.Output.PixelScale,
		AspectScale: cfg.Camera.AspectScale,
		Background:  cfg.Render.MissSymbol[0],
	}

	switch cfg.Output.Format {
	case config.FormatText:
		return framebuffer.NewTextSink(stdout), passThrough, nil

	case config.FormatPNG:
		if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		filename := framebuffer.NewFileName(cfg.Output.Dir, "png", time.Now())
		file, err := os.Create(filename)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create %s: %w", filename, err)
		}
		if logger != nil {
			logger.Printf("Render will be saved as %s", filepath.Clean(filename))
		}
		finish := func(writeErr error) error {
			closeErr := file.Close()
			if writeErr == nil && closeErr != nil {
				writeErr = fmt.Errorf("failed to close %s: %w", filename, closeErr)
			}
			if writeErr != nil {
				os.Remove(filename)
			}
			return writeErr
		}
		return framebuffer.NewPNGSink(file, image), finish, nil

	case config.FormatS3:
		client, err := framebuffer.NewS3Client(cfg.Output.S3)
		if err != nil {
			return nil, nil, err
		}
		return framebuffer.NewS3Sink(client, cfg.Output.S3.Bucket, cfg.Output.S3.KeyPrefix, image, logger), passThrough, nil

	default:
		return nil, nil, fmt.Errorf("unknown output format %q", cfg.Output.Format)
	}
}

func passThrough(err error) error { return err }

func ringCmd() *cobra.Command {
	board := pattern.DefaultRingBoard()

	cmd := &cobra.Command{
		Use:   "ring",
		Short: "Draw a ring over a chessboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if board.Rows <= 0 || board.Cols <= 0 || board.SquareHeight <= 0 || board.SquareWidth <= 0 {
				return fmt.Errorf("board dimensions must be positive")
			}
			return framebuffer.NewTextSink(cmd.OutOrStdout()).Write(cmd.Context(), board.Render())
		},
	}

	cmd.Flags().IntVar(&board.Radius, "radius", board.Radius, "inner ring radius in cells")
	cmd.Flags().IntVar(&board.Thickness, "thickness", board.Thickness, "ring thickness in cells")
	cmd.Flags().IntVar(&board.Rows, "rows", board.Rows, "squares vertically")
	cmd.Flags().IntVar(&board.Cols, "cols", board.Cols, "squares horizontally")
	return cmd
}

func probeCmd() *cobra.Command {
	var origin, direction []float64

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "List the spheres a single ray passes through",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(origin) != 3 || len(direction) != 3 {
				return fmt.Errorf("origin and direction need three components each")
			}
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			s, err := scene.NewSceneFromConfig(cfg.Scene)
			if err != nil {
				return fmt.Errorf("failed to build scene: %w", err)
			}

			ray := core.NewRay(
				core.NewVec3(origin[0], origin[1], origin[2]),
				core.NewVec3(direction[0], direction[1], direction[2]),
			)
			if ray.Direction.IsZero() {
				return fmt.Errorf("direction must not be zero")
			}
			return printContacts(cmd.OutOrStdout(), s.Probe(ray))
		},
	}

	cmd.Flags().Float64SliceVar(&origin, "origin", []float64{0, 0, 3}, "ray origin x,y,z")
	cmd.Flags().Float64SliceVar(&direction, "direction", []float64{0, 0, -1}, "ray direction x,y,z")
	return cmd
}

func printContacts(w io.Writer, contacts []scene.Contact) error {
	if len(contacts) == 0 {
		_, err := fmt.Fprintln(w, "Ray misses every sphere")
		return err
	}
	for _, c := range contacts {
		if _, err := fmt.Fprintf(w, "Ray hits sphere %d at (%g, %g, %g)\n", c.Index, c.Point.X, c.Point.Y, c.Point.Z); err != nil {
			return err
		}
	}
	return nil
}

func configCmd() *cobra.Command {
	var savePath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if savePath != "" {
				return cfg.Save(savePath)
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&savePath, "save", "", "write the configuration to this file instead of stdout")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			return server.NewServer(port, cfg).Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to serve on")
	return cmd
}

func scenesCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and scene files",
		RunE: func(cmd *cobra.Command, args []string) error {
			response, err := scene.ListAllScenes(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, group := range response.Groups {
				fmt.Fprintf(out, "%s:\n", group.Name)
				for _, s := range group.Scenes {
					location := s.ID
					if s.FilePath != "" {
						location = s.FilePath
					}
					fmt.Fprintf(out, "  %-24s %s\n", s.Name, location)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "scenes", "directory holding scene config files")
	return cmd
}
