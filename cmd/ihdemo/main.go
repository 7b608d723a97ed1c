// Command ihdemo runs a hero stage headlessly against an in-memory page and
// writes PNG snapshots of the software preview.
//
// Usage:
//
//	ihdemo [-config run.yaml] [-frames n] [-renderer software|gpu] [-out dir] [-v]
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/gpucontext"
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/ihero"
	"github.com/gogpu/ihero/caps"
	"github.com/gogpu/ihero/host"
	"github.com/gogpu/ihero/internal/hud"
	"github.com/gogpu/ihero/internal/loop"
	"github.com/gogpu/ihero/render"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML run description")
		frames     = flag.Int("frames", 0, "override the number of frames")
		renderer   = flag.String("renderer", "", "override the renderer: software or gpu")
		output     = flag.String("out", "", "override the snapshot directory")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	ihero.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			log.Fatalf("ihdemo: %v", err)
		}
	}
	if *frames > 0 {
		cfg.Frames = *frames
	}
	if *renderer != "" {
		cfg.Renderer = *renderer
	}
	if *output != "" {
		cfg.Output = *output
	}
	if err := cfg.validate(); err != nil {
		log.Fatalf("ihdemo: %v", err)
	}

	res, err := run(context.Background(), cfg)
	if err != nil {
		log.Fatalf("ihdemo: %v", err)
	}
	log.Printf("ihdemo: %d frames, status %s, %d snapshots in %s", res.frames, res.status, res.snapshots, cfg.Output)
}

type result struct {
	frames    int
	snapshots int
	status    string
}

// run mounts one root, plays the script and renders cfg.Frames frames.
func run(ctx context.Context, cfg *Config) (result, error) {
	doc := host.NewMemory("ihdemo://local/?" + cfg.Query)
	root := host.NewMemoryRoot()
	canvas := host.NewMemoryCanvas(cfg.Width, cfg.Height)
	root.AddCanvas(ihero.CanvasSelector, canvas)
	root.SetDataset("ihMode", cfg.Mode)
	if cfg.Scenes > 0 {
		root.SetDataset("ihScenes", fmt.Sprint(cfg.Scenes))
	}
	track := float64(cfg.Height) * 4
	root.SetGeometry(host.Geometry{
		RootHeight:     track + float64(cfg.Height),
		ViewportHeight: float64(cfg.Height),
		ViewportWidth:  float64(cfg.Width),
	})
	doc.Add(ihero.RootSelector, root)

	var opts []ihero.StageOption
	if cfg.Chapters != "" {
		var chapters ihero.Loader[*ihero.ChapterAsset]
		defer chapters.Close()
		asset, err := chapters.Load(ctx, cfg.Chapters, ihero.LoadChapterFile(cfg.Chapters))
		if err != nil {
			return result{}, err
		}
		opts = append(opts, ihero.WithChapters(asset.Table))
	}

	var env caps.Env
	var preview *render.SoftwareRenderer
	switch cfg.Renderer {
	case "gpu":
		env = caps.HalEnv{Window: gpucontext.NullWindowProvider{W: cfg.Width, H: cfg.Height, SF: cfg.DPR}}
	default:
		env = caps.StaticEnv{
			UA:   "ihero/native (ihdemo)",
			DPR:  cfg.DPR,
			Info: caps.GPUInfo{Available: true, DepthTexture: true, Precision: caps.PrecisionHigh},
		}
		opts = append(opts, ihero.WithRendererFactory(func(host.Canvas, caps.Snapshot) (render.Renderer, error) {
			preview = render.NewSoftwareRenderer()
			return preview, nil
		}))
	}

	sched := loop.NewManual()
	var ctrl *ihero.Controller
	mgr := ihero.NewManager()
	defer mgr.Teardown()
	factory := ihero.NewFactory(doc, env, sched, func(c *ihero.Controller) { ctrl = c }, opts...)
	if _, err := mgr.Mount(doc, ihero.RootSelector, factory); err != nil {
		return result{}, err
	}
	if ctrl == nil {
		st, _ := root.Dataset("status")
		return result{status: "css/" + st}, nil
	}
	stage := ctrl.Stage()

	var overlay *hud.Overlay
	if cfg.HUD || stage.Debug() {
		var err error
		if overlay, err = hud.New(hud.DefaultSize); err != nil {
			return result{}, err
		}
		defer overlay.Close()
	}
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return result{}, err
	}

	p := newPlayer(root, cfg.Script, track)
	frameDur := time.Second / time.Duration(cfg.FPS)
	res := result{}
	for i := 0; i < cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		p.play(i)
		sched.Step(frameDur)
		res.frames++

		if preview == nil || stage.Destroyed() || (i+1)%cfg.SnapshotEvery != 0 {
			continue
		}
		path := filepath.Join(cfg.Output, fmt.Sprintf("frame-%04d.png", i+1))
		if err := snapshot(path, preview.Image(), overlay, hudInfo(stage, i+1)); err != nil {
			return res, err
		}
		res.snapshots++
	}
	res.status = stage.Status().String()
	return res, nil
}

func hudInfo(s *ihero.Stage, frame int) hud.Info {
	q := s.Quality()
	info := hud.Info{
		Status:   s.Status().String(),
		Chapter:  s.Chapter().ID,
		Progress: s.Progress(),
		Quality:  q.Factor,
		FrameMs:  q.RollingFrameMs,
		Frame:    frame,
	}
	if cr, ok := s.Renderer().(render.CapableRenderer); ok {
		info.Adapter = cr.Capabilities().Name
	}
	return info
}

// snapshot writes a copy of img, with the overlay when one is set.
func snapshot(path string, img *image.RGBA, overlay *hud.Overlay, info hud.Info) error {
	if img == nil {
		return nil
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	if overlay != nil {
		overlay.Draw(out, info.Lines())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
