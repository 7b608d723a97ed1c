// Command ihprobe prints the capability snapshot the hero engine would
// compute: for the local GPU adapters by default, or for a browser page
// with -url.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/gogpu/gpucontext"
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/ihero"
	"github.com/gogpu/ihero/caps"
	"github.com/gogpu/ihero/host/rodhost"
	"github.com/gogpu/ihero/internal/gpu"
)

func main() {
	var (
		url      = flag.String("url", "", "probe a browser page instead of the local adapters")
		touch    = flag.Bool("touch", false, "report a coarse pointer for the local probe")
		scale    = flag.Float64("scale", 1, "window scale factor for the local probe")
		timeout  = flag.Duration("timeout", 30*time.Second, "page load timeout")
		stealthy = flag.Bool("stealth", false, "open the page with headless-detection evasions")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	ihero.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var err error
	if *url != "" {
		err = probePage(os.Stdout, *url, *timeout, *stealthy)
	} else {
		err = probeLocal(os.Stdout, *touch, *scale)
	}
	if err != nil {
		log.Fatalf("ihprobe: %v", err)
	}
}

func probeLocal(w io.Writer, touch bool, scale float64) error {
	env := caps.HalEnv{
		Window: gpucontext.NullWindowProvider{SF: scale},
		Touch:  touch,
	}
	printSnapshot(w, caps.Probe(env))

	report, err := gpu.ProbeAdapter(nil)
	if err != nil {
		fmt.Fprintf(w, "adapter     none (%v)\n", err)
		return nil
	}
	fmt.Fprintf(w, "adapter     %s (%s, %s)\n", report.Name, report.Backend, report.DeviceType)
	fmt.Fprintf(w, "depth       sampled=%t max-texture=%d\n", report.DepthSampling, report.MaxTextureSize)
	return nil
}

func probePage(w io.Writer, url string, timeout time.Duration, stealthy bool) error {
	bin, ok := launcher.LookPath()
	if !ok {
		return fmt.Errorf("no browser found")
	}
	u, err := launcher.New().Bin(bin).Headless(true).Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Some pages only mount their hero when the browser does not look
	// automated.
	var page *rod.Page
	if stealthy {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return fmt.Errorf("open tab: %w", err)
	}
	if err := page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		slog.Warn("ihprobe: wait load", "url", url, "err", err)
	}

	printSnapshot(w, caps.Probe(rodhost.Env{Page: page}))

	doc, err := rodhost.New(ctx, page)
	if err != nil {
		return err
	}
	defer doc.Close()
	root, ok := doc.Query(ihero.RootSelector)
	if !ok {
		fmt.Fprintln(w, "root        none")
		return nil
	}
	cfg := ihero.ParseConfig(root)
	_, hasCanvas := root.Canvas(ihero.CanvasSelector)
	fmt.Fprintf(w, "root        %s mode=%s scenes=%d composite=%t canvas=%t\n",
		root.ID(), cfg.Mode, cfg.Scenes, cfg.Composite, hasCanvas)
	return nil
}

func printSnapshot(w io.Writer, s caps.Snapshot) {
	fmt.Fprintf(w, "browser     %s on %s\n", s.Browser, s.OS)
	fmt.Fprintf(w, "pointer     coarse=%t reduced-motion=%t\n", s.CoarsePointer, s.ReducedMotion)
	fmt.Fprintf(w, "dpr         %.2f (max %.2f)\n", s.DevicePixelRatio, s.MaxDPR)
	fmt.Fprintf(w, "gpu         webgl=%t webgl2=%t precision=%s\n", s.WebGL, s.WebGL2, s.MaxShaderPrecision)
}
