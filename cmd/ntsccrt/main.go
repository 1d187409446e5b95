// Command ntsccrt is the CLI front end for the crt package: one-shot image
// conversion through the composite pipeline, directory batch processing,
// a filesystem watch mode, a remote preview server, and the interactive
// viewer. None of this is part of the core library; per spec.md it is all
// an external collaborator wired up here.
//
// Grounded on doismellburning-samoyed's cmd/direwolf/main.go flag-parsing
// shape (spf13/pflag, a Usage override, subcommand dispatch on the first
// positional argument) and kissutil.go's use of lestrrat-go/strftime for
// output filename templating.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/klauspost/compress/zstd"
	"github.com/lestrrat-go/strftime"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ntsccrt/ntsccrt/crt"
	"github.com/ntsccrt/ntsccrt/imagecodec"
	"github.com/ntsccrt/ntsccrt/internal/server"
	"github.com/ntsccrt/ntsccrt/internal/viewer"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, rest := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "convert":
		err = runConvert(rest)
	case "trace":
		err = runTrace(rest)
	case "watch":
		err = runWatch(rest)
	case "batch":
		err = runBatch(rest)
	case "serve":
		err = runServe(rest)
	case "view":
		err = runView(rest)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "ntsccrt: unknown subcommand %q\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("ntsccrt failed", "subcommand", cmd, "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: ntsccrt <subcommand> [flags]

subcommands:
  convert   run one image through the composite pipeline
  trace     dump analog buffer samples for offline inspection
  watch     re-convert a file every time it changes on disk
  batch     convert every image in a directory
  serve     stream decoded frames over a WebSocket, with mDNS advertisement
  view      open the interactive ebiten viewer`)
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

func loadImage(path string) (*imagecodec.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open input image")
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".ppm":
		return imagecodec.DecodePPM(f)
	case ".bmp":
		return imagecodec.DecodeBMP(f)
	default:
		return nil, errors.Errorf("unrecognized image extension %q (want .ppm or .bmp)", filepath.Ext(path))
	}
}

// confirmOverwrite prompts on stdin before clobbering an existing file, but
// only when stdout is an interactive terminal. batch and watch write through
// runConvert and so are prompted the same way when run from a terminal;
// with stdout redirected nothing prompts.
func confirmOverwrite(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	fmt.Fprintf(os.Stderr, "%s already exists, overwrite? [y/N] ", path)
	reply, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if strings.ToLower(strings.TrimSpace(reply)) != "y" {
		return errors.Errorf("not overwriting %s", path)
	}
	return nil
}

func saveImage(path string, img *imagecodec.Image) error {
	if err := confirmOverwrite(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output image")
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".ppm":
		return imagecodec.EncodePPM(f, img)
	case ".bmp":
		return imagecodec.EncodeBMP(f, img)
	default:
		return errors.Errorf("unrecognized image extension %q (want .ppm or .bmp)", filepath.Ext(path))
	}
}

func buildCRT(outw, outh int, hue, noise int32) (*crt.CRT, []byte) {
	c := crt.NewCRT(crt.DefaultSystemConfig())
	out := make([]byte, outw*outh*3)
	c.Init(outw, outh, crt.FormatRGB, out)
	c.Controls.Hue = hue
	return c, out
}

func runConvert(args []string) error {
	fs := pflag.NewFlagSet("convert", pflag.ExitOnError)
	in := fs.StringP("in", "i", "", "input image (.ppm or .bmp)")
	out := fs.StringP("out", "o", "", "output image (.ppm or .bmp)")
	asColor := fs.Bool("color", true, "modulate chroma as well as luma")
	noise := fs.Int32("noise", 0, "noise level injected during demodulation")
	hue := fs.Int32("hue", 0, "hue rotation in degrees")
	fs.Parse(args)

	if *in == "" || *out == "" {
		return errors.New("convert requires --in and --out")
	}
	src, err := loadImage(*in)
	if err != nil {
		return err
	}

	c, outBuf := buildCRT(src.W, src.H, *hue, *noise)
	c.Modulate(&crt.ModulateSettings{Data: src.Pix, Format: crt.FormatRGB, W: src.W, H: src.H, AsColor: *asColor, Hue: *hue})
	c.Demodulate(*noise)

	return saveImage(*out, &imagecodec.Image{W: src.W, H: src.H, Pix: outBuf})
}

func runTrace(args []string) error {
	fs := pflag.NewFlagSet("trace", pflag.ExitOnError)
	in := fs.StringP("in", "i", "", "input image (.ppm or .bmp)")
	out := fs.StringP("out", "o", "", "trace output file (.zst compressed)")
	fs.Parse(args)

	if *in == "" || *out == "" {
		return errors.New("trace requires --in and --out")
	}
	src, err := loadImage(*in)
	if err != nil {
		return err
	}

	c := crt.NewCRT(crt.DefaultSystemConfig())
	c.Init(src.W, src.H, crt.FormatRGB, make([]byte, src.W*src.H*3))
	c.Modulate(&crt.ModulateSettings{Data: src.Pix, Format: crt.FormatRGB, W: src.W, H: src.H, AsColor: true})

	f, err := os.Create(*out)
	if err != nil {
		return errors.Wrap(err, "create trace file")
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return errors.Wrap(err, "create zstd writer")
	}
	defer zw.Close()

	raw := c.AnalogSnapshot()
	biased := make([]byte, len(raw))
	for i, b := range raw {
		biased[i] = byte(int32(int8(b)) + 128)
	}
	if _, err := zw.Write(biased); err != nil {
		return errors.Wrap(err, "write trace")
	}
	return nil
}

func runWatch(args []string) error {
	fs := pflag.NewFlagSet("watch", pflag.ExitOnError)
	in := fs.StringP("in", "i", "", "input image to watch")
	out := fs.StringP("out", "o", "", "output image, rewritten on every change")
	fs.Parse(args)
	if *in == "" || *out == "" {
		return errors.New("watch requires --in and --out")
	}

	logger := newLogger()
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create fsnotify watcher")
	}
	defer w.Close()
	if err := w.Add(*in); err != nil {
		return errors.Wrap(err, "watch input file")
	}

	convertOnce := func() {
		if err := runConvert([]string{"--in", *in, "--out", *out}); err != nil {
			logger.Error("convert failed", "err", err)
		} else {
			logger.Info("converted", "in", *in, "out", *out)
		}
	}
	convertOnce()

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				convertOnce()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "err", err)
		}
	}
}

func runBatch(args []string) error {
	fs := pflag.NewFlagSet("batch", pflag.ExitOnError)
	inDir := fs.StringP("in-dir", "i", "", "input directory")
	outDir := fs.StringP("out-dir", "o", "", "output directory")
	pattern := fs.StringP("pattern", "p", "%Y%m%d-%H%M%S", "strftime pattern for output filenames")
	logFile := fs.String("log-file", "", "rotate batch logs to this file (lumberjack)")
	fs.Parse(args)
	if *inDir == "" || *outDir == "" {
		return errors.New("batch requires --in-dir and --out-dir")
	}

	logger := newLogger()
	if *logFile != "" {
		logger.SetOutput(&lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}

	namer, err := strftime.New(*pattern)
	if err != nil {
		return errors.Wrap(err, "parse strftime pattern")
	}

	entries, err := os.ReadDir(*inDir)
	if err != nil {
		return errors.Wrap(err, "read input directory")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	for i, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".ppm" && ext != ".bmp" {
			continue
		}
		ts := time.Unix(int64(i), 0).UTC()
		name := namer.FormatString(ts) + ext
		inPath := filepath.Join(*inDir, e.Name())
		outPath := filepath.Join(*outDir, name)
		if err := runConvert([]string{"--in", inPath, "--out", outPath}); err != nil {
			logger.Error("batch entry failed", "file", e.Name(), "err", err)
			continue
		}
		logger.Info("batch entry converted", "in", inPath, "out", outPath)
	}
	return nil
}

func runServe(args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ExitOnError)
	in := fs.StringP("in", "i", "", "input image to stream")
	addr := fs.String("addr", ":8420", "listen address")
	name := fs.String("name", "ntsccrt", "mDNS service name")
	noise := fs.Int32("noise", 0, "noise level injected each frame")
	fs.Parse(args)
	if *in == "" {
		return errors.New("serve requires --in")
	}

	logger := newLogger()
	src, err := loadImage(*in)
	if err != nil {
		return err
	}
	srv := server.New(&crt.ModulateSettings{Data: src.Pix, Format: crt.FormatRGB, W: src.W, H: src.H, AsColor: true}, src.W, src.H)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	port := 8420
	if _, p, err := net.SplitHostPort(*addr); err == nil {
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	if err := server.Advertise(ctx, *name, port); err != nil {
		logger.Warn("mDNS advertisement failed, continuing without it", "err", err)
	}

	field := 0
	go func() {
		ticker := time.NewTicker(time.Second / 30)
		defer ticker.Stop()
		for range ticker.C {
			srv.PushFrame(field, *noise)
			field ^= 1
		}
	}()

	logger.Info("serving", "addr", *addr)
	return errors.Wrap(http.ListenAndServe(*addr, srv.Handler()), "serve http")
}

func runView(args []string) error {
	fs := pflag.NewFlagSet("view", pflag.ExitOnError)
	in := fs.StringP("in", "i", "", "input image to view")
	outw := fs.Int("width", 640, "viewer window width")
	outh := fs.Int("height", 480, "viewer window height")
	fs.Parse(args)
	if *in == "" {
		return errors.New("view requires --in")
	}
	src, err := loadImage(*in)
	if err != nil {
		return err
	}
	g := viewer.New(src.Pix, crt.FormatRGB, src.W, src.H, *outw, *outh)
	ebiten.SetWindowSize(*outw, *outh)
	ebiten.SetWindowTitle("ntsccrt viewer")
	return ebiten.RunGame(g)
}

