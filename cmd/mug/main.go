package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"gioui.org/app"
	editor "github.com/MadMatas/img-editor"
	"github.com/MadMatas/img-editor/bgremove"
	"github.com/MadMatas/img-editor/preview"
	"github.com/MadMatas/img-editor/utils"
)

const HelpBanner = `
┌┬┐┬ ┬┌─┐
││││ ││ ┬
┴ ┴└─┘└─┘

Mug design image editor.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source       = flag.String("in", pipeName, "Source")
	destination  = flag.String("out", pipeName, "Destination (png)")
	brightness   = flag.Int("brightness", 0, "Brightness in the [-100, 100] range")
	contrast     = flag.Int("contrast", 0, "Contrast in the [-100, 100] range")
	grayscale    = flag.Bool("gray", false, "Convert the image to grayscale")
	blurRadius   = flag.Int("blur", 0, "Blur radius")
	transparency = flag.Int("transparency", 0, "Transparency percentage of the image")
	keyColor     = flag.String("key", "", "Remove the pixels close to this hex color")
	tolerance    = flag.Int("tolerance", 38, "Color key tolerance in the [0, 255] range")
	removeBg     = flag.Bool("bg-remove", false, "Remove the image background")
	remote       = flag.String("remote", "", "Background removal service URL")
	cascade      = flag.String("cascade", "", "Face classifier used to protect faces during the background removal")
	maxSize      = flag.Int("max", editor.MaxImageSize, "Maximum image side")
	width        = flag.Int("width", 0, "Canvas width")
	height       = flag.Int("height", 0, "Canvas height")
	ratio        = flag.Float64("ratio", 1, "Device pixel ratio")
	pick         = flag.Bool("pick", false, "Pick the key color with the eyedropper")
	workers      = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	proc := &editor.Processor{
		Brightness:   *brightness,
		Contrast:     *contrast,
		Grayscale:    *grayscale,
		BlurRadius:   *blurRadius,
		Transparency: *transparency,
		KeyColor:     *keyColor,
		Tolerance:    *tolerance,
		RemoveBg:     *removeBg,
		MaxSize:      *maxSize,
		Width:        *width,
		Height:       *height,
		PixelRatio:   *ratio,
	}

	if *removeBg {
		remover, err := newRemover()
		if err != nil {
			log.Fatalf("%s", utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		proc.Remover = remover
	}

	ops := &editor.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	}

	if !*pick {
		run(proc, ops)
		return
	}

	proc.PickColor = func(ed *editor.Editor) (string, error) {
		return preview.Pick(ed, "Pick the background color")
	}
	// The Gio event loop must run on the main goroutine.
	go func() {
		run(proc, ops)
		os.Exit(0)
	}()
	app.Main()
}

func run(proc *editor.Processor, ops *editor.Ops) {
	if err := proc.Execute(ops); err != nil {
		log.Fatalf("%s%s",
			utils.DecorateText("\nError: ", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}
}

// newRemover returns the remote remover when a service URL is given,
// the face aware color key remover otherwise.
func newRemover() (editor.BackgroundRemover, error) {
	if *remote != "" {
		if !utils.IsValidUrl(*remote) {
			return nil, fmt.Errorf("invalid removal service URL: %s", *remote)
		}
		return bgremove.NewHTTPRemover(*remote), nil
	}

	r := bgremove.NewColorKeyRemover()
	r.Tolerance = editor.NormalizeTolerance(*tolerance)
	if *keyColor != "" {
		c, err := utils.ParseHex(*keyColor)
		if err != nil {
			return nil, err
		}
		r.Color = &c
	}
	if *cascade != "" {
		fd, err := bgremove.LoadFaceDetector(*cascade)
		if err != nil {
			return nil, err
		}
		r.Faces = fd
	}
	return r, nil
}
