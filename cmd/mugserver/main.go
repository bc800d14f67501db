// mugserver exposes the background removal of the mug editor over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	editor "github.com/MadMatas/img-editor"
	"github.com/MadMatas/img-editor/bgremove"
	"github.com/MadMatas/img-editor/server"
	"github.com/MadMatas/img-editor/utils"
)

const HelpBanner = `
┌┬┐┬ ┬┌─┐  ┌─┐┌─┐┬─┐┬  ┬┌─┐┬─┐
││││ ││ ┬  └─┐├┤ ├┬┘└┐┌┘├┤ ├┬┘
┴ ┴└─┘└─┘  └─┘└─┘┴└─ └┘ └─┘┴└─

Mug editor background removal server.
    Version: %s

`

// Version indicates the current build version.
var Version string

var (
	addr      = flag.String("addr", ":3000", "Listen address")
	staticDir = flag.String("static", "", "Directory of the editor front-end files")
	maxUpload = flag.Int64("max-upload", server.DefaultMaxUploadSize, "Maximum upload size in bytes")
	remote    = flag.String("remote", "", "Delegate the removal to another service")
	keyColor  = flag.String("key", "", "Background color, detected from the image border when empty")
	tolerance = flag.Int("tolerance", 38, "Color key tolerance in the [0, 255] range")
	cascade   = flag.String("cascade", "", "Face classifier used to protect faces")
	cors      = flag.String("cors", "*", "Allowed cross origin")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	remover, err := newRemover()
	if err != nil {
		log.Fatalf("%s", utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	srv := server.New(server.Config{
		Addr:          *addr,
		Remover:       remover,
		StaticDir:     *staticDir,
		MaxUploadSize: *maxUpload,
		AllowOrigin:   *cors,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("%s %s",
		utils.DecorateText("☕ MUG", utils.StatusMessage),
		utils.DecorateText("server listening on "+srv.Addr(), utils.SuccessMessage),
	)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatalf("%s", utils.DecorateText("Server error: "+err.Error(), utils.ErrorMessage))
	}
	log.Println(utils.DecorateText("server stopped", utils.DefaultMessage))
}

func newRemover() (bgremove.Remover, error) {
	if *remote != "" {
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
