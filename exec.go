package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/MadMatas/img-editor/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// validExtensions lists the supported source file types.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".webp", ".svg"}

// Ops describes the source and destination of a processing run.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
	// Stderr receives the status messages, os.Stderr when nil.
	Stderr io.Writer
}

func (op *Ops) stderr() io.Writer {
	if op.Stderr == nil {
		return os.Stderr
	}
	return op.Stderr
}

// Execute runs the processor over a single file, a pipe, an URL or every
// supported image found in a directory tree.
func (p *Processor) Execute(op *Ops) error {
	defaultMsg := fmt.Sprintf("%s %s",
		utils.DecorateText("☕ MUG", utils.StatusMessage),
		utils.DecorateText("⇢ processing the design...", utils.DefaultMessage),
	)
	if p.Spinner == nil {
		p.Spinner = utils.NewSpinner(defaultMsg, time.Millisecond*80, true)
		p.Spinner.SetWriter(op.stderr())
	}

	// Capture CTRL-C signal and restores back the cursor visibility.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)
	go func() {
		if _, ok := <-signalChan; ok {
			p.Spinner.RestoreCursor()
			os.Exit(1)
		}
	}()

	now := time.Now()

	if utils.IsValidUrl(op.Src) {
		res, err := utils.FetchImage(op.Src)
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		if err := op.checkDst(op.Dst); err != nil {
			return err
		}
		err = op.process(p, bytes.NewReader(res.Data), op.Dst)
		op.printOpStatus(op.Dst, err)
		if err != nil {
			return err
		}
		op.printExecTime(now)
		return nil
	}

	var (
		fs  os.FileInfo
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if op.Src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(op.Src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}

	switch mode := fs.Mode(); {
	case mode.IsDir():
		if err := os.MkdirAll(op.Dst, 0755); err != nil {
			return fmt.Errorf("unable to create the destination directory: %w", err)
		}
		if err := op.processDir(p); err != nil {
			return err
		}
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0: // check for regular files or pipe names
		if err := op.checkDst(op.Dst); err != nil {
			return err
		}
		src, err := op.openSrc(op.Src)
		if err != nil {
			return err
		}
		defer src.Close()

		err = op.process(p, src, op.Dst)
		op.printOpStatus(op.Dst, err)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported source: %s", op.Src)
	}

	op.printExecTime(now)
	return nil
}

// processDir processes recursively the image files of the source directory
// with a limited number of concurrent workers.
func (op *Ops) processDir(p *Processor) error {
	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	// The interactive color picker works on a single image only.
	dirProc := *p
	dirProc.PickColor = nil

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	err := filepath.WalkDir(op.Src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return errors.New("directory walk cancelled")
		}
		if !d.Type().IsRegular() || !isValidExtension(filepath.Ext(path)) {
			return nil
		}

		g.Go(func() error {
			src, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("unable to open the source file: %w", err)
			}
			defer src.Close()

			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".png"
			dst := filepath.Join(op.Dst, name)

			err = op.process(&dirProc, src, dst)
			op.printOpStatus(path, err)
			return err
		})
		return nil
	})
	if gerr := g.Wait(); gerr != nil {
		return gerr
	}
	return err
}

// process runs the processor over the source and writes the result to the destination path.
func (op *Ops) process(p *Processor, src io.Reader, out string) error {
	successMsg := fmt.Sprintf("%s %s %s",
		utils.DecorateText("☕ MUG", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the design has been exported successfully ✔", utils.SuccessMessage),
	)
	errorMsg := fmt.Sprintf("%s %s %s",
		utils.DecorateText("☕ MUG", utils.StatusMessage),
		utils.DecorateText("processing the design failed...", utils.DefaultMessage),
		utils.DecorateText("✘", utils.ErrorMessage),
	)

	dst, err := op.openDst(out)
	if err != nil {
		return err
	}

	p.Spinner.Start()
	err = p.Process(src, dst)
	if err != nil {
		p.Spinner.StopWith(errorMsg)
	} else {
		p.Spinner.StopWith(successMsg)
	}

	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil {
			log.Printf("could not close the opened file: %v", cerr)
		}
		if err != nil {
			// remove the generated image file in case of an error
			os.Remove(f.Name())
		}
	}
	return err
}

// openSrc opens the source file or the standard input.
func (op *Ops) openSrc(in string) (io.ReadCloser, error) {
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		return io.NopCloser(os.Stdin), nil
	}
	src, err := os.Open(in)
	if err != nil {
		return nil, fmt.Errorf("unable to open the source file: %w", err)
	}
	return src, nil
}

// openDst creates the destination file or returns the standard output.
func (op *Ops) openDst(out string) (io.Writer, error) {
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdout")
		}
		return os.Stdout, nil
	}
	dst, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to create the destination file: %w", err)
	}
	return dst, nil
}

// checkDst verifies that the design is exported as PNG.
func (op *Ops) checkDst(out string) error {
	if out == op.PipeName {
		return nil
	}
	if ext := strings.ToLower(filepath.Ext(out)); ext != ".png" {
		return fmt.Errorf("%v file type not supported, the design is exported as png", ext)
	}
	return nil
}

// printOpStatus displays the relevant information about the processing.
func (op *Ops) printOpStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(op.stderr(), "%s%s",
			utils.DecorateText("\nError processing the image: ", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("%s\n\tReason: %v\n", fname, err), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(op.stderr(), "\nThe design has been saved as: %s %s\n\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

func (op *Ops) printExecTime(start time.Time) {
	fmt.Fprintf(op.stderr(), "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(start)), utils.SuccessMessage))
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string) bool {
	return utils.Contains(validExtensions, strings.ToLower(ext))
}
