package daub

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/esimov/daub/utils"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// sceneExtensions lists the file extensions picked up when rendering a directory.
var sceneExtensions = []string{".yaml", ".yml"}

// Ops describes a batch rendering job: a single scene file, a pipe or a
// directory of scenes, rendered to a file, a pipe or a directory.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
	// Format forces the output format. Empty derives it from the destination extension.
	Format  string
	Logger  *zap.Logger
	Spinner *utils.Spinner
	// Status receives the per scene report lines. Defaults to stderr.
	Status io.Writer
}

// result holds the relevant information about a rendered scene.
type result struct {
	path string
	err  error
}

// Execute renders the scenes. In directory mode every scene is rendered on
// its own canvas by a bounded pool of workers and the errors of all the
// failed scenes are joined together.
func (op *Ops) Execute() error {
	var (
		fs  os.FileInfo
		err error
	)
	if op.Logger == nil {
		op.Logger = zap.NewNop()
	}
	if op.Status == nil {
		op.Status = os.Stderr
	}

	// Check if the source is a pipe name or a regular file.
	if op.Src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(op.Src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source scene: %w", err)
	}

	if op.Spinner != nil {
		op.Spinner.Start()
		defer op.Spinner.Stop()
	}
	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		// Read destination file or directory.
		if _, err := os.Stat(op.Dst); err != nil {
			if err := os.MkdirAll(op.Dst, 0755); err != nil {
				return fmt.Errorf("unable to create the destination directory: %w", err)
			}
		}

		// Limit the concurrently running workers to maxWorkers.
		if op.Workers <= 0 || op.Workers > maxWorkers {
			op.Workers = runtime.NumCPU()
		}

		// Render the scene files from the specified directory concurrently.
		var wg sync.WaitGroup
		ch := make(chan result)
		done := make(chan interface{})
		defer close(done)

		paths, errc := walkDir(done, op.Src, sceneExtensions)

		wg.Add(op.Workers)
		for i := 0; i < op.Workers; i++ {
			go func() {
				defer wg.Done()
				op.consumer(op.Dst, ch, done, paths)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		var errs []error
		for res := range ch {
			if res.err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", res.path, res.err))
			}
			op.printOpStatus(res.path, res.err)
		}
		if err := <-errc; err != nil {
			errs = append(errs, err)
		}
		err = errors.Join(errs...)

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0: // check for regular files or pipe names
		err = op.process(op.Src, op.Dst)
		op.printOpStatus(op.Dst, err)

	default:
		err = fmt.Errorf("unsupported source: %s", op.Src)
	}

	op.Logger.Info("rendering finished",
		zap.String("src", op.Src),
		zap.String("elapsed", utils.FormatTime(time.Since(now))),
		zap.Error(err),
	)
	return err
}

// consumer reads the path names from the paths channel and renders each scene.
func (op *Ops) consumer(
	dest string,
	res chan<- result,
	done <-chan interface{},
	paths <-chan string,
) {
	for src := range paths {
		err := op.process(src, op.outputPath(dest, src))

		select {
		case <-done:
			return
		case res <- result{
			path: src,
			err:  err,
		}:
		}
	}
}

// outputPath returns the destination file of a scene rendered in directory mode.
func (op *Ops) outputPath(dest, src string) string {
	ext := "." + FormatPNG
	if op.Format != "" {
		ext = "." + strings.ToLower(op.Format)
	}
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))

	return filepath.Join(dest, name+ext)
}

// process renders a single scene and removes the destination file on failure.
func (op *Ops) process(in, out string) error {
	format := op.Format
	if format == "" && out != op.PipeName {
		f, err := FormatFromPath(out)
		if err != nil {
			return err
		}
		format = f
	}

	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}

	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			if err := f.Close(); err != nil {
				op.Logger.Warn("could not close the opened file", zap.Error(err))
			}
		}
	}()

	err = RunScene(src, dst, format, op.Logger.With(zap.String("scene", in)))
	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			// remove the generated image file in case of an error
			os.Remove(f.Name())
		}
	}
	return err
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.Create(out)
		if err != nil {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
	}
	return src, dst, nil
}

// printOpStatus displays the relevant information about the rendered scene.
func (op *Ops) printOpStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(op.Status, "\n%s %s\n",
			utils.DecorateText("Error rendering the scene:", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("%s\n\tReason: %v", filepath.Base(fname), err), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(op.Status, "\nThe painting has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if isValidExtension(strings.ToLower(filepath.Ext(f.Name())), srcExts) {
				select {
				case <-done:
					return errors.New("directory walk cancelled")
				case pathChan <- path:
				}
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	for _, ex := range extensions {
		if ex == ext {
			return true
		}
	}
	return false
}
