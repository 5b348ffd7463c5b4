package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/esimov/daub"
	"github.com/esimov/daub/utils"
	"go.uber.org/zap"
)

const HelpBanner = `
┌┬┐┌─┐┬ ┬┌┐
 ││├─┤│ │├┴┐
─┴┘┴ ┴└─┘└─┘

Layered raster painting engine.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source scene file or directory")
	destination = flag.String("out", pipeName, "Destination image or directory")
	format      = flag.String("format", "", "Output format: png, jpeg or bmp (default: destination extension)")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of scenes to render concurrently")
	verbose     = flag.Bool("v", false, "Verbose logging")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	var err error
	var l *zap.Logger
	if *verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer l.Sync() //nolint:errcheck

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ DAUB", utils.StatusMessage),
		utils.DecorateText("is rendering the scene...", utils.DefaultMessage))
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*200, true)
	spinner.StopMsg = fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ DAUB", utils.StatusMessage),
		utils.DecorateText("is rendering the scene... ✔", utils.DefaultMessage))

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	op := &daub.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
		Format:   *format,
		Logger:   l,
		Spinner:  spinner,
	}

	now := time.Now()
	if err := op.Execute(); err != nil {
		log.Fatalf("%s\n\t%s",
			utils.DecorateText("Rendering failed:", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}
