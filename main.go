package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/kie/cyclescroll/backend"
	"github.com/kie/cyclescroll/res"
	"github.com/kie/cyclescroll/ui"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

func main() {
	flag.Parse()
	if *backend.FlagVersion {
		fmt.Println(res.AppVersion)
		return
	}
	if *backend.FlagHelp {
		flag.Usage()
		return
	}

	myApp, err := backend.StartupApp(res.AppName, res.AppVersionTag)
	if err != nil {
		log.Fatalf("fatal startup error: %v", err.Error())
	}
	if backend.HaveCommandLineOptions() {
		log.Println("Command line options override the carousel config for this run")
	}

	fyneApp := app.New()

	w := float32(myApp.Config.Application.WindowWidth)
	if w <= 1 {
		w = 480
	}
	h := float32(myApp.Config.Application.WindowHeight)
	if h <= 1 {
		h = 320
	}
	demoWindow := ui.NewDemoWindow(fyneApp, res.DisplayName, myApp, backend.CommandLineOverrides(), fyne.NewSize(w, h))
	demoWindow.Show()
	demoWindow.Window.SetCloseIntercept(func() {
		demoWindow.SaveWindowSize()
		demoWindow.Carousel.Stop()
		fyneApp.Quit()
	})
	fyneApp.Run()

	log.Println("Running shutdown tasks...")
	myApp.Shutdown()
}
