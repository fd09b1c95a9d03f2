// Package main provides the entry point for the chessboard scanner
// application.
package main

import (
	"os"
	"time"

	"chessboard-scan/internal/app"
	"chessboard-scan/internal/version"
	"chessboard-scan/ui/mainwindow"
	"chessboard-scan/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/edaniels/golog"
)

const appTitle = "Chessboard Scanner"

func main() {
	logger := golog.NewLogger("boardscan")
	logger.Infof("starting %s %s", appTitle, version.Version)

	appState := app.NewState()
	appPrefs := prefs.Load()

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&app.ScannerTheme{})

	win := mainwindow.New(fyneApp, appState, appPrefs, logger)

	// An image path on the command line skips the open dialog.
	if len(os.Args) > 1 {
		win.OpenImage(os.Args[1])
	}

	setupHotReload(win, logger)

	win.ShowAndRun()
}

// setupHotReload wires restart detection for development builds.
func setupHotReload(win *mainwindow.MainWindow, logger golog.Logger) {
	watcher := app.NewBinaryWatcher(2 * time.Second)
	if watcher == nil {
		logger.Debug("hot reload: unable to determine executable path")
		return
	}
	logger.Debugw("hot reload: watching binary", "path", watcher.ExecPath())

	watcher.OnUpdate(func() {
		logger.Info("hot reload: newer binary detected")
		win.PromptRestart(watcher.Restart, func() {
			watcher.ResetBaseline()
			watcher.Start()
		})
	})
	watcher.Start()
}
