// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"chessboard-scan/internal/analyze"
	"chessboard-scan/internal/app"
	"chessboard-scan/internal/config"
	"chessboard-scan/internal/enhance"
	"chessboard-scan/internal/grid"
	"chessboard-scan/internal/version"
	"chessboard-scan/ui/picker"
	"chessboard-scan/ui/prefs"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/edaniels/golog"
)

const outputName = "annotated_chessboard.png"

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	prefs  *prefs.Prefs
	logger golog.Logger

	statusBar *widget.Label
}

// New creates the main window.
func New(fyneApp fyne.App, state *app.State, appPrefs *prefs.Prefs, logger golog.Logger) *MainWindow {
	win := fyneApp.NewWindow("Chessboard Scanner")
	win.Resize(fyne.NewSize(1100, 760))

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  appPrefs,
		logger: logger,
	}

	mw.statusBar = widget.NewLabel("Ready")
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.showWelcome()
	return mw
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Board Photo...", mw.onOpenPhoto),
		fyne.NewMenuItem("Save Corners...", mw.onSaveCorners),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Preferences...", mw.onPreferences),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.setStatus("Loaded " + filepath.Base(path))
		}
	})
	mw.state.On(app.EventScanComplete, func(data interface{}) {
		if res, ok := data.(*analyze.Result); ok && res != nil {
			mw.setStatus(fmt.Sprintf("Classified %d dark / %d light at threshold %.1f",
				res.Counts.Dark, res.Counts.Light, res.Threshold))
		}
	})
}

func (mw *MainWindow) setStatus(text string) {
	mw.statusBar.SetText(text)
}

// shell wraps a view with the persistent status bar.
func (mw *MainWindow) shell(view fyne.CanvasObject) fyne.CanvasObject {
	return container.NewBorder(nil, container.NewPadded(mw.statusBar), nil, nil, view)
}

func (mw *MainWindow) showWelcome() {
	title := widget.NewLabelWithStyle("Chessboard Scanner",
		fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	hint := widget.NewLabelWithStyle(
		"Open a board photo, click its four corners,\nand every square is classified light or dark.",
		fyne.TextAlignCenter, fyne.TextStyle{})
	open := widget.NewButton("Open Board Photo...", mw.onOpenPhoto)

	mw.SetContent(mw.shell(container.NewCenter(container.NewVBox(title, hint, open))))
}

// OpenImage loads a photo and starts the scan flow.
func (mw *MainWindow) OpenImage(path string) {
	if err := mw.state.LoadImage(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.prefs.SetString(prefs.KeyLastImageDir, filepath.Dir(path))
	if err := mw.prefs.Save(); err != nil {
		mw.logger.Debugw("failed to save preferences", "error", err)
	}
	go mw.scan()
}

// scan drives one pass: corner picking, the pipeline, the result view.
// It runs off the UI goroutine because the picker blocks.
func (mw *MainWindow) scan() {
	path, img := mw.state.CurrentImage()
	if img == nil {
		return
	}

	quad, err := picker.SelectCorners(context.Background(), mw.Window, img)
	if err != nil {
		if !errors.Is(err, analyze.ErrCanceled) {
			dialog.ShowError(err, mw.Window)
		}
		mw.showWelcome()
		return
	}
	mw.state.SetCorners(quad)

	cfg := mw.scanConfig(path)
	mw.state.Config = cfg

	res, err := analyze.New(cfg, mw.logger).Run(context.Background(), img,
		analyze.FixedCorners(quad.Points()))
	if res != nil {
		mw.state.SetResult(res)
		fmt.Print(analyze.Summary(res))
	}
	if err != nil {
		dialog.ShowError(err, mw.Window)
	}
	if res == nil {
		mw.showWelcome()
		return
	}
	mw.showResult(res)
}

// scanConfig builds the run configuration from preferences. The
// annotated image lands next to the source photo.
func (mw *MainWindow) scanConfig(imagePath string) config.Config {
	cfg := config.Default()
	cfg.CanvasSize = mw.prefs.Int(prefs.KeyCanvasSize, cfg.CanvasSize)
	cfg.ThresholdMode = grid.Policy(mw.prefs.String(prefs.KeyThresholdMode, string(cfg.ThresholdMode)))
	cfg.Labels = mw.prefs.Bool(prefs.KeyLabels, false)
	if mw.prefs.Bool(prefs.KeyEnhance, false) {
		cfg.Enhance = enhance.DefaultOptions()
	}
	cfg.OutputPath = filepath.Join(filepath.Dir(imagePath), outputName)

	if err := cfg.Validate(); err != nil {
		mw.logger.Warnw("preferences produced an invalid config, using defaults", "error", err)
		cfg = config.Default()
		cfg.OutputPath = filepath.Join(filepath.Dir(imagePath), outputName)
	}
	return cfg
}

func (mw *MainWindow) showResult(res *analyze.Result) {
	view := fynecanvas.NewImageFromImage(res.Annotated)
	view.FillMode = fynecanvas.ImageFillContain
	view.SetMinSize(fyne.NewSize(480, 480))

	counts := widget.NewLabelWithStyle(
		fmt.Sprintf("Black squares: %d    White squares: %d", res.Counts.Dark, res.Counts.Light),
		fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	detail := widget.NewLabelWithStyle(
		fmt.Sprintf("Threshold %.1f (%s)    cell contrast %.1f", res.Threshold, res.Policy, res.Stats.StdDev),
		fyne.TextAlignCenter, fyne.TextStyle{})

	saved := widget.NewLabelWithStyle("Saved to "+res.OutputPath,
		fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	if res.OutputPath == "" {
		saved.SetText("Annotated image was not saved")
	}

	rescan := widget.NewButton("Pick Corners Again", func() { go mw.scan() })
	another := widget.NewButton("Open Another Photo...", mw.onOpenPhoto)
	bar := container.NewHBox(layout.NewSpacer(), rescan, another, layout.NewSpacer())

	mw.SetContent(mw.shell(container.NewBorder(
		nil, container.NewVBox(counts, detail, saved, bar), nil, nil, view)))
}

func (mw *MainWindow) onOpenPhoto() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.OpenImage(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	if loc := mw.lastDirURI(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveCorners() {
	quad := mw.state.Corners()
	if quad == nil {
		dialog.ShowInformation("No Selection", "Scan a board first, then save its corners.", mw.Window)
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		if err := analyze.SaveCorners(writer.URI().Path(), *quad); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("corners.json")
	fd.Show()
}

func (mw *MainWindow) onPreferences() {
	size := widget.NewEntry()
	size.SetText(strconv.Itoa(mw.prefs.Int(prefs.KeyCanvasSize, 400)))

	var modes []string
	for _, p := range grid.Policies() {
		modes = append(modes, string(p))
	}
	mode := widget.NewSelect(modes, nil)
	mode.SetSelected(mw.prefs.String(prefs.KeyThresholdMode, string(grid.PolicyOtsu)))

	labels := widget.NewCheck("Draw square names", nil)
	labels.SetChecked(mw.prefs.Bool(prefs.KeyLabels, false))

	enhanceCheck := widget.NewCheck("Contrast enhancement (CLAHE + Otsu)", nil)
	enhanceCheck.SetChecked(mw.prefs.Bool(prefs.KeyEnhance, false))

	items := []*widget.FormItem{
		widget.NewFormItem("Canvas size", size),
		widget.NewFormItem("Threshold", mode),
		widget.NewFormItem("", labels),
		widget.NewFormItem("", enhanceCheck),
	}
	dialog.ShowForm("Preferences", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if n, err := strconv.Atoi(size.Text); err == nil && n >= grid.Cols {
			mw.prefs.SetInt(prefs.KeyCanvasSize, n)
		}
		if mode.Selected != "" {
			mw.prefs.SetString(prefs.KeyThresholdMode, mode.Selected)
		}
		mw.prefs.SetBool(prefs.KeyLabels, labels.Checked)
		mw.prefs.SetBool(prefs.KeyEnhance, enhanceCheck.Checked)
		if err := mw.prefs.Save(); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("Chessboard Scanner",
		"Version "+version.String()+
			"\n\nRectifies a photographed chessboard from four clicked corners\nand classifies its 64 squares as light or dark.",
		mw.Window)
}

// PromptRestart offers a restart after the binary changed on disk.
func (mw *MainWindow) PromptRestart(restart func() error, declined func()) {
	dialog.ShowConfirm("New Version Available",
		"The application binary has been updated.\nRestart now?", func(yes bool) {
			if !yes {
				declined()
				return
			}
			_ = mw.prefs.Save()
			if err := restart(); err != nil {
				mw.logger.Errorw("restart failed", "error", err)
			}
		}, mw.Window)
}

// lastDirURI turns the remembered image directory into a dialog
// location.
func (mw *MainWindow) lastDirURI() fyne.ListableURI {
	dir := mw.prefs.String(prefs.KeyLastImageDir, "")
	if dir == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return listable
}
