package main

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-masscode/pkg/client"
	"github.com/robert-malhotra/go-masscode/pkg/masscode"
)

type TUI struct {
	app          *tview.Application
	pages        *tview.Pages
	kindDropDown *tview.DropDown
	queryInput   *tview.InputField
	queryStatus  *tview.TextView
	resultsList  *tview.List
	detail       *tview.TextView

	focusOrder []tview.Primitive
	focusIndex int

	client *client.Client
	store  *masscode.Store
	logger logrus.FieldLogger

	// Guarded by mu; written from query goroutines, read from UI callbacks.
	mu        sync.Mutex
	kind      masscode.Kind
	queryText string
	results   []resultEntry
	querySeq  int

	baseCtx    context.Context
	baseCancel context.CancelFunc
	stopOnce   sync.Once

	jsonViewer *jsonViewer
}

// configureStyles sets the tview global styles for the TUI.
// Note: This modifies global state in tview.Styles.
func configureStyles() {
	tview.Styles.PrimitiveBackgroundColor = tcell.ColorBlack
	tview.Styles.ContrastBackgroundColor = tcell.ColorDarkSlateGray
	tview.Styles.MoreContrastBackgroundColor = tcell.ColorGreen
	tview.Styles.BorderColor = tcell.ColorWhite
	tview.Styles.TitleColor = tcell.ColorWhite
	tview.Styles.GraphicsColor = tcell.ColorWhite
	tview.Styles.PrimaryTextColor = tcell.ColorWhite
	tview.Styles.SecondaryTextColor = tcell.ColorYellow
	tview.Styles.TertiaryTextColor = tcell.ColorGreen
	tview.Styles.InverseTextColor = tcell.ColorBlue
	tview.Styles.ContrastSecondaryTextColor = tcell.ColorNavy
}

// NewTUI creates a new TUI instance. The provided context controls the
// lifetime of background queries; pass nil to use context.Background().
func NewTUI(ctx context.Context, c *client.Client, store *masscode.Store, logger logrus.FieldLogger) *TUI {
	if ctx == nil {
		ctx = context.Background()
	}
	baseCtx, baseCancel := context.WithCancel(ctx)

	configureStyles()

	tui := &TUI{
		app:        tview.NewApplication(),
		pages:      tview.NewPages(),
		client:     c,
		store:      store,
		logger:     logger,
		kind:       masscode.KindSnippet,
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
	}

	tui.setupPages()
	tui.jsonViewer = newJSONViewer(tui)

	tui.app.SetInputCapture(tui.onInputCapture)
	tui.app.SetFocus(tui.queryInput)

	go tui.runQuery()
	return tui
}

// Run starts the TUI event loop. It blocks until the application exits
// and returns any error that occurred.
func (t *TUI) Run() error {
	return t.app.SetRoot(t.pages, true).Run()
}

func (t *TUI) Stop() {
	t.stopOnce.Do(func() {
		if t.baseCancel != nil {
			t.baseCancel()
		}
		t.app.Stop()
	})
}

// onDatabaseChanged re-runs the current query after db.json was rewritten.
func (t *TUI) onDatabaseChanged(_ *masscode.Database, err error) {
	if err != nil {
		t.logger.WithError(err).Error("reload database")
		t.showError("Reloading db.json failed: " + err.Error())
		return
	}
	t.logger.Debug("database changed, refreshing results")
	t.runQuery()
}
