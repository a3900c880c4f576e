package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/robert-malhotra/go-masscode/cmd/tui/formatting"
)

const jsonPageID = "jsonView"

// jsonViewer owns the transient page used to display a raw record.
type jsonViewer struct {
	tui       *TUI
	mu        sync.Mutex
	prevFocus tview.Primitive

	// saveDir is where 's' writes the displayed record.
	saveDir       string
	snapshotTitle string
	snapshotData  []byte
}

func newJSONViewer(t *TUI) *jsonViewer {
	return &jsonViewer{tui: t, saveDir: "."}
}

func (v *jsonViewer) Show(title string, value any) {
	if value == nil {
		return
	}
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		v.tui.showError(fmt.Sprintf("Failed to render JSON: %v", err))
		return
	}

	v.mu.Lock()
	v.prevFocus = v.tui.app.GetFocus()
	v.snapshotTitle = title
	v.snapshotData = encoded
	v.mu.Unlock()

	textView := tview.NewTextView().
		SetDynamicColors(false).
		SetScrollable(true).
		SetWordWrap(false).
		SetText(string(encoded))
	textView.SetBorder(true).SetTitle(title)
	textView.SetInputCapture(v.handleInput)

	instructions := formatting.MakeHelpText("[yellow]Esc[white] close  |  [yellow]s[white] save JSON  |  [yellow]Ctrl+C[white] quit")
	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(textView, 0, 1, true).
		AddItem(instructions, 3, 0, false)

	v.tui.pages.RemovePage(jsonPageID)
	v.tui.pages.AddPage(jsonPageID, layout, true, true)
	v.tui.app.SetFocus(textView)
}

func (v *jsonViewer) Close() {
	v.mu.Lock()
	prevFocus := v.prevFocus
	v.prevFocus = nil
	v.snapshotTitle = ""
	v.snapshotData = nil
	v.mu.Unlock()

	v.tui.pages.RemovePage(jsonPageID)
	v.tui.pages.SwitchToPage(browserPageID)
	if prevFocus != nil {
		v.tui.app.SetFocus(prevFocus)
	}
}

// Save writes the displayed record and returns the file it created.
func (v *jsonViewer) Save() (string, error) {
	v.mu.Lock()
	data := append([]byte(nil), v.snapshotData...)
	title := v.snapshotTitle
	dir := v.saveDir
	v.mu.Unlock()

	if len(data) == 0 {
		return "", fmt.Errorf("nothing to save")
	}

	filename := filepath.Join(dir, formatting.GenerateJSONFilename(title, time.Now()))
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

func (v *jsonViewer) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyCtrlC:
		v.tui.Stop()
		return nil
	case tcell.KeyEscape:
		v.Close()
		return nil
	case tcell.KeyRune:
		r := event.Rune()
		if r == 's' || r == 'S' {
			go func() {
				filename, err := v.Save()
				if err != nil {
					v.tui.showError(fmt.Sprintf("Failed to save JSON: %v", err))
					return
				}
				v.tui.showInfo(fmt.Sprintf("JSON saved to %s", filename))
			}()
			return nil
		}
	}

	return event
}

// showJSON exposes the viewer through the TUI type for handlers.
func (t *TUI) showJSON(title string, value any) {
	if t.jsonViewer == nil {
		t.showError("JSON viewer not initialized")
		return
	}
	t.jsonViewer.Show(title, value)
}
