package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

func (t *TUI) onInputCapture(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC {
		t.Stop()
		return nil
	}

	currentPage, _ := t.pages.GetFrontPage()
	if currentPage != browserPageID {
		return event
	}

	switch event.Key() {
	case tcell.KeyTab:
		t.cycleFocus(1)
		return nil
	case tcell.KeyBacktab:
		t.cycleFocus(-1)
		return nil
	case tcell.KeyEscape:
		if t.app.GetFocus() != t.queryInput {
			t.focusIndex = 0
			t.app.SetFocus(t.queryInput)
			return nil
		}
	case tcell.KeyRune:
		// Letters typed into the query field belong to the query.
		if t.app.GetFocus() == t.queryInput {
			return event
		}
		if r := event.Rune(); r == 'j' || r == 'J' {
			entry, ok := t.resultAt(t.resultsList.GetCurrentItem())
			if ok {
				t.mu.Lock()
				kind := t.kind
				t.mu.Unlock()
				t.showJSON(fmt.Sprintf("%s %s", kind, entry.ID), entry.Record)
			}
			return nil
		}
	}

	return event
}

func (t *TUI) cycleFocus(step int) {
	n := len(t.focusOrder)
	if n == 0 {
		return
	}
	t.focusIndex = (t.focusIndex + step + n) % n
	t.app.SetFocus(t.focusOrder[t.focusIndex])
}
