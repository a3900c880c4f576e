package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/robert-malhotra/go-masscode/cmd/tui/formatting"
	"github.com/robert-malhotra/go-masscode/pkg/masscode"
)

const (
	browserPageID = "browser"
	queryTimeout  = 30 * time.Second
)

const browserHelpControls = "[yellow]Enter[white] run query  [yellow]Tab[white] next pane  [yellow]↑/↓[white] select  [yellow]j[white] raw JSON  [yellow]Ctrl+C[white] quit"

func (t *TUI) setupPages() {
	t.setupBrowserPage()
}

func (t *TUI) setupBrowserPage() {
	labels := make([]string, len(masscode.Kinds))
	initial := 0
	for i, k := range masscode.Kinds {
		labels[i] = k.Plural()
		if k == t.kind {
			initial = i
		}
	}
	t.kindDropDown = tview.NewDropDown().
		SetLabel("Kind: ").
		SetOptions(labels, nil).
		SetCurrentOption(initial)
	t.kindDropDown.SetSelectedFunc(func(_ string, index int) {
		t.mu.Lock()
		t.kind = masscode.Kinds[index]
		t.mu.Unlock()
		go t.runQuery()
	})

	t.queryInput = tview.NewInputField().
		SetLabel("Query: ").
		SetPlaceholder("e.g. (name @SW deploy) & (isDeleted == false)")
	t.queryInput.SetChangedFunc(func(text string) {
		status, _ := describeQuery(text)
		t.queryStatus.SetText(status)
	})
	t.queryInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			t.mu.Lock()
			t.queryText = t.queryInput.GetText()
			t.mu.Unlock()
			go t.runQuery()
		}
	})

	t.queryStatus = tview.NewTextView().SetDynamicColors(true)
	status, _ := describeQuery("")
	t.queryStatus.SetText(status)

	queryForm := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewFlex().
			AddItem(t.kindDropDown, 20, 0, false).
			AddItem(t.queryInput, 0, 1, true), 1, 0, true).
		AddItem(t.queryStatus, 1, 0, false)
	queryForm.SetBorder(true).SetTitle("massCode Query")

	t.resultsList = tview.NewList()
	t.resultsList.SetBorder(true).SetTitle(resultsTitle(t.kind, 0))
	t.resultsList.SetWrapAround(false)

	t.detail = tview.NewTextView().SetDynamicColors(true).SetWordWrap(true).SetScrollable(true)
	t.detail.SetBorder(true).SetTitle("Details")

	t.resultsList.SetChangedFunc(func(index int, _ string, _ string, _ rune) {
		entry, ok := t.resultAt(index)
		if !ok {
			t.detail.Clear()
			return
		}
		t.detail.SetText(formatting.FormatRecord(entry.Record))
		t.detail.ScrollToBeginning()
	})

	content := tview.NewFlex().
		AddItem(t.resultsList, 0, 1, false).
		AddItem(t.detail, 0, 2, false)

	page := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(queryForm, 4, 0, true).
		AddItem(content, 0, 1, false).
		AddItem(formatting.MakeHelpText(browserHelpControls), 3, 0, false)

	t.focusOrder = []tview.Primitive{t.queryInput, t.kindDropDown, t.resultsList, t.detail}
	t.pages.AddPage(browserPageID, page, true, true)
}

func (t *TUI) resultAt(index int) (resultEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.results) {
		return resultEntry{}, false
	}
	return t.results[index], true
}

// runQuery evaluates the current kind and query text and replaces the results
// list. Results of a query superseded by a newer one are dropped.
func (t *TUI) runQuery() {
	t.mu.Lock()
	kind := t.kind
	text := t.queryText
	t.querySeq++
	seq := t.querySeq
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(t.baseCtx, queryTimeout)
	defer cancel()

	started := time.Now()
	docs, err := t.client.Query(ctx, kind, text)
	if err != nil {
		if ctx.Err() != nil && t.baseCtx.Err() != nil {
			return
		}
		t.logger.WithError(err).WithField("query", text).Warn("query failed")
		t.showError(formatQueryError(err))
		return
	}
	db, err := t.store.Load(ctx)
	if err != nil {
		t.showError(err.Error())
		return
	}
	entries := buildResults(db, kind, docs)
	elapsed := time.Since(started)

	t.mu.Lock()
	if seq != t.querySeq {
		t.mu.Unlock()
		return
	}
	t.results = entries
	t.mu.Unlock()

	t.app.QueueUpdateDraw(func() {
		t.resultsList.Clear()
		t.resultsList.SetTitle(resultsTitle(kind, len(entries)))
		if len(entries) == 0 {
			t.resultsList.AddItem("No records match.", "", 0, nil)
			t.detail.Clear()
			return
		}
		for _, entry := range entries {
			t.resultsList.AddItem(entry.Label, entry.ID, 0, func() {
				t.showJSON(fmt.Sprintf("%s %s", kind, entry.ID), entry.Record)
			})
		}
		t.resultsList.SetCurrentItem(0)
		t.detail.SetText(formatting.FormatRecord(entries[0].Record))
		t.detail.ScrollToBeginning()
		t.logger.WithField("elapsed", elapsed).Debugf("%d %s matched", len(entries), kind.Plural())
	})
}

func (t *TUI) showInfo(message string) {
	t.showModal("info", message)
}

func (t *TUI) showError(message string) {
	t.showModal("error", "Error: "+message)
}

func (t *TUI) showModal(pageID, message string) {
	t.app.QueueUpdateDraw(func() {
		modal := tview.NewModal().
			SetText(message).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				t.pages.HidePage(pageID)
			})
		t.pages.RemovePage(pageID)
		t.pages.AddPage(pageID, modal, false, true)
		t.pages.ShowPage(pageID)
	})
}
