package formatting

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rivo/tview"

	"github.com/robert-malhotra/go-masscode/pkg/masscode"
)

func FormatFolderDetails(folder *masscode.Folder) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "[yellow]ID: [white]%s\n", folder.ID)
	fmt.Fprintf(&builder, "[yellow]Name: [white]%s\n", tview.Escape(folder.Name))
	if folder.ParentID != nil {
		fmt.Fprintf(&builder, "[yellow]Parent: [white]%s\n", *folder.ParentID)
	}
	if folder.DefaultLanguage != "" {
		fmt.Fprintf(&builder, "[yellow]Language: [white]%s\n", folder.DefaultLanguage)
	}
	fmt.Fprintf(&builder, "[yellow]Index: [white]%d\n", folder.Index)
	fmt.Fprintf(&builder, "[yellow]Open: [white]%t  [yellow]System: [white]%t\n", folder.IsOpen, folder.IsSystem)
	writeTimestamps(&builder, folder.CreatedAt, folder.UpdatedAt)
	writeExtras(&builder, folder.AdditionalFields)
	return builder.String()
}

func FormatTagDetails(tag *masscode.Tag) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "[yellow]ID: [white]%s\n", tag.ID)
	fmt.Fprintf(&builder, "[yellow]Name: [white]%s\n", tview.Escape(tag.Name))
	writeTimestamps(&builder, tag.CreatedAt, tag.UpdatedAt)
	writeExtras(&builder, tag.AdditionalFields)
	return builder.String()
}

// FormatSnippetDetails lists a snippet's metadata followed by every content
// fragment.
func FormatSnippetDetails(snippet *masscode.Snippet) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "[yellow]ID: [white]%s\n", snippet.ID)
	fmt.Fprintf(&builder, "[yellow]Name: [white]%s\n", tview.Escape(snippet.Name))
	if snippet.Description != nil && *snippet.Description != "" {
		fmt.Fprintf(&builder, "[yellow]Description: [white]%s\n", tview.Escape(*snippet.Description))
	}
	fmt.Fprintf(&builder, "[yellow]Folder: [white]%s\n", snippet.FolderID)
	if len(snippet.TagsIDs) > 0 {
		fmt.Fprintf(&builder, "[yellow]Tags: [white]%s\n", strings.Join(snippet.TagsIDs, ", "))
	}
	fmt.Fprintf(&builder, "[yellow]Favorite: [white]%t  [yellow]Deleted: [white]%t\n", snippet.IsFavorites, snippet.IsDeleted)
	writeTimestamps(&builder, snippet.CreatedAt, snippet.UpdatedAt)
	writeExtras(&builder, snippet.AdditionalFields)

	for i, fragment := range snippet.Content {
		label := fragment.Label
		if label == "" {
			label = fmt.Sprintf("Fragment %d", i+1)
		}
		fmt.Fprintf(&builder, "\n[green]%s[white] (%s)\n", tview.Escape(label), fragment.Language)
		writeIndentedLines(&builder, fragment.Value, "  ")
	}
	return builder.String()
}

// FormatRecord dispatches on the model type returned by Database.Record.
func FormatRecord(record any) string {
	switch r := record.(type) {
	case *masscode.Folder:
		return FormatFolderDetails(r)
	case *masscode.Tag:
		return FormatTagDetails(r)
	case *masscode.Snippet:
		return FormatSnippetDetails(r)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", r)
	}
}

func writeTimestamps(builder *strings.Builder, created, updated int64) {
	fmt.Fprintf(builder, "[yellow]Created: [white]%s\n", FormatTimestamp(created))
	fmt.Fprintf(builder, "[yellow]Updated: [white]%s\n", FormatTimestamp(updated))
}

func writeExtras(builder *strings.Builder, extras map[string]any) {
	if len(extras) == 0 {
		return
	}
	builder.WriteString("[yellow]Other fields:[white]\n")
	for _, key := range slices.Sorted(maps.Keys(extras)) {
		indentedKey := fmt.Sprintf("  %s:", key)
		fmt.Fprintf(builder, "[yellow]%-20s[white]", indentedKey)

		jsonBytes, err := json.Marshal(extras[key])
		if err != nil {
			builder.WriteString(" Error marshalling value\n")
			continue
		}
		fmt.Fprintf(builder, " %s\n", tview.Escape(string(jsonBytes)))
	}
}
