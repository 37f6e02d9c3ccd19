// Package export renders a prompt and its responses to Markdown or JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"chatlist/internal/models"
)

// Entry is one model response prepared for export.
type Entry struct {
	ModelName string         `json:"modelName"`
	Response  string         `json:"response"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// EntriesFrom pairs results with their model names. Results whose model is
// missing from the lookup keep a numeric placeholder.
func EntriesFrom(results []models.Result, modelNames map[uint]string) []Entry {
	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		name, ok := modelNames[r.ModelID]
		if !ok {
			name = fmt.Sprintf("model %d", r.ModelID)
		}
		entries = append(entries, Entry{
			ModelName: name,
			Response:  r.Response,
			Metadata:  r.MetadataMap(),
		})
	}
	return entries
}

// Markdown writes a comparison document: the prompt followed by one
// section per model response.
func Markdown(w io.Writer, promptText string, entries []Entry) error {
	if _, err := fmt.Fprint(w, "# Model comparison\n\n"); err != nil {
		return err
	}
	if promptText != "" {
		if _, err := fmt.Fprintf(w, "## Prompt\n\n%s\n\n", promptText); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w, "## Responses\n\n"); err != nil {
		return err
	}
	for i, entry := range entries {
		if _, err := fmt.Fprintf(w, "### %d. %s\n\n%s\n\n", i+1, entry.ModelName, entry.Response); err != nil {
			return err
		}
		if len(entry.Metadata) == 0 {
			continue
		}
		if _, err := fmt.Fprint(w, "**Metadata:**\n"); err != nil {
			return err
		}
		for _, key := range sortedKeys(entry.Metadata) {
			if _, err := fmt.Fprintf(w, "- %s: %v\n", key, entry.Metadata[key]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes the prompt and entries as an indented JSON document.
func JSON(w io.Writer, promptText string, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Prompt  string  `json:"prompt"`
		Results []Entry `json:"results"`
	}{Prompt: promptText, Results: entries})
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
