package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// generalCategory holds suggestions the backend did not place under a heading.
const generalCategory = "General"

var (
	headerPattern   = regexp.MustCompile(`^#{1,6}\s+(.*)$`)
	bulletPattern   = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+(.*)$`)
	optimizedHeader = regexp.MustCompile(`(?i)^optimized\s+(version|resume)$`)
)

// NormalizeSuggestions converts whatever the optimize endpoint returned as
// "suggestions" into the structured form. It also returns the body of an
// "OPTIMIZED VERSION" markdown section when one is present.
func NormalizeSuggestions(raw json.RawMessage) (types.SuggestionSet, string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return types.SuggestionSet{Categories: []types.SuggestionCategory{}}, "", nil
	}

	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return types.SuggestionSet{}, "", err
		}
		set, optimized := ParseMarkdownSuggestions(text)
		return set, optimized, nil
	case '[':
		items, err := decodeItems(raw)
		if err != nil {
			return types.SuggestionSet{}, "", err
		}
		set := types.SuggestionSet{Categories: []types.SuggestionCategory{}}
		if len(items) > 0 {
			set.Categories = append(set.Categories, types.SuggestionCategory{Name: generalCategory, Items: items})
		}
		return set, "", nil
	case '{':
		set, err := decodeCategories(raw)
		return set, "", err
	default:
		return types.SuggestionSet{}, "", fmt.Errorf("unexpected suggestions payload starting with %q", raw[0])
	}
}

// decodeCategories walks a category → items object, keeping key order.
func decodeCategories(raw json.RawMessage) (types.SuggestionSet, error) {
	set := types.SuggestionSet{Categories: []types.SuggestionCategory{}}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return set, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return set, err
		}
		name, ok := tok.(string)
		if !ok {
			return set, fmt.Errorf("unexpected category key %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return set, fmt.Errorf("category %q: %w", name, err)
		}

		var items []types.Suggestion
		value = bytes.TrimSpace(value)
		if len(value) > 0 && value[0] == '"' {
			var text string
			if err := json.Unmarshal(value, &text); err != nil {
				return set, fmt.Errorf("category %q: %w", name, err)
			}
			if strings.TrimSpace(text) != "" {
				items = []types.Suggestion{{Improved: text}}
			}
		} else {
			items, err = decodeItems(value)
			if err != nil {
				return set, fmt.Errorf("category %q: %w", name, err)
			}
		}

		if len(items) > 0 {
			set.Categories = append(set.Categories, types.SuggestionCategory{Name: name, Items: items})
		}
	}
	return set, nil
}

// decodeItems decodes a list whose elements are either plain strings or
// {original, improved} objects.
func decodeItems(raw json.RawMessage) ([]types.Suggestion, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}

	items := make([]types.Suggestion, 0, len(elems))
	for i, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) > 0 && elem[0] == '"' {
			var text string
			if err := json.Unmarshal(elem, &text); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, types.Suggestion{Improved: text})
			continue
		}

		var obj struct {
			Original *string `json:"original"`
			Improved *string `json:"improved"`
		}
		if err := json.Unmarshal(elem, &obj); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if obj.Improved == nil {
			return nil, fmt.Errorf("item %d: missing improved text", i)
		}
		// An empty original cannot be located in the resume; treat it as absent.
		if obj.Original != nil && *obj.Original == "" {
			obj.Original = nil
		}
		items = append(items, types.Suggestion{Original: obj.Original, Improved: *obj.Improved})
	}
	return items, nil
}

// ParseMarkdownSuggestions turns a markdown suggestion report into categories.
// Headings open categories, bullets become suggestions without an original,
// and loose paragraphs become a single suggestion each. Everything after an
// "OPTIMIZED VERSION" heading is returned separately instead of as suggestions.
func ParseMarkdownSuggestions(text string) (types.SuggestionSet, string) {
	set := types.SuggestionSet{Categories: []types.SuggestionCategory{}}

	var (
		current   = -1
		paragraph []string
		optimized []string
		inOptimum bool
	)

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		item := types.Suggestion{Improved: strings.Join(paragraph, " ")}
		paragraph = nil
		if current < 0 {
			set.Categories = append(set.Categories, types.SuggestionCategory{Name: generalCategory})
			current = len(set.Categories) - 1
		}
		set.Categories[current].Items = append(set.Categories[current].Items, item)
	}

	for _, line := range strings.Split(text, "\n") {
		// The optimized version is the last section and may carry its own headings.
		if inOptimum {
			optimized = append(optimized, line)
			continue
		}

		trimmed := strings.TrimSpace(line)

		if m := headerPattern.FindStringSubmatch(trimmed); m != nil {
			flushParagraph()
			name := stripEmphasis(m[1])
			if optimizedHeader.MatchString(name) {
				inOptimum = true
				continue
			}
			set.Categories = append(set.Categories, types.SuggestionCategory{Name: name})
			current = len(set.Categories) - 1
			continue
		}

		if trimmed == "" {
			flushParagraph()
			continue
		}

		if m := bulletPattern.FindStringSubmatch(trimmed); m != nil {
			flushParagraph()
			paragraph = []string{stripEmphasis(m[1])}
			flushParagraph()
			continue
		}

		paragraph = append(paragraph, stripEmphasis(trimmed))
	}
	flushParagraph()

	// Drop headings that only introduced sub-headings.
	kept := set.Categories[:0]
	for _, c := range set.Categories {
		if len(c.Items) > 0 {
			kept = append(kept, c)
		}
	}
	set.Categories = kept

	return set, strings.TrimSpace(strings.Join(optimized, "\n"))
}

// stripEmphasis removes markdown bold/italic markers.
func stripEmphasis(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.TrimSpace(s)
}
