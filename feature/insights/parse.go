package insights

import "strings"

// Variant is the display style of an insight card.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantWarning     Variant = "warning"
	VariantDestructive Variant = "destructive"
)

// Insight is one section of an insight document.
type Insight struct {
	Title   string   `json:"title"`
	Variant Variant  `json:"variant"`
	Items   []string `json:"items,omitempty"`
	Summary string   `json:"summary,omitempty"`
}

// ParseInsights splits a markdown insight document into sections.
//
// Sections start at "###". A section's first non-blank line is its title.
// "Expiring Soon" and "Low Stock" sections become item lists with a leading
// dash removed; "Overall Summary" and "No Products" keep their body as text.
// Sections with any other title are dropped.
func ParseInsights(markdown string) []Insight {
	out := []Insight{}
	if markdown == "" {
		return out
	}

	for _, raw := range strings.Split(markdown, "###") {
		section := strings.TrimSpace(raw)
		if section == "" {
			continue
		}

		var lines []string
		for _, l := range strings.Split(section, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
		title, body := lines[0], lines[1:]

		switch {
		case strings.Contains(title, "Expiring Soon"):
			out = append(out, Insight{Title: title, Variant: VariantDestructive, Items: listItems(body)})
		case strings.Contains(title, "Low Stock"):
			out = append(out, Insight{Title: title, Variant: VariantWarning, Items: listItems(body)})
		case strings.Contains(title, "Overall Summary"), strings.Contains(title, "No Products"):
			out = append(out, Insight{Title: title, Variant: VariantDefault, Summary: strings.Join(body, "\n")})
		}
	}
	return out
}

func listItems(lines []string) []string {
	items := make([]string, 0, len(lines))
	for _, l := range lines {
		items = append(items, strings.TrimSpace(strings.TrimPrefix(l, "-")))
	}
	return items
}
