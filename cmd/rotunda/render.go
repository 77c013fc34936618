package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	dmodels "rotunda/internal/district/models"
	lmodels "rotunda/internal/legislation/models"
)

// Theme selects the light or dark palette and markdown style.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func parseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeDark, ThemeLight:
		return t, nil
	case "":
		return ThemeDark, nil
	}
	return "", fmt.Errorf("unknown theme %q: use dark or light", s)
}

const wrapWidth = 80

type palette struct {
	text, muted, accent, warning lipgloss.Color
	parties                      map[string]lipgloss.Color
}

var palettes = map[Theme]palette{
	ThemeDark: {
		text:    lipgloss.Color("#e6e6e6"),
		muted:   lipgloss.Color("#8a8a8a"),
		accent:  lipgloss.Color("#7aa2f7"),
		warning: lipgloss.Color("#e0af68"),
		parties: map[string]lipgloss.Color{"red": "#f7768e", "blue": "#7aa2f7", "gray": "#a9b1d6"},
	},
	ThemeLight: {
		text:    lipgloss.Color("#1f2328"),
		muted:   lipgloss.Color("#6e7781"),
		accent:  lipgloss.Color("#0550ae"),
		warning: lipgloss.Color("#9a6700"),
		parties: map[string]lipgloss.Color{"red": "#cf222e", "blue": "#0969da", "gray": "#57606a"},
	},
}

// renderer writes lookups, feeds and bills to a terminal.
type renderer struct {
	out     io.Writer
	palette palette
	md      *glamour.TermRenderer

	title, label, muted, warning, card lipgloss.Style
}

func newRenderer(out io.Writer, theme Theme) (*renderer, error) {
	md, err := glamour.NewTermRenderer(
		glamour.WithStylePath(string(theme)),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	p := palettes[theme]
	return &renderer{
		out:     out,
		palette: p,
		md:      md,
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		label:   lipgloss.NewStyle().Bold(true).Foreground(p.text),
		muted:   lipgloss.NewStyle().Foreground(p.muted),
		warning: lipgloss.NewStyle().Foreground(p.warning),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.muted).
			Padding(0, 1).
			Width(wrapWidth - 2),
	}, nil
}

func (r *renderer) party(color string) lipgloss.Style {
	c, ok := r.palette.parties[color]
	if !ok {
		c = r.palette.parties["gray"]
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

func (r *renderer) println(s string) {
	fmt.Fprintln(r.out, s)
}

func districtLabel(state string, district int) string {
	if district == 0 {
		return state + " at-large"
	}
	return state + "-" + strconv.Itoa(district)
}

// District renders the representative card and their legislation.
func (r *renderer) District(res *dmodels.LookupResult) {
	p := res.Profile
	lines := []string{
		r.party(p.PartyColor).Render(p.Initials) + "  " + r.label.Render(p.Name),
		r.party(p.PartyColor).Render(p.PartyName) + r.muted.Render(" · "+districtLabel(res.State, res.District)),
		r.muted.Render("Serving " + p.Serving),
		"",
		r.field("Office", p.Contact.Address),
		r.field("Phone", p.Contact.Phone),
		r.field("Email", p.Contact.Email),
	}
	if p.Contact.Website != "" {
		lines = append(lines, r.field("Website", p.Contact.Website))
	}
	if p.ImageURL != "" {
		lines = append(lines, r.field("Photo", p.ImageURL))
	}

	r.println(r.muted.Render(res.Address))
	r.println(r.card.Render(strings.Join(lines, "\n")))
	r.legislation("Sponsored legislation", res.Sponsored)
	r.legislation("Cosponsored legislation", res.Cosponsored)
	r.warnings(res.Warnings)
}

func (r *renderer) field(name, value string) string {
	return r.label.Render(name+":") + " " + value
}

func (r *renderer) legislation(heading string, items []dmodels.LegislationItem) {
	r.println("")
	r.println(r.title.Render(heading))
	if len(items) == 0 {
		r.println(r.muted.Render("  None found."))
		return
	}
	for _, it := range items {
		line := "  " + r.label.Render(it.DisplayNumber) + "  " + it.Title
		r.println(line)
		meta := it.LastAction
		if it.LatestActionDate != "" {
			meta += " · " + it.LatestActionDate
		}
		r.println(r.muted.Render("    " + meta))
	}
}

func (r *renderer) warnings(ws []string) {
	for _, w := range ws {
		r.println(r.warning.Render("! " + w))
	}
}

// Feed renders one page of the activity or law feed.
func (r *renderer) Feed(heading string, page lmodels.Page[lmodels.FeedItem]) {
	r.println(r.title.Render(heading))
	if len(page.Items) == 0 {
		r.println(r.muted.Render("No bills on this page."))
		return
	}
	for _, it := range page.Items {
		r.println("")
		r.println(r.label.Render(it.DisplayNumber) + "  " + it.Title)
		meta := it.OriginChamber
		if it.LatestAction != "" {
			meta += " · " + it.LatestAction
		}
		if it.LatestActionDate != "" {
			meta += " (" + it.LatestActionDate + ")"
		}
		r.println(r.muted.Render(meta))
		if len(it.Laws) > 0 {
			r.println(r.muted.Render(strings.Join(it.Laws, ", ")))
		}
	}
	r.println("")
	r.println(r.muted.Render(fmt.Sprintf("Showing %d-%d of %d · page %d", page.From, page.To, page.Total, page.Page)))
}

// Bill renders a bill detail with its summary as markdown.
func (r *renderer) Bill(b *lmodels.BillDetail) error {
	lines := []string{
		r.label.Render(b.Heading),
		"",
		r.field("Sponsor", r.party(b.Sponsor.PartyColor).Render(b.Sponsor.Name)),
		r.field("Policy area", b.PolicyArea),
		r.field("Chamber", b.OriginChamber),
	}
	if b.IntroducedDate != "" {
		lines = append(lines, r.field("Introduced", b.IntroducedDate))
	}
	if b.LatestAction != "" {
		lines = append(lines, r.field("Latest action", b.LatestAction+" ("+b.LatestActionDate+")"))
	}
	if len(b.Laws) > 0 {
		lines = append(lines, r.field("Became", strings.Join(b.Laws, ", ")))
	}
	if b.TextURL != "" {
		lines = append(lines, r.field("Full text", b.TextURL))
	}
	r.println(r.card.Render(strings.Join(lines, "\n")))

	if !b.SummaryExists || b.SummaryMarkdown == "" {
		r.println(r.muted.Render("No summary available."))
	} else {
		out, err := r.md.Render(b.SummaryMarkdown)
		if err != nil {
			return fmt.Errorf("render summary: %w", err)
		}
		fmt.Fprint(r.out, out)
	}
	r.warnings(b.Warnings)
	return nil
}
