package service

import (
	"html"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
)

var (
	strongRe   = regexp.MustCompile(`</?strong>`)
	commentRe  = regexp.MustCompile(`<!--[\s\S]*?-->`)
	tagRe      = regexp.MustCompile(`(?i)</?[a-z][^>]*>`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
)

var listReplacer = strings.NewReplacer(
	"<ul>", "\n",
	"</ul>", "\n",
	"<li>", "• ",
	"</li>", "\n",
)

// CleanSummary turns CRS summary HTML into plain paragraphs. Bold text keeps
// ** markers and list items become "• " lines. Every other tag, <br>
// included, is dropped.
func CleanSummary(summaryHTML string) []string {
	var out []string
	for _, piece := range strings.Split(summaryHTML, "</p>") {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		s := strings.ReplaceAll(piece, "<p>", "")
		s = strongRe.ReplaceAllString(s, "**")
		s = listReplacer.Replace(s)
		s = commentRe.ReplaceAllString(s, "")
		s = tagRe.ReplaceAllString(s, "")
		s = html.UnescapeString(strings.TrimSpace(s))
		s = newlinesRe.ReplaceAllString(s, "\n\n")
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SummaryConverter renders summary HTML as GitHub-flavored markdown.
type SummaryConverter struct {
	converter *md.Converter
}

// NewSummaryConverter creates a converter. It is safe for concurrent use.
func NewSummaryConverter() *SummaryConverter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &SummaryConverter{converter: converter}
}

// Markdown converts summary HTML to markdown.
func (c *SummaryConverter) Markdown(summaryHTML string) (string, error) {
	out, err := c.converter.ConvertString(summaryHTML)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(newlinesRe.ReplaceAllString(out, "\n\n")), nil
}

var defaultConverter = NewSummaryConverter()

// SummaryMarkdown converts summary HTML with a shared converter.
func SummaryMarkdown(summaryHTML string) (string, error) {
	return defaultConverter.Markdown(summaryHTML)
}
