package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanSummary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "paragraphs and bold",
			in:   "<p><strong>Postal Service Reform Act of 2022</strong></p><p>This bill addresses the finances of the USPS.</p>",
			want: []string{"**Postal Service Reform Act of 2022**", "This bill addresses the finances of the USPS."},
		},
		{
			name: "lists become bullets",
			in:   "<p>The bill requires:</p><ul><li>annual reports</li><li>an audit</li></ul>",
			want: []string{"The bill requires:", "• annual reports\n• an audit"},
		},
		{
			name: "comments and unknown tags are stripped",
			in:   `<p>Sec. 2 <!-- note --> <em>amends</em> <a href="https://example.gov">law</a>.</p>`,
			want: []string{"Sec. 2  amends law."},
		},
		{
			name: "line breaks are stripped with other tags",
			in:   "<p>First<br/>Second<BR>Third <br >end</p>",
			want: []string{"FirstSecondThird end"},
		},
		{
			name: "runs of newlines collapse",
			in:   "<p>A</li></ul><ul>B</p>",
			want: []string{"A\n\nB"},
		},
		{
			name: "blank pieces and entities",
			in:   "<p>  </p>\n<p>R&amp;D tax credit</p>\n",
			want: []string{"R&D tax credit"},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanSummary(tt.in))
		})
	}
}

func TestSummaryMarkdown(t *testing.T) {
	out, err := SummaryMarkdown("<p><strong>Short title</strong></p><ul><li>one</li><li>two</li></ul>")
	require.NoError(t, err)
	assert.Contains(t, out, "**Short title**")
	assert.Contains(t, out, "- one")
	assert.Contains(t, out, "- two")
}
