package goquery_test

import (
	"testing"

	"github.com/AdamMoses-GitHub/cleanplate/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorFinder_FindAuthor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "meta author wins over markup",
			html: `<meta name="author" content="Ina Garten"><span class="byline">By Someone Else</span>`,
			want: "Ina Garten",
		},
		{
			name: "skips url-valued meta tags",
			html: `<meta property="article:author" content="https://facebook.com/someone"><a rel="author" href="/about">Sam Sifton</a>`,
			want: "Sam Sifton",
		},
		{
			name: "reads nested schema markup",
			html: `<div itemprop="author" itemscope><span itemprop="name">Julia Child</span> (guest)</div>`,
			want: "Julia Child",
		},
		{
			name: "strips a leading by",
			html: `<p class="byline">Written by: Kenji Lopez-Alt</p>`,
			want: "Kenji Lopez-Alt",
		},
		{
			name: "returns empty when nothing matches",
			html: `<p>No credit here.</p>`,
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, goquery.NewAuthorFinder().FindAuthor(tc.html))
		})
	}
}

func TestMetaContent(t *testing.T) {
	t.Parallel()

	doc, err := goquery.Parse(`<head>
		<meta content="First" property="OG:Title">
		<meta name="og:title" content="Second">
		<meta itemprop="datePublished" content="2024-01-01">
	</head>`)
	require.NoError(t, err)

	assert.Equal(t, "First", goquery.MetaContent(doc, "og:title"))
	assert.Equal(t, []string{"First", "Second"}, goquery.MetaContents(doc, "og:title"))
	assert.Equal(t, "2024-01-01", goquery.MetaContent(doc, "missing", "datePublished"))
	assert.Empty(t, goquery.MetaContent(doc, "missing"))
	assert.Equal(t, "example.org", goquery.SiteName(doc, "https://www.example.org/x"))
}
