package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	require.Equal(t, "scriptalert(1)/script", SanitizeInput(`<script>alert(1)</script>`, 0))
	require.Equal(t, "its a test", SanitizeInput(`it's a "test"`, 0))
	require.Equal(t, "abc", SanitizeInput("abcdef", 3))
	require.Equal(t, "ãé", SanitizeInput("ãéí", 2))
	require.Len(t, SanitizeInput(strings.Repeat("x", 2000), 0), DefaultMaxInputLen)
}

func TestSanitizeHTML(t *testing.T) {
	require.Equal(t, "&lt;b&gt;hi&lt;/b&gt; &amp; bye", SanitizeHTML("<b>hi</b> & bye"))
}

func TestValidateURL(t *testing.T) {
	ok := []string{"http://localhost:3000", "https://example.com/a?b=1", "/relative/path", "page.html", "#anchor"}
	for _, u := range ok {
		require.True(t, ValidateURL(u), u)
	}
	bad := []string{"", "javascript:alert(1)", "ftp://example.com", "data:text/html;base64,xx", "http://", "http://[::1"}
	for _, u := range bad {
		require.False(t, ValidateURL(u), u)
	}
}

func TestValidate(t *testing.T) {
	d := &Data{Dashboard: &Dashboard{
		Title:    "<Main>",
		Subtitle: `"quoted"`,
		Cards: []Card{{
			ID:          "svc",
			Title:       "<b>Card</b>",
			Description: "it's",
			Links: []Link{
				{Text: "<ok>", URL: "http://localhost:8080"},
				{Text: "bad", URL: "javascript:alert(1)"},
			},
		}, {ID: "empty"}},
	}}

	require.NoError(t, Validate(d, 0))
	require.Equal(t, "Main", d.Dashboard.Title)
	require.Equal(t, "quoted", d.Dashboard.Subtitle)
	require.Equal(t, "bCard/b", d.Dashboard.Cards[0].Title)
	require.Equal(t, "its", d.Dashboard.Cards[0].Description)
	require.Equal(t, "ok", d.Dashboard.Cards[0].Links[0].Text)
	require.Equal(t, "http://localhost:8080", d.Dashboard.Cards[0].Links[0].URL)
	require.Equal(t, "#", d.Dashboard.Cards[0].Links[1].URL)
	require.NotNil(t, d.Dashboard.Cards[1].Links)
}

func TestValidate_RejectsMissingDashboard(t *testing.T) {
	require.ErrorIs(t, Validate(nil, 0), ErrInvalidData)
	require.ErrorIs(t, Validate(&Data{}, 0), ErrInvalidData)
}

func TestClone_IsDeep(t *testing.T) {
	d := &Data{Dashboard: &Dashboard{
		Title: "t",
		Cards: []Card{{ID: "a", Links: []Link{{URL: "http://localhost:1"}}}},
	}}
	c := d.Clone()
	c.Dashboard.Title = "changed"
	c.Dashboard.Cards[0].Links[0].Status = StatusOnline

	require.Equal(t, "t", d.Dashboard.Title)
	require.Empty(t, d.Dashboard.Cards[0].Links[0].Status)
	require.Nil(t, (*Data)(nil).Clone())
}
