package listing

import (
	"context"
	"strings"
	"testing"

	"go-startup-automation/internal/dom/domtest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longText = strings.Repeat("We build reliable infrastructure for small teams. ", 4)

func doc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return d
}

func TestExtractDetail_PicksLongestMatch(t *testing.T) {
	markup := `<html><body>
		<div class="job-description" id="short">too short</div>
		<div class="job-description main" id="desc">
			<h3>Responsibilities</h3>
			<ul><li>You will design APIs</li><li>You will own deploys</li></ul>
			<p>` + longText + `</p>
			<script>track()</script>
		</div>
	</body></html>`

	res := ExtractDetail(doc(t, markup))

	assert.Equal(t, "div#desc.job-description.main", res.FoundUsing)
	assert.True(t, strings.HasPrefix(res.FullDescription, "Responsibilities\nYou will design APIs\nYou will own deploys\n"))
	assert.NotContains(t, res.FullDescription, "track()")
	assert.Contains(t, res.HTMLContent, "<li>You will design APIs</li>")
	assert.NotContains(t, res.HTMLContent, "<script>")
}

func TestExtractDetail_SkipsShortBlocksForLaterSelectors(t *testing.T) {
	markup := `<html><body>
		<div class="job-description">Apply now</div>
		<main><p>` + longText + `</p></main>
	</body></html>`

	res := ExtractDetail(doc(t, markup))

	assert.Equal(t, "main", res.FoundUsing)
	assert.Equal(t, strings.TrimSpace(longText), res.FullDescription)
}

func TestExtractDetail_FallsBackToBody(t *testing.T) {
	res := ExtractDetail(doc(t, `<html><body><p>Nothing much here</p></body></html>`))

	assert.Equal(t, FallbackFoundUsing, res.FoundUsing)
	assert.Equal(t, "Nothing much here", res.FullDescription)
}

func TestDetail(t *testing.T) {
	e := newTestExtractor(t)
	page := domtest.New(`<html><body><article>` + longText + `</article></body></html>`)

	res, err := e.Detail(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, "article", res.FoundUsing)
}
