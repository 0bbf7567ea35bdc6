package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-autofill/internal/dom"
	"github.com/jonathan/job-autofill/internal/dom/htmldom"
)

func parse(t *testing.T, body string) *htmldom.Document {
	t.Helper()
	doc, err := htmldom.ParseString("<html><body>"+body+"</body></html>", "https://jobs.example.com/apply")
	require.NoError(t, err)
	return doc
}

func ids(els []dom.Element) []string {
	out := make([]string, 0, len(els))
	for _, el := range els {
		out = append(out, el.Attr("id"))
	}
	return out
}

func TestFindForms_SkipsNonApplicationForms(t *testing.T) {
	doc := parse(t, `
		<form id="site-search" role="search"><input name="q"></form>
		<form id="login" action="/session"><input name="user"><button>Sign in</button></form>
		<form id="newsletter"><input name="email"><button>Subscribe</button></form>
		<form id="application"><input name="first_name"><input name="email"></form>`)

	assert.Equal(t, []string{"application"}, ids(FindForms(doc)))
}

func TestFindForms_ContainerFallbackKeepsOutermost(t *testing.T) {
	doc := parse(t, `
		<main id="outer">
			<div id="inner">
				<input name="a"><input name="b"><input name="c">
			</div>
		</main>
		<section id="sibling">
			<input name="d"><textarea name="e"></textarea><select name="f"><option>x</option></select>
		</section>
		<div id="small"><input name="g"><input name="h"></div>`)

	assert.Equal(t, []string{"outer", "sibling"}, ids(FindForms(doc)))
}

func TestFindForms_OnlyNegativeFormsFallsBack(t *testing.T) {
	doc := parse(t, `
		<form id="search"><input name="q"></form>
		<div id="app"><input name="a"><input name="b"><input name="c"></div>`)

	assert.Equal(t, []string{"app"}, ids(FindForms(doc)))
}

func TestFindForms_None(t *testing.T) {
	doc := parse(t, `<p>No forms here</p>`)
	assert.Empty(t, FindForms(doc))
}

func TestFields(t *testing.T) {
	doc := parse(t, `<form id="f">
		<input id="name" name="name">
		<input id="hidden" type="hidden" name="token">
		<input id="disabled" name="d" disabled>
		<input id="readonly" name="r" readonly>
		<div style="display: none"><input id="invisible" name="i"></div>
		<input id="submit" type="submit" value="Send">
		<input id="yes" type="radio" name="relocate" value="y">
		<input id="no" type="radio" name="relocate" value="n">
		<input id="solo" type="radio" value="x">
		<select id="country"><option>US</option></select>
		<textarea id="cover"></textarea>
		<input id="cv" type="file">
	</form>`)

	fields := Fields(doc.ByID("f"))
	assert.Equal(t, []string{"name", "yes", "solo", "country", "cover", "cv"}, ids(fields))
}

func TestFillable(t *testing.T) {
	doc := parse(t, `<input id="a"><input id="b" hidden><button id="c">Go</button><input id="d" type="image">`)

	assert.True(t, Fillable(doc.ByID("a")))
	assert.False(t, Fillable(doc.ByID("b")))
	assert.False(t, Fillable(doc.ByID("c")))
	assert.False(t, Fillable(doc.ByID("d")))
}
