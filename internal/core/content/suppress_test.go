package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAvoidTerms(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []string
	}{
		{"empty", "   ", nil},
		{"comma list with quotes", `foo, "bar baz", qux`, []string{"foo", "bar baz", "qux"}},
		{"single quotes keep spaces", `'Very Good' , Great`, []string{"very good", "great"}},
		{"json array", `["Delve", " Tapestry ", ""]`, []string{"delve", "tapestry"}},
		{"broken json falls back", `[delve, tapestry`, []string{"[delve", "tapestry"}},
		{"drops empties", `a,, ,b`, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAvoidTerms(tt.spec))
		})
	}
}

func TestSuppressWholeWordsCaseInsensitive(t *testing.T) {
	spec := `foo, "bar baz", qux`
	out := Suppress("I like FOO and Bar Baz but not food", spec)

	assert.Equal(t, "I like [alternative] and [alternative] but not food", out)
	lower := strings.ToLower(out)
	assert.NotContains(t, lower, "bar baz")
	assert.NotContains(t, lower, "foo ")
}

func TestSuppressIsIdempotent(t *testing.T) {
	spec := `delve, "rich tapestry", Moreover`
	texts := []string{
		"<p>Let us delve into a rich tapestry. Moreover, DELVE again.</p>",
		"nothing to replace here",
		"",
	}
	for _, text := range texts {
		once := Suppress(text, spec)
		assert.Equal(t, once, Suppress(once, spec))
	}
}

func TestSuppressTreatsTermsLiterally(t *testing.T) {
	assert.Equal(t, "cost is [alternative] today", Suppress("cost is a.b today", "a.b"))
	assert.Equal(t, "cost is axb today", Suppress("cost is axb today", "a.b"))
}

func TestCountWordsKeepsTags(t *testing.T) {
	assert.Equal(t, 2, CountWords("<p>Hello world</p>"))
	assert.Equal(t, 0, CountWords(" \n\t "))
	assert.Equal(t, 4, CountWords("<h2>A</h2>\n\n<p>b c</p> d"))
}
