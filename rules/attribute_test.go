package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/jsxfix/core"
)

func TestReservedPropDetect(t *testing.T) {
	src := `const el = <label for="name" class="row">Name</label>;`
	rule := &ReservedProp{}
	_, findings := detectIn(t, rule, src)
	require.Len(t, findings, 2)
	for _, fd := range findings {
		assert.Equal(t, core.SeverityError, fd.Severity)
		assert.Equal(t, core.CategoryAttribute, fd.Category)
	}
	// Source order.
	assert.Contains(t, findings[0].Message, `"for"`)
	assert.Contains(t, findings[1].Message, `"class"`)
}

func TestReservedPropFix(t *testing.T) {
	rule := &ReservedProp{}
	f, findings := detectIn(t, rule, `const el = <label for="name" class="row">Name</label>;`)
	out := fixAll(t, rule, f, findings)
	assert.Equal(t, `const el = <label htmlFor="name" className="row">Name</label>;`, out)

	_, again := detectIn(t, rule, out)
	assert.Empty(t, again)
}

func TestReservedPropIgnoresCorrectNames(t *testing.T) {
	rule := &ReservedProp{}
	_, findings := detectIn(t, rule, `const el = <div className="row" htmlFor="x" />;`)
	assert.Empty(t, findings)
}

func TestCamelCaseAttributeDetect(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{
			name: "lowercase tabindex and maxlength",
			src:  `const el = <input tabindex="0" maxlength="10" />;`,
			want: 2,
		},
		{
			name: "already camelCase",
			src:  `const el = <input tabIndex="0" maxLength="10" />;`,
			want: 0,
		},
		{
			name: "unknown attributes untouched",
			src:  `const el = <div data-rowid="5" aria-label="x" />;`,
			want: 0,
		},
	}
	rule := &CamelCaseAttribute{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, findings := detectIn(t, rule, tt.src)
			assert.Len(t, findings, tt.want)
		})
	}
}

func TestCamelCaseAttributeFix(t *testing.T) {
	rule := &CamelCaseAttribute{}
	f, findings := detectIn(t, rule, `const el = <textarea readonly spellcheck="false"></textarea>;`)
	require.Len(t, findings, 2)

	out := fixAll(t, rule, f, findings)
	assert.Equal(t, `const el = <textarea readOnly spellCheck="false"></textarea>;`, out)
}

func TestQuoteStyleDetect(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{
			name: "mixed quotes",
			src:  `const el = <div id="a" title='b' role="c" />;`,
			want: 1,
		},
		{
			name: "uniform double",
			src:  `const el = <div id="a" title="b" />;`,
			want: 0,
		},
		{
			name: "uniform single",
			src:  `const el = <div id='a' title='b' />;`,
			want: 0,
		},
		{
			name: "expression values ignored",
			src:  `const el = <div id="a" style={s} />;`,
			want: 0,
		},
	}
	rule := &QuoteStyle{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, findings := detectIn(t, rule, tt.src)
			assert.Len(t, findings, tt.want)
		})
	}
}

func TestQuoteStyleReportsMinority(t *testing.T) {
	rule := &QuoteStyle{}
	_, findings := detectIn(t, rule, `const el = <div id="a" title='b' role="c" />;`)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "1 single, 2 double")
}

func TestQuoteStyleHasNoFixer(t *testing.T) {
	var rule core.Rule = &QuoteStyle{}
	_, ok := rule.(core.Fixer)
	assert.False(t, ok)
}

func TestCamelCaseTableIsWellFormed(t *testing.T) {
	for from, to := range camelCaseProps {
		assert.Equal(t, strings.ToLower(to), from, "table key must be the lowercase of its value")
		assert.NotEqual(t, from, to)
	}
}
