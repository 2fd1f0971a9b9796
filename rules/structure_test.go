package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/jsxfix/core"
)

func TestVoidElementDetect(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{
			name: "img with closing tag",
			src:  `const el = <img src="a.png"></img>;`,
			want: 1,
		},
		{
			name: "already self-closing",
			src:  `const el = <img src="a.png" />;`,
			want: 0,
		},
		{
			name: "non-void element with closing tag",
			src:  `const el = <div></div>;`,
			want: 0,
		},
		{
			name: "br and hr",
			src:  `const el = <p><br></br><hr></hr></p>;`,
			want: 2,
		},
	}
	rule := &VoidElement{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, findings := detectIn(t, rule, tt.src)
			assert.Len(t, findings, tt.want)
			for _, fd := range findings {
				assert.Equal(t, core.SeverityInfo, fd.Severity)
				assert.Equal(t, core.CategoryStructure, fd.Category)
			}
		})
	}
}

func TestVoidElementFix(t *testing.T) {
	rule := &VoidElement{}
	f, findings := detectIn(t, rule, `const el = <img src="a.png"></img>;`)
	require.Len(t, findings, 1)

	out := fixAll(t, rule, f, findings)
	assert.Equal(t, `const el = <img src="a.png" />;`, out)

	_, again := detectIn(t, rule, out)
	assert.Empty(t, again)
}

func TestVoidElementFixWithoutAttributes(t *testing.T) {
	rule := &VoidElement{}
	f, findings := detectIn(t, rule, `const el = <p>line<br></br>break</p>;`)
	require.Len(t, findings, 1)

	out := fixAll(t, rule, f, findings)
	assert.Equal(t, `const el = <p>line<br />break</p>;`, out)
}

func TestFragmentUsageDetect(t *testing.T) {
	rule := &FragmentUsage{}

	_, findings := detectIn(t, rule, `const el = <><td>a</td><td>b</td></>;`)
	require.Len(t, findings, 1)
	assert.Equal(t, core.SeverityGood, findings[0].Severity)

	_, none := detectIn(t, rule, `const el = <div><td>a</td></div>;`)
	assert.Empty(t, none)
}

func TestMissingKeyDetect(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{
			name: "map without key",
			src:  `const list = items.map(item => <li>{item}</li>);`,
			want: 1,
		},
		{
			name: "map with key",
			src:  `const list = items.map(item => <li key={item.id}>{item}</li>);`,
			want: 0,
		},
		{
			name: "map returning non-markup",
			src:  `const names = items.map(item => item.name);`,
			want: 0,
		},
		{
			name: "block body return",
			src: `const list = items.map(function (item) {
  return <li>{item}</li>;
});`,
			want: 1,
		},
		{
			name: "other method name",
			src:  `const list = items.filter(item => <li>{item}</li>);`,
			want: 0,
		},
	}
	rule := &MissingKey{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, findings := detectIn(t, rule, tt.src)
			assert.Len(t, findings, tt.want)
			for _, fd := range findings {
				assert.Equal(t, core.SeverityError, fd.Severity)
			}
		})
	}
}

func TestMissingKeyFixUsesExistingIndexParam(t *testing.T) {
	rule := &MissingKey{}
	f, findings := detectIn(t, rule, `const list = items.map((item, i) => <li>{item}</li>);`)
	require.Len(t, findings, 1)

	out := fixAll(t, rule, f, findings)
	assert.Equal(t, `const list = items.map((item, i) => <li key={i}>{item}</li>);`, out)
}

func TestMissingKeyFixAddsIndexParam(t *testing.T) {
	rule := &MissingKey{}
	f, findings := detectIn(t, rule, `const list = items.map((item) => <li>{item}</li>);`)
	require.Len(t, findings, 1)

	out := fixAll(t, rule, f, findings)
	assert.Equal(t, `const list = items.map((item, index) => <li key={index}>{item}</li>);`, out)

	_, again := detectIn(t, rule, out)
	assert.Empty(t, again)
}

func TestMissingKeyFixWrapsBareParam(t *testing.T) {
	rule := &MissingKey{}
	f, findings := detectIn(t, rule, `const list = items.map(item => <li>{item}</li>);`)
	require.Len(t, findings, 1)

	out := fixAll(t, rule, f, findings)
	assert.Equal(t, `const list = items.map((item, index) => <li key={index}>{item}</li>);`, out)
}

func TestMissingKeyFixRefusesShadowingIndex(t *testing.T) {
	rule := &MissingKey{}
	src := `const index = current();
const list = items.map((item) => <li>{label(index)}</li>);`
	f, findings := detectIn(t, rule, src)
	require.Len(t, findings, 1)

	_, err := rule.Fix(f, findings[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shadow")
	assert.Zero(t, f.Edits.Len())
}
