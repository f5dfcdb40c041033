package stylemap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRun struct {
	text                            string
	bold, italic, underline, strike bool
	size                            float64
	font                            string
	color, highlight                *int
	failBold                        bool
}

func (r *fakeRun) SetBold(v bool) error {
	if r.failBold {
		return errors.New("bold rejected")
	}
	r.bold = v
	return nil
}
func (r *fakeRun) SetItalic(v bool) error    { r.italic = v; return nil }
func (r *fakeRun) SetUnderline(v bool) error { r.underline = v; return nil }
func (r *fakeRun) SetStrike(v bool) error    { r.strike = v; return nil }
func (r *fakeRun) SetSize(v float64) error   { r.size = v; return nil }
func (r *fakeRun) SetFont(v string) error    { r.font = v; return nil }
func (r *fakeRun) SetColor(v int) error      { r.color = &v; return nil }
func (r *fakeRun) SetHighlight(v int) error  { r.highlight = &v; return nil }

type fakeShape struct {
	left, top, width, height float64
	align                    Alignment
	valign                   VerticalAlignment
	runs                     []*fakeRun
	whole                    *fakeRun
	failBold                 bool
}

func newShape() *fakeShape {
	return &fakeShape{left: -1, top: -1, width: -1, height: -1}
}

func (s *fakeShape) SetAlignment(a Alignment) error { s.align = a; return nil }
func (s *fakeShape) SetText(text string) (Run, error) {
	s.whole = &fakeRun{text: text}
	return s.whole, nil
}
func (s *fakeShape) AddRun(text string) (Run, error) {
	r := &fakeRun{text: text, failBold: s.failBold}
	s.runs = append(s.runs, r)
	return r, nil
}
func (s *fakeShape) SetLeft(v float64) error   { s.left = v; return nil }
func (s *fakeShape) SetTop(v float64) error    { s.top = v; return nil }
func (s *fakeShape) SetWidth(v float64) error  { s.width = v; return nil }
func (s *fakeShape) SetHeight(v float64) error { s.height = v; return nil }
func (s *fakeShape) SetVerticalAlignment(v VerticalAlignment) error {
	s.valign = v
	return nil
}

func applyFirst(t *testing.T, markup string) *fakeShape {
	t.Helper()
	blocks, err := Parse(markup)
	require.NoError(t, err)
	require.NotEmpty(t, blocks)
	s := newShape()
	_ = New(DefaultLimits(), nil).Apply(s, blocks[0])
	return s
}

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		in       string
		expected map[string]string
	}{
		{"color: red", map[string]string{"color": "red"}},
		{" left : 10px ;top:5", map[string]string{"left": "10px", "top": "5"}},
		{"noval", map[string]string{}},
		{"a:b:c", map[string]string{}},
		{"a:b;;c", map[string]string{"a": "b"}},
		{"", map[string]string{}},
		{"x:1;x:2", map[string]string{"x": "2"}},
		{"Font-Size:12PT;width:", map[string]string{"Font-Size": "12PT", "width": ""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseDeclarations(tt.in), "input %q", tt.in)
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in string
		v  float64
		ok bool
	}{
		{"12", 12, true},
		{"12px", 12, true},
		{" 3.5pt", 3.5, true},
		{"-4", -4, true},
		{"40%", 40, true},
		{"auto", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		v, ok := parseLength(tt.in)
		if v != tt.v || ok != tt.ok {
			t.Errorf("parseLength(%q) = %v, %v, expected %v, %v", tt.in, v, ok, tt.v, tt.ok)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("rgb(1, 2, 3)")
	require.True(t, ok)
	assert.Equal(t, Color{R: 1, G: 2, B: 3, A: 1}, c)

	c, ok = ParseColor("rgba(10,20,30,0.5)")
	require.True(t, ok)
	assert.Equal(t, (30<<16)|(20<<8)|10, c.BGR())

	c, ok = ParseColor("#ff8000")
	require.True(t, ok)
	assert.Equal(t, "FF8000", HexRGB(c.BGR()))

	for _, bad := range []string{"rgb(1,2)", "rgba(1,2,3)", "rgb(300,0,0)", "rgb(a,b,c)", "red", "#12345"} {
		_, ok := ParseColor(bad)
		assert.False(t, ok, bad)
	}
}

func TestHexRoundTrip(t *testing.T) {
	bgr := PackBGR(0x12, 0x34, 0x56)
	assert.Equal(t, "123456", HexRGB(bgr))
	back, ok := ParseHexRGB("123456")
	require.True(t, ok)
	assert.Equal(t, bgr, back)
	r, g, b := UnpackBGR(bgr)
	assert.Equal(t, []uint8{0x12, 0x34, 0x56}, []uint8{r, g, b})
}

func TestParseGroupsImplicitBlocks(t *testing.T) {
	blocks, err := Parse("lead <span>x</span>\n<p>one</p>\n<div>two</div> tail")
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	assert.Equal(t, "", blocks[0].Tag)
	assert.Equal(t, "p", blocks[1].Tag)
	assert.Equal(t, "div", blocks[2].Tag)
	assert.Equal(t, " tail", blocks[3].PlainText())
}

func TestScenarioCenteredBoldRun(t *testing.T) {
	s := applyFirst(t, `<div style="text-align:center"><span style="font-weight:bold">Hi</span></div>`)
	assert.Equal(t, AlignCenter, s.align)
	require.Len(t, s.runs, 1)
	assert.Equal(t, "Hi", s.runs[0].text)
	assert.True(t, s.runs[0].bold)
	assert.Equal(t, 11.0, s.runs[0].size)
	assert.Nil(t, s.whole)
}

func TestGeometryDefaultsAndSkip(t *testing.T) {
	s := applyFirst(t, `<div>x</div>`)
	assert.Equal(t, []float64{0, 0, 100, 50}, []float64{s.left, s.top, s.width, s.height})

	tests := []struct {
		decl string
		get  func(*fakeShape) float64
	}{
		{"left:10001", func(s *fakeShape) float64 { return s.left }},
		{"top:-1px", func(s *fakeShape) float64 { return s.top }},
		{"width:0", func(s *fakeShape) float64 { return s.width }},
		{"height:5001pt", func(s *fakeShape) float64 { return s.height }},
	}
	for _, tt := range tests {
		s := applyFirst(t, `<div style="`+tt.decl+`">x</div>`)
		assert.Equal(t, -1.0, tt.get(s), "%s must keep the native value", tt.decl)
	}

	s = applyFirst(t, `<div style="left:12px;top:auto;width:200;height:60">x</div>`)
	assert.Equal(t, []float64{12, 0, 200, 60}, []float64{s.left, s.top, s.width, s.height})
}

func TestAlignmentMapping(t *testing.T) {
	tests := []struct {
		decl   string
		align  Alignment
		valign VerticalAlignment
	}{
		{"", AlignLeft, VAlignTop},
		{"text-align:right;vertical-align:bottom", AlignRight, VAlignBottom},
		{"text-align:justify;vertical-align:middle", AlignJustify, VAlignMiddle},
		{"text-align:start;vertical-align:baseline", AlignLeft, VAlignTop},
	}
	for _, tt := range tests {
		s := applyFirst(t, `<p style="`+tt.decl+`">x</p>`)
		assert.Equal(t, tt.align, s.align, tt.decl)
		assert.Equal(t, tt.valign, s.valign, tt.decl)
	}
}

func TestRunDeclarations(t *testing.T) {
	s := applyFirst(t, `<p><span style="font-weight:Bold;font-style:italic;text-decoration:underline line-through;font-size:20px;font-family:'Noto Sans', serif;color:#ff0000">a</span></p>`)
	require.Len(t, s.runs, 1)
	r := s.runs[0]
	assert.False(t, r.bold, "only the literal value bold enables bold")
	assert.True(t, r.italic)
	assert.True(t, r.underline)
	assert.True(t, r.strike)
	assert.Equal(t, 20.0, r.size)
	assert.Equal(t, "Noto Sans", r.font)
	require.NotNil(t, r.color)
	assert.Equal(t, 0x0000FF, *r.color)
}

func TestFontSizeRange(t *testing.T) {
	s := applyFirst(t, `<p><span style="font-size:2000">a</span><span style="font-size:big">b</span></p>`)
	require.Len(t, s.runs, 2)
	assert.Equal(t, 0.0, s.runs[0].size, "out of range size is skipped")
	assert.Equal(t, 11.0, s.runs[1].size, "unparsable size falls back to default")
}

func TestHighlightAlpha(t *testing.T) {
	s := applyFirst(t, `<p><span style="background-color:rgba(10,20,30,0.0)">a</span><span style="background-color:rgba(10,20,30,0.5)">b</span><span style="background-color:rgb(1,2">c</span></p>`)
	require.Len(t, s.runs, 3)
	assert.Nil(t, s.runs[0].highlight)
	require.NotNil(t, s.runs[1].highlight)
	assert.Equal(t, (30<<16)|(20<<8)|10, *s.runs[1].highlight)
	assert.Nil(t, s.runs[2].highlight)
}

func TestStrikeTagForcesStrike(t *testing.T) {
	for _, deco := range []string{"", "none", "underline"} {
		s := applyFirst(t, `<p><s style="text-decoration:`+deco+`">gone</s></p>`)
		require.Len(t, s.runs, 1)
		assert.True(t, s.runs[0].strike, "text-decoration %q", deco)
	}
	s := applyFirst(t, `<p><u>under</u><del>x</del></p>`)
	require.Len(t, s.runs, 2)
	assert.True(t, s.runs[0].underline)
	assert.True(t, s.runs[1].strike)
}

func TestDirectTextFallback(t *testing.T) {
	s := applyFirst(t, `<div style="font-weight:bold">Hello <b>world</b></div>`)
	assert.Empty(t, s.runs)
	require.NotNil(t, s.whole)
	assert.Equal(t, "Hello world", s.whole.text)
	assert.True(t, s.whole.bold)

	s = applyFirst(t, `<div>   </div>`)
	assert.Nil(t, s.whole)
}

func TestUnsupportedTagsKeepText(t *testing.T) {
	s := applyFirst(t, `<p><span>a</span><em>b</em><br>c</p>`)
	var texts []string
	for _, r := range s.runs {
		texts = append(texts, r.text)
	}
	assert.Equal(t, []string{"a", "b", "\n", "c"}, texts)
}

func TestFailedMutationContinues(t *testing.T) {
	blocks, err := Parse(`<p><span style="font-style:italic">a</span><span>b</span></p>`)
	require.NoError(t, err)
	s := newShape()
	s.failBold = true
	err = New(DefaultLimits(), nil).Apply(s, blocks[0])
	require.Error(t, err)
	require.Len(t, s.runs, 2)
	assert.True(t, s.runs[0].italic, "later attributes still applied")
	assert.Equal(t, 11.0, s.runs[1].size, "later runs still applied")
}
