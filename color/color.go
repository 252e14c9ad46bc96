// Package color parses CSS Color Level 3 values.
package color

import (
	"math"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"

	"github.com/cssparse/css3/ast"
	"github.com/cssparse/css3/parser"
)

// Color is either an RGBA value or CurrentColor.
type Color interface {
	String() string
	color()
}

// RGBA is a color with channels nominally in 0..1. Red, green and blue are
// not clamped and may fall outside that range.
type RGBA struct {
	R, G, B, A float64
}

func (RGBA) color() {}

// String returns the canonical "rgba(R, G, B, A)" form. Channels are
// written as 0..255 integers when they are exact, and as percentages
// otherwise, so that parsing the result yields the same color.
func (c RGBA) String() string {
	var sb strings.Builder
	sb.WriteString("rgba(")
	if r, g, b, ok := byteChannels(c); ok {
		sb.WriteString(strconv.Itoa(r) + ", " + strconv.Itoa(g) + ", " + strconv.Itoa(b))
	} else {
		sb.WriteString(percent(c.R) + ", " + percent(c.G) + ", " + percent(c.B))
	}
	sb.WriteString(", " + strconv.FormatFloat(c.A, 'f', -1, 64) + ")")
	return sb.String()
}

// Hex returns the color as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func (c RGBA) Hex() string {
	return csscolorparser.Color{R: c.R, G: c.G, B: c.B, A: c.A}.HexString()
}

func byteChannels(c RGBA) (int, int, int, bool) {
	r, rok := channelByte(c.R)
	g, gok := channelByte(c.G)
	b, bok := channelByte(c.B)
	return r, g, b, rok && gok && bok
}

func channelByte(v float64) (int, bool) {
	n := math.Round(v * 255)
	return int(n), n/255 == v
}

// percent returns the shortest percentage that reads back as v. Percentages
// are divided by 100 on parsing, so the candidates are the doubles around
// v*100.
func percent(v float64) string {
	p := v * 100
	best := ""
	for _, c := range []float64{p,
		math.Nextafter(p, math.Inf(1)), math.Nextafter(math.Nextafter(p, math.Inf(1)), math.Inf(1)),
		math.Nextafter(p, math.Inf(-1)), math.Nextafter(math.Nextafter(p, math.Inf(-1)), math.Inf(-1)),
	} {
		if c/100 != v {
			continue
		}
		if s := strconv.FormatFloat(c, 'f', -1, 64); best == "" || len(s) < len(best) {
			best = s
		}
	}
	if best == "" {
		best = strconv.FormatFloat(p, 'f', -1, 64)
	}
	return best + "%"
}

// expressible rounds v to the nearest value a percentage can produce, which
// keeps computed channels exact through their canonical text.
func expressible(v float64) float64 {
	return float64(v*100) / 100
}

type currentColor struct{}

func (currentColor) color()         {}
func (currentColor) String() string { return "currentColor" }

// CurrentColor is the value of the "currentColor" keyword. It has to be
// resolved by the caller against the inherited color.
var CurrentColor Color = currentColor{}

// Parse parses a color from CSS text or from a list holding one component
// value. It returns nil if the input is not a valid color.
func Parse[I parser.Input](input I) Color {
	return ParseNode(parser.ParseOneComponentValue(input, true))
}

// ParseNode parses a color from a single component value. It returns nil if
// the value is not a valid color.
func ParseNode(n ast.Node) Color {
	switch n := n.(type) {
	case *ast.Ident:
		if n.LowerValue == "currentcolor" {
			return CurrentColor
		}
		if c, ok := keywords[n.LowerValue]; ok {
			return c
		}
	case *ast.Hash:
		return parseHash(n.Value)
	case *ast.Function:
		args := commaSeparated(n.Arguments)
		if args == nil {
			return nil
		}
		switch n.LowerName {
		case "rgb":
			return parseRGB(args, 1)
		case "rgba":
			if a, ok := parseAlpha(args); ok {
				return parseRGB(args[:3], a)
			}
		case "hsl":
			return parseHSL(args, 1)
		case "hsla":
			if a, ok := parseAlpha(args); ok {
				return parseHSL(args[:3], a)
			}
		}
	}
	return nil
}

// parseHash parses the 3, 4, 6 and 8 digit hexadecimal notations.
func parseHash(v string) Color {
	for i := 0; i < len(v); i++ {
		if !isHex(v[i]) {
			return nil
		}
	}

	var ch []float64
	switch len(v) {
	case 3, 4:
		for i := 0; i < len(v); i++ {
			n, _ := strconv.ParseUint(v[i:i+1]+v[i:i+1], 16, 8)
			ch = append(ch, float64(n)/255)
		}
	case 6, 8:
		for i := 0; i < len(v); i += 2 {
			n, _ := strconv.ParseUint(v[i:i+2], 16, 8)
			ch = append(ch, float64(n)/255)
		}
	default:
		return nil
	}
	if len(ch) == 3 {
		ch = append(ch, 1)
	}
	return RGBA{ch[0], ch[1], ch[2], ch[3]}
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// commaSeparated drops whitespace and comments and returns the values
// between commas. It returns nil unless values and commas alternate.
func commaSeparated(nodes []ast.Node) []ast.Node {
	a := ast.Significant(nodes)
	if len(a) == 0 || len(a)%2 == 0 {
		return nil
	}
	args := make([]ast.Node, 0, len(a)/2+1)
	for i, n := range a {
		if i%2 == 1 {
			if l, ok := n.(*ast.Literal); !ok || !l.Is(",") {
				return nil
			}
			continue
		}
		args = append(args, n)
	}
	return args
}

// parseAlpha reads the fourth argument of rgba() and hsla() as a number
// clamped to 0..1.
func parseAlpha(args []ast.Node) (float64, bool) {
	if len(args) != 4 {
		return 0, false
	}
	n, ok := args[3].(*ast.Number)
	if !ok {
		return 0, false
	}
	return min(1, max(0, n.Value)), true
}

// parseRGB accepts three integers in 0..255 or three percentages. Values
// out of range are kept as is.
func parseRGB(args []ast.Node, alpha float64) Color {
	if len(args) != 3 {
		return nil
	}
	var ch [3]float64
	switch args[0].(type) {
	case *ast.Number:
		for i, arg := range args {
			n, ok := arg.(*ast.Number)
			if !ok || !n.IsInteger {
				return nil
			}
			ch[i] = float64(n.IntValue) / 255
		}
	case *ast.Percentage:
		for i, arg := range args {
			p, ok := arg.(*ast.Percentage)
			if !ok {
				return nil
			}
			ch[i] = p.Value / 100
		}
	default:
		return nil
	}
	return RGBA{ch[0], ch[1], ch[2], alpha}
}

// parseHSL accepts an integer hue in degrees followed by saturation and
// lightness percentages.
func parseHSL(args []ast.Node, alpha float64) Color {
	if len(args) != 3 {
		return nil
	}
	h, ok := args[0].(*ast.Number)
	if !ok || !h.IsInteger {
		return nil
	}
	s, ok := args[1].(*ast.Percentage)
	if !ok {
		return nil
	}
	l, ok := args[2].(*ast.Percentage)
	if !ok {
		return nil
	}
	r, g, b := hslToRGB(float64(h.IntValue)/360, s.Value/100, l.Value/100)
	return RGBA{expressible(r), expressible(g), expressible(b), alpha}
}

func hslToRGB(h, s, l float64) (float64, float64, float64) {
	if s == 0 {
		return l, l, l
	}
	var m2 float64
	if l <= 0.5 {
		m2 = l * (1 + s)
	} else {
		m2 = l + s - l*s
	}
	m1 := 2*l - m2
	return hueToRGB(m1, m2, h+1.0/3), hueToRGB(m1, m2, h), hueToRGB(m1, m2, h-1.0/3)
}

func hueToRGB(m1, m2, h float64) float64 {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	switch {
	case h < 1.0/6:
		return m1 + (m2-m1)*h*6
	case h < 0.5:
		return m2
	case h < 2.0/3:
		return m1 + (m2-m1)*(2.0/3-h)*6
	}
	return m1
}

func rgb(r, g, b uint8) RGBA {
	return RGBA{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// keywords maps the basic and extended color keywords, plus "transparent".
var keywords = func() map[string]RGBA {
	m := make(map[string]RGBA, len(namedColors)+1)
	for name, c := range namedColors {
		m[name] = rgb(c[0], c[1], c[2])
	}
	m["transparent"] = RGBA{0, 0, 0, 0}
	return m
}()

var namedColors = map[string][3]uint8{
	"black":                {0, 0, 0},
	"silver":               {192, 192, 192},
	"gray":                 {128, 128, 128},
	"white":                {255, 255, 255},
	"maroon":               {128, 0, 0},
	"red":                  {255, 0, 0},
	"purple":               {128, 0, 128},
	"fuchsia":              {255, 0, 255},
	"green":                {0, 128, 0},
	"lime":                 {0, 255, 0},
	"olive":                {128, 128, 0},
	"yellow":               {255, 255, 0},
	"navy":                 {0, 0, 128},
	"blue":                 {0, 0, 255},
	"teal":                 {0, 128, 128},
	"aqua":                 {0, 255, 255},
	"orange":               {255, 165, 0},
	"aliceblue":            {240, 248, 255},
	"antiquewhite":         {250, 235, 215},
	"aquamarine":           {127, 255, 212},
	"azure":                {240, 255, 255},
	"beige":                {245, 245, 220},
	"bisque":               {255, 228, 196},
	"blanchedalmond":       {255, 235, 205},
	"blueviolet":           {138, 43, 226},
	"brown":                {165, 42, 42},
	"burlywood":            {222, 184, 135},
	"cadetblue":            {95, 158, 160},
	"chartreuse":           {127, 255, 0},
	"chocolate":            {210, 105, 30},
	"coral":                {255, 127, 80},
	"cornflowerblue":       {100, 149, 237},
	"cornsilk":             {255, 248, 220},
	"crimson":              {220, 20, 60},
	"cyan":                 {0, 255, 255},
	"darkblue":             {0, 0, 139},
	"darkcyan":             {0, 139, 139},
	"darkgoldenrod":        {184, 134, 11},
	"darkgray":             {169, 169, 169},
	"darkgreen":            {0, 100, 0},
	"darkgrey":             {169, 169, 169},
	"darkkhaki":            {189, 183, 107},
	"darkmagenta":          {139, 0, 139},
	"darkolivegreen":       {85, 107, 47},
	"darkorange":           {255, 140, 0},
	"darkorchid":           {153, 50, 204},
	"darkred":              {139, 0, 0},
	"darksalmon":           {233, 150, 122},
	"darkseagreen":         {143, 188, 143},
	"darkslateblue":        {72, 61, 139},
	"darkslategray":        {47, 79, 79},
	"darkslategrey":        {47, 79, 79},
	"darkturquoise":        {0, 206, 209},
	"darkviolet":           {148, 0, 211},
	"deeppink":             {255, 20, 147},
	"deepskyblue":          {0, 191, 255},
	"dimgray":              {105, 105, 105},
	"dimgrey":              {105, 105, 105},
	"dodgerblue":           {30, 144, 255},
	"firebrick":            {178, 34, 34},
	"floralwhite":          {255, 250, 240},
	"forestgreen":          {34, 139, 34},
	"gainsboro":            {220, 220, 220},
	"ghostwhite":           {248, 248, 255},
	"gold":                 {255, 215, 0},
	"goldenrod":            {218, 165, 32},
	"greenyellow":          {173, 255, 47},
	"grey":                 {128, 128, 128},
	"honeydew":             {240, 255, 240},
	"hotpink":              {255, 105, 180},
	"indianred":            {205, 92, 92},
	"indigo":               {75, 0, 130},
	"ivory":                {255, 255, 240},
	"khaki":                {240, 230, 140},
	"lavender":             {230, 230, 250},
	"lavenderblush":        {255, 240, 245},
	"lawngreen":            {124, 252, 0},
	"lemonchiffon":         {255, 250, 205},
	"lightblue":            {173, 216, 230},
	"lightcoral":           {240, 128, 128},
	"lightcyan":            {224, 255, 255},
	"lightgoldenrodyellow": {250, 250, 210},
	"lightgray":            {211, 211, 211},
	"lightgreen":           {144, 238, 144},
	"lightgrey":            {211, 211, 211},
	"lightpink":            {255, 182, 193},
	"lightsalmon":          {255, 160, 122},
	"lightseagreen":        {32, 178, 170},
	"lightskyblue":         {135, 206, 250},
	"lightslategray":       {119, 136, 153},
	"lightslategrey":       {119, 136, 153},
	"lightsteelblue":       {176, 196, 222},
	"lightyellow":          {255, 255, 224},
	"limegreen":            {50, 205, 50},
	"linen":                {250, 240, 230},
	"magenta":              {255, 0, 255},
	"mediumaquamarine":     {102, 205, 170},
	"mediumblue":           {0, 0, 205},
	"mediumorchid":         {186, 85, 211},
	"mediumpurple":         {147, 112, 219},
	"mediumseagreen":       {60, 179, 113},
	"mediumslateblue":      {123, 104, 238},
	"mediumspringgreen":    {0, 250, 154},
	"mediumturquoise":      {72, 209, 204},
	"mediumvioletred":      {199, 21, 133},
	"midnightblue":         {25, 25, 112},
	"mintcream":            {245, 255, 250},
	"mistyrose":            {255, 228, 225},
	"moccasin":             {255, 228, 181},
	"navajowhite":          {255, 222, 173},
	"oldlace":              {253, 245, 230},
	"olivedrab":            {107, 142, 35},
	"orangered":            {255, 69, 0},
	"orchid":               {218, 112, 214},
	"palegoldenrod":        {238, 232, 170},
	"palegreen":            {152, 251, 152},
	"paleturquoise":        {175, 238, 238},
	"palevioletred":        {219, 112, 147},
	"papayawhip":           {255, 239, 213},
	"peachpuff":            {255, 218, 185},
	"peru":                 {205, 133, 63},
	"pink":                 {255, 192, 203},
	"plum":                 {221, 160, 221},
	"powderblue":           {176, 224, 230},
	"rosybrown":            {188, 143, 143},
	"royalblue":            {65, 105, 225},
	"saddlebrown":          {139, 69, 19},
	"salmon":               {250, 128, 114},
	"sandybrown":           {244, 164, 96},
	"seagreen":             {46, 139, 87},
	"seashell":             {255, 245, 238},
	"sienna":               {160, 82, 45},
	"skyblue":              {135, 206, 235},
	"slateblue":            {106, 90, 205},
	"slategray":            {112, 128, 144},
	"slategrey":            {112, 128, 144},
	"snow":                 {255, 250, 250},
	"springgreen":          {0, 255, 127},
	"steelblue":            {70, 130, 180},
	"tan":                  {210, 180, 140},
	"thistle":              {216, 191, 216},
	"tomato":               {255, 99, 71},
	"turquoise":            {64, 224, 208},
	"violet":               {238, 130, 238},
	"wheat":                {245, 222, 179},
	"whitesmoke":           {245, 245, 245},
	"yellowgreen":          {154, 205, 50},
}
