package profile

import (
	"github.com/lucasb-eyer/go-colorful"
)

// ChannelRule matches a pixel when one channel is dominant and the others are
// suppressed below fixed caps. A zero cap disables the corresponding check.
//
// The rule expresses "strongly red" or "strongly blue" directly in RGB space,
// which is cheap and works for well-lit field photos. For colors whose
// channel separation is ambiguous under real lighting (blue in particular),
// pair it with a HueRule.
type ChannelRule struct {
	MinR uint8 `yaml:"minR"` // R must exceed this (0 = no minimum)
	MinG uint8 `yaml:"minG"`
	MinB uint8 `yaml:"minB"`
	MaxR uint8 `yaml:"maxR"` // R must stay below this (0 = no cap)
	MaxG uint8 `yaml:"maxG"`
	MaxB uint8 `yaml:"maxB"`
}

// Match reports whether the 8-bit RGB triple satisfies the rule.
func (cr ChannelRule) Match(r, g, b uint8) bool {
	if cr.MinR > 0 && r <= cr.MinR {
		return false
	}
	if cr.MinG > 0 && g <= cr.MinG {
		return false
	}
	if cr.MinB > 0 && b <= cr.MinB {
		return false
	}
	if cr.MaxR > 0 && r >= cr.MaxR {
		return false
	}
	if cr.MaxG > 0 && g >= cr.MaxG {
		return false
	}
	if cr.MaxB > 0 && b >= cr.MaxB {
		return false
	}
	return true
}

// HueRule matches a pixel whose hue falls inside [HueMin, HueMax] degrees and
// whose saturation exceeds SatMin. Hue and saturation are computed from the
// pixel's normalized channel values in HSV space.
type HueRule struct {
	HueMin float64 `yaml:"hueMin"` // degrees, 0-360
	HueMax float64 `yaml:"hueMax"` // degrees, 0-360
	SatMin float64 `yaml:"satMin"` // 0-1
}

// Match reports whether the 8-bit RGB triple satisfies the rule.
func (hr HueRule) Match(r, g, b uint8) bool {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	h, s, _ := c.Hsv()
	return h >= hr.HueMin && h <= hr.HueMax && s > hr.SatMin
}

// Classifier decides whether a pixel belongs to one color class.
//
// The channel rule always applies; the optional hue rule is OR'd with it, so
// a pixel matches the class when either rule accepts it. This mirrors how
// the thresholds were tuned: the channel rule catches the saturated core of
// a ball, the hue rule recovers shaded or washed-out pixels of the same hue.
type Classifier struct {
	Name    string      `yaml:"name"`
	Channel ChannelRule `yaml:"channel"`
	Hue     *HueRule    `yaml:"hue,omitempty"`
}

// Match reports whether the 8-bit RGB triple belongs to this class.
func (c Classifier) Match(r, g, b uint8) bool {
	if c.Channel.Match(r, g, b) {
		return true
	}
	if c.Hue != nil {
		return c.Hue.Match(r, g, b)
	}
	return false
}
