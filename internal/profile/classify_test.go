package profile

import "testing"

func ballClassifiers() (red, blue, white Classifier) {
	red = Classifier{
		Name:    "red",
		Channel: ChannelRule{MinR: 150, MaxG: 100, MaxB: 100},
	}
	blue = Classifier{
		Name:    "blue",
		Channel: ChannelRule{MinB: 130, MaxR: 130, MaxG: 130},
		Hue:     &HueRule{HueMin: 198, HueMax: 252, SatMin: 0.4},
	}
	white = Classifier{
		Name:    "white",
		Channel: ChannelRule{MinR: 200, MinG: 200, MinB: 200},
	}
	return red, blue, white
}

func TestChannelRule_Match(t *testing.T) {
	red, _, white := ballClassifiers()

	tests := []struct {
		name    string
		rule    ChannelRule
		r, g, b uint8
		want    bool
	}{
		{"saturated red", red.Channel, 200, 50, 50, true},
		{"red at minimum is excluded", red.Channel, 150, 50, 50, false},
		{"red with green at cap is excluded", red.Channel, 200, 100, 50, false},
		{"red just inside caps", red.Channel, 200, 99, 99, true},
		{"black is not red", red.Channel, 0, 0, 0, false},
		{"bright white", white.Channel, 220, 220, 220, true},
		{"white with weak blue", white.Channel, 220, 220, 199, false},
		{"zero rule matches anything", ChannelRule{}, 13, 200, 77, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Match(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Match(%d,%d,%d) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestHueRule_Match(t *testing.T) {
	rule := HueRule{HueMin: 198, HueMax: 252, SatMin: 0.4}

	tests := []struct {
		name    string
		r, g, b uint8
		want    bool
	}{
		// (40,60,120) sits at roughly hue 225, saturation 0.67.
		{"shaded blue", 40, 60, 120, true},
		{"desaturated grey-blue", 100, 100, 110, false},
		{"red hue", 200, 40, 40, false},
		{"black", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule.Match(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Match(%d,%d,%d) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestClassifier_HueRecoversShadedPixels(t *testing.T) {
	_, blue, _ := ballClassifiers()

	// Saturated blue passes the channel rule alone.
	if !blue.Match(50, 50, 200) {
		t.Error("saturated blue should match via the channel rule")
	}
	// Shaded blue fails the channel rule (B below the minimum) but carries
	// the right hue, so the classifier still accepts it.
	if blue.Channel.Match(40, 60, 120) {
		t.Error("shaded blue should not pass the channel rule")
	}
	if !blue.Match(40, 60, 120) {
		t.Error("shaded blue should be recovered by the hue rule")
	}
	// Grey must fail both.
	if blue.Match(100, 100, 110) {
		t.Error("grey should match neither rule")
	}
}
