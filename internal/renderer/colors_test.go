package renderer

import (
	"image/color"
	"testing"
)

func TestHexColor(t *testing.T) {
	tests := []struct {
		c    color.RGBA
		want string
	}{
		{color.RGBA{0xFF, 0x99, 0x00, 0xFF}, "#FF9900"},
		{color.RGBA{0x23, 0x2F, 0x3E, 0xFF}, "#232F3E"},
		{colorWhite, "#FFFFFF"},
		{colorBlack, "#000000"},
	}

	for _, tt := range tests {
		if got := hexColor(tt.c); got != tt.want {
			t.Errorf("hexColor(%v) = %s, want %s", tt.c, got, tt.want)
		}
	}
}

func TestParseColorFallback(t *testing.T) {
	if got := parseColor("#4B9CD3"); got != (color.RGBA{0x4B, 0x9C, 0xD3, 0xFF}) {
		t.Errorf("parseColor(#4B9CD3) = %v", got)
	}
	if got := parseColor("blue"); got != colorBlack {
		t.Errorf("parseColor(blue) = %v, want black", got)
	}
}
