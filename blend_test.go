package easel

import (
	"math"
	"testing"
)

// TestBlendModeStrings verifies the name table round-trips through
// ParseBlendMode for every mode.
func TestBlendModeStrings(t *testing.T) {
	modes := []BlendMode{
		BlendNormal, BlendMultiply, BlendScreen, BlendOverlay,
		BlendDarken, BlendLighten, BlendColorDodge, BlendColorBurn,
		BlendHardLight, BlendSoftLight, BlendDifference, BlendExclusion,
	}
	for _, m := range modes {
		name := m.String()
		if name == unknownBlendMode {
			t.Errorf("mode %d has no name", m)
			continue
		}
		parsed, ok := ParseBlendMode(name)
		if !ok || parsed != m {
			t.Errorf("ParseBlendMode(%q) = %v, %v; want %v, true", name, parsed, ok, m)
		}
	}

	if _, ok := ParseBlendMode("bogus"); ok {
		t.Error("ParseBlendMode accepted an unknown name")
	}
}

// TestBlendChannel exercises the separable blend functions on
// representative source/destination pairs.
func TestBlendChannel(t *testing.T) {
	tests := []struct {
		mode    BlendMode
		s, d    float64
		want    float64
	}{
		{BlendNormal, 0.3, 0.9, 0.3},
		{BlendMultiply, 0.5, 0.5, 0.25},
		{BlendMultiply, 1, 0.7, 0.7},
		{BlendScreen, 0.5, 0.5, 0.75},
		{BlendScreen, 0, 0.7, 0.7},
		{BlendDarken, 0.3, 0.6, 0.3},
		{BlendLighten, 0.3, 0.6, 0.6},
		{BlendColorDodge, 0, 0.5, 0.5},
		{BlendColorDodge, 1, 0.5, 1},
		{BlendColorBurn, 1, 0.5, 1},
		{BlendColorBurn, 0, 0.5, 0},
		{BlendHardLight, 0.25, 0.5, 0.25},
		{BlendHardLight, 0.75, 0.5, 0.75},
		{BlendDifference, 0.3, 0.8, 0.5},
		{BlendExclusion, 0.5, 0.5, 0.5},
	}
	for _, tt := range tests {
		got := blendChannel(tt.s, tt.d, tt.mode)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("blendChannel(%v, %v, %v) = %v, want %v",
				tt.s, tt.d, tt.mode, got, tt.want)
		}
	}
}

// TestCompositeNormal verifies a plain source-over composite with full
// opacity replaces destination pixels where the source is opaque.
func TestCompositeNormal(t *testing.T) {
	dst := NewPixmap(4, 4)
	dst.Clear(Black)
	src := NewPixmap(4, 4)
	src.SetPixel(1, 1, White)

	Composite(dst, src, 1, BlendNormal)

	if got := dst.GetPixel(1, 1); !colorsClose(got, White) {
		t.Errorf("composited pixel = %+v, want white", got)
	}
	if got := dst.GetPixel(2, 2); !colorsClose(got, Black) {
		t.Errorf("untouched pixel = %+v, want black", got)
	}
}

// TestCompositeOpacity verifies layer opacity scales the source alpha.
func TestCompositeOpacity(t *testing.T) {
	dst := NewPixmap(2, 2)
	dst.Clear(Black)
	src := NewPixmap(2, 2)
	src.Clear(White)

	Composite(dst, src, 0.5, BlendNormal)

	got := dst.GetPixel(0, 0)
	want := RGBA{0.5, 0.5, 0.5, 1}
	if !colorsClose(got, want) {
		t.Errorf("50%% white over black = %+v, want %+v", got, want)
	}
}

// TestCompositeMultiply verifies the multiply operator darkens.
func TestCompositeMultiply(t *testing.T) {
	dst := NewPixmap(2, 2)
	dst.Clear(RGBA{0.5, 0.5, 0.5, 1})
	src := NewPixmap(2, 2)
	src.Clear(RGBA{0.5, 0.5, 0.5, 1})

	Composite(dst, src, 1, BlendMultiply)

	got := dst.GetPixel(0, 0)
	want := RGBA{0.25, 0.25, 0.25, 1}
	if !colorsClose(got, want) {
		t.Errorf("0.5 multiply 0.5 = %+v, want %+v", got, want)
	}
}

// TestCompositeZeroOpacity verifies opacity 0 leaves the destination alone.
func TestCompositeZeroOpacity(t *testing.T) {
	dst := NewPixmap(2, 2)
	dst.Clear(Black)
	src := NewPixmap(2, 2)
	src.Clear(White)

	Composite(dst, src, 0, BlendNormal)

	if got := dst.GetPixel(0, 0); !colorsClose(got, Black) {
		t.Errorf("zero-opacity composite changed destination: %+v", got)
	}
}
