package colorspace

import (
	"math"
	"testing"
)

// Test_S5_HalfFloatLinearToSRGB covers spec scenario S5: a linear GBR
// half-float mid-gray sample converted to sRGB must decode to
// approximately 0.7354.
func Test_S5_HalfFloatLinearToSRGB(t *testing.T) {
	var in, out Colorspace
	in.SetDefaults(96, 96, SamplingFormatHalf)
	in.ColorFamily = ColorFamilyRGB
	in.ChromaSubsamplingWidth, in.ChromaSubsamplingHeight = 0, 0
	in.ColorTransfer = TransferLinear

	out = in
	out.ColorTransfer = TransferIEC61966_2_1

	cfg, err := NewConfig(in, out, Options{})
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	half05 := toHalf(0.5)
	rgb := [3][]uint16{{half05}, {half05}, {half05}}
	convertHalf(rgb, cfg)

	for i, p := range rgb {
		got := float64(fromHalf(p[0]))
		if math.Abs(got-0.7354) > 0.01 {
			t.Errorf("plane %d: decoded %v, want ~0.7354 +-0.01", i, got)
		}
	}
}

// Test_ConvertF32_Passthrough checks that identical primaries and
// transfer with equal tags leave f32 samples untouched.
func Test_ConvertF32_Passthrough(t *testing.T) {
	var cs Colorspace
	cs.SetDefaults(16, 16, SamplingFormatFloat)
	cs.ColorFamily = ColorFamilyRGB
	cs.ChromaSubsamplingWidth, cs.ChromaSubsamplingHeight = 0, 0

	cfg, err := NewConfig(cs, cs, Options{})
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	rgb := [3][]float32{{0.25}, {0.5}, {0.75}}
	convertF32(rgb, cfg)

	want := [3]float32{0.25, 0.5, 0.75}
	for i, p := range rgb {
		if math.Abs(float64(p[0]-want[i])) > 1e-6 {
			t.Errorf("plane %d: got %v, want %v", i, p[0], want[i])
		}
	}
}
