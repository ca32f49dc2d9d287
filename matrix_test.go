package colorspace

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Test_InverseExactness covers spec property 1: yuv2rgb . rgb2yuv must
// equal the identity in double precision, before quantisation, for every
// supported matrix enum.
func Test_InverseExactness(t *testing.T) {
	for m, e := range matrixTable {
		rgb2yuv := rgbToYUVMatrix(e.kr, e.kb)
		yuv2rgb, err := invert3x3(rgb2yuv)
		if err != nil {
			t.Fatalf("matrix %v: not invertible: %v", m, err)
		}
		product := multiplyMat3(rgb2yuv, yuv2rgb)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				want := 0.0
				if i == j {
					want = 1.0
				}
				if math.Abs(product[i][j]-want) > 1e-12 {
					t.Errorf("matrix %v: product[%d][%d] = %v, want %v", m, i, j, product[i][j], want)
				}
			}
		}
	}
}

// Test_ChromaticAdaptationIdentity covers the spec section 9 decision
// that Identity adaptation must short-circuit to the identity matrix
// even when the two whitepoints differ.
func Test_ChromaticAdaptationIdentity(t *testing.T) {
	d65 := xyToXYZ(0.3127, 0.3290)
	d60 := xyToXYZ(0.32168, 0.33767)

	m, err := chromaticAdaptationMatrix(WPAdaptIdentity, d65, d60)
	if err != nil {
		t.Fatalf("chromaticAdaptationMatrix: %v", err)
	}
	if m != identity3() {
		t.Errorf("Identity adaptation with differing whitepoints = %v, want identity", m)
	}
}

// Test_BradfordAdaptationRoundTrip checks that adapting D65->D60 then
// D60->D65 recovers the identity, a basic sanity check on the Bradford
// cone-response construction.
func Test_BradfordAdaptationRoundTrip(t *testing.T) {
	d65 := xyToXYZ(0.3127, 0.3290)
	d60 := xyToXYZ(0.32168, 0.33767)

	fwd, err := chromaticAdaptationMatrix(WPAdaptBradford, d65, d60)
	if err != nil {
		t.Fatalf("forward adaptation: %v", err)
	}
	rev, err := chromaticAdaptationMatrix(WPAdaptBradford, d60, d65)
	if err != nil {
		t.Fatalf("reverse adaptation: %v", err)
	}

	product := multiplyMat3(rev, fwd)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(product[i][j]-want) > 1e-9 {
				t.Errorf("product[%d][%d] = %v, want %v", i, j, product[i][j], want)
			}
		}
	}
}

func Test_QuantizeLRGB2LRGB_Identity(t *testing.T) {
	q := quantizeLRGB2LRGB(identity3())
	want := [3][3]int16{{16384, 0, 0}, {0, 16384, 0}, {0, 0, 16384}}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Errorf("quantizeLRGB2LRGB(identity) mismatch (-want +got):\n%s", diff)
	}
}

func Test_ClipInt16_Saturates(t *testing.T) {
	if got := clipInt16(1e9); got != 32767 {
		t.Errorf("clipInt16(1e9) = %d, want 32767", got)
	}
	if got := clipInt16(-1e9); got != -32768 {
		t.Errorf("clipInt16(-1e9) = %d, want -32768", got)
	}
}
