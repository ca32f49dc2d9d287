package colorspace_test

import (
	"errors"
	"testing"

	cspace "github.com/colorpipe/colorspace"
)

func Test_Code_IsNone(t *testing.T) {
	if !cspace.CodeNone.IsNone() {
		t.Fatal("CodeNone should report IsNone() == true")
	}
	if cspace.CodeInvalidDimensions.IsNone() {
		t.Fatal("non-zero Code should report IsNone() == false")
	}
}

func Test_Error_IsMatchesCode(t *testing.T) {
	var cs cspace.Colorspace
	cs.SetDefaults(3, 4, cspace.SamplingFormatUInt8)

	_, err := cspace.NewConfig(cs, cs, cspace.Options{})
	if err == nil {
		t.Fatal("expected an error for odd dimensions")
	}
	if !errors.Is(err, cspace.CodeInvalidDimensions) {
		t.Errorf("errors.Is(err, CodeInvalidDimensions) = false, want true (err: %v)", err)
	}
}
