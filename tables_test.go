package colorspace

import "testing"

func Test_MatrixTable_KrKbSumBelowOne(t *testing.T) {
	for m, e := range matrixTable {
		if e.kr+e.kb >= 1 {
			t.Errorf("matrix %v: kr+kb = %v, must be < 1 (kg must stay positive)", m, e.kr+e.kb)
		}
	}
}

func Test_AllPresetTable_CoversNamedPresets(t *testing.T) {
	want := []All{AllBT470M, AllBT470BG, AllBT601_6_525, AllBT601_6_625, AllBT709, AllSMPTE170M, AllSMPTE240M, AllBT2020}
	for _, a := range want {
		if _, ok := allPresetTable[a]; !ok {
			t.Errorf("allPresetTable missing preset %v", a)
		}
	}
}
