package layout

import (
	"math"
	"testing"
)

// TestPtPxRoundTrip 验证 pt↔px 换算的往返精度（允许极小的浮点误差）。
func TestPtPxRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 60, 72, 96, 144, 1000}
	for _, px := range samples {
		back := PtToPx(PxToPt(px))
		if diff := math.Abs(back - px); diff > 1e-9 {
			t.Fatalf("px→pt→px 往返误差过大: in=%g back=%g diff=%g", px, back, diff)
		}
	}
}

func TestLineHeightResolve(t *testing.T) {
	if got := (LineHeightSpec{Factor: 1.5}).Resolve(60); got != 90 {
		t.Fatalf("1.5 × 60 期望 90，实际 %g", got)
	}
	if got := (LineHeightSpec{}).Resolve(10); math.Abs(got-14) > 1e-9 {
		t.Fatalf("默认倍数期望 14，实际 %g", got)
	}
}
