package clip

import (
	"strings"
	"testing"

	"github.com/gogpu/clipchain/geom"
)

func TestNewRoundedRectangle(t *testing.T) {
	r := geom.NewRect(0, 0, 100, 50)

	if p := NewRoundedRectangle(r, geom.BorderRadius{}, ModeClipOut); p.Kind() != KindRectangle {
		t.Errorf("zero radii Kind() = %v, want %v", p.Kind(), KindRectangle)
	} else if got := p.(Rectangle); got.Mode != ModeClipOut || got.Rect != r {
		t.Errorf("zero radii = %+v", got)
	}

	p := NewRoundedRectangle(r, geom.UniformRadius(40), ModeClip)
	rr, ok := p.(RoundedRectangle)
	if !ok {
		t.Fatalf("NewRoundedRectangle() = %T, want RoundedRectangle", p)
	}
	// Vertical edges hold 50 units for two 40 unit radii.
	if want := geom.UniformRadius(25); rr.Radii != want {
		t.Errorf("Radii = %+v, want %+v", rr.Radii, want)
	}
}

func TestPrimitiveKinds(t *testing.T) {
	r := geom.NewRect(0, 0, 10, 10)
	tests := []struct {
		p               Primitive
		want            Kind
		isRect          bool
		imageOrLineDeco bool
	}{
		{NewRectangle(r, ModeClip), KindRectangle, true, false},
		{NewRoundedRectangle(r, geom.UniformRadius(1), ModeClip), KindRoundedRectangle, false, false},
		{NewImageMask(r, 1, false), KindImageMask, false, true},
		{NewBoxShadow(r, geom.BorderRadius{}, r, 1, BoxShadowInset), KindBoxShadow, false, false},
		{NewLineDecoration(r, LineStyleSolid, LineOrientationHorizontal, 0), KindLineDecoration, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			if got := tt.p.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
			if got := IsRect(tt.p); got != tt.isRect {
				t.Errorf("IsRect() = %v, want %v", got, tt.isRect)
			}
			if got := IsImageOrLineDecoration(tt.p); got != tt.imageOrLineDeco {
				t.Errorf("IsImageOrLineDecoration() = %v, want %v", got, tt.imageOrLineDeco)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	ld := NewLineDecoration(geom.NewRect(1, 2, 30, 3), LineStyleDashed, LineOrientationHorizontal, 0)
	got := Offset(ld, geom.Vec(10, 20)).(LineDecoration)
	if want := geom.NewRect(11, 22, 30, 3); got.Rect != want {
		t.Errorf("Offset().Rect = %v, want %v", got.Rect, want)
	}
	if got.Style != LineStyleDashed {
		t.Errorf("Offset().Style = %v, want %v", got.Style, LineStyleDashed)
	}
	if ld.Rect != geom.NewRect(1, 2, 30, 3) {
		t.Error("Offset() modified its argument")
	}
}

func TestOffset_PanicsForUnsupportedKinds(t *testing.T) {
	r := geom.NewRect(0, 0, 10, 10)
	for _, p := range []Primitive{
		NewRectangle(r, ModeClip),
		NewImageMask(r, 1, true),
		NewBoxShadow(r, geom.BorderRadius{}, r, 2, BoxShadowOutset),
	} {
		t.Run(p.Kind().String(), func(t *testing.T) {
			defer func() {
				msg, _ := recover().(string)
				if !strings.HasPrefix(msg, "clip: bug:") {
					t.Errorf("Offset() panic = %q, want a clip bug panic", msg)
				}
			}()
			Offset(p, geom.Vec(1, 1))
		})
	}
}

func TestModeKindString(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{ModeClip.String(), "Clip"},
		{ModeClipOut.String(), "ClipOut"},
		{Mode(7).String(), "Mode(7)"},
		{KindBoxShadow.String(), "BoxShadow"},
		{Kind(9).String(), "Kind(9)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}
