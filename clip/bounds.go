package clip

import "github.com/gogpu/clipchain/geom"

// boundsAccumulator folds a primitive sequence into a conservative local
// inner rect (fully visible area) and outer rect (everything outside is
// clipped away).
//
// Once the inner rect is unknown it stays unknown; later primitives only
// refine the outer rect.
type boundsAccumulator struct {
	outer, inner  geom.Rect
	canBoundOuter bool
	canBoundInner bool
}

func newBoundsAccumulator() boundsAccumulator {
	return boundsAccumulator{
		outer:         geom.MaxRect(),
		inner:         geom.MaxRect(),
		canBoundInner: true,
	}
}

func (a *boundsAccumulator) add(p Primitive) {
	p.accumulate(a)
}

func (a *boundsAccumulator) intersectOuter(r geom.Rect) {
	a.canBoundOuter = true
	a.outer, _ = a.outer.Intersection(r)
}

func (a *boundsAccumulator) intersectInner(r geom.Rect) {
	if a.canBoundInner {
		a.inner, _ = a.inner.Intersection(r)
	}
}

func (a *boundsAccumulator) clearInner() {
	a.canBoundInner = false
}

// finish returns the inner rect (zero and innerOK=false when unknown) and
// the outer rect (outerOK=false when no primitive bounded it).
func (a *boundsAccumulator) finish() (inner geom.Rect, innerOK bool, outer geom.Rect, outerOK bool) {
	if a.canBoundInner {
		inner, innerOK = a.inner, true
	}
	if a.canBoundOuter {
		outer, outerOK = a.outer, true
	}
	return inner, innerOK, outer, outerOK
}

func (r Rectangle) accumulate(a *boundsAccumulator) {
	if r.Mode == ModeClipOut {
		a.clearInner()
		return
	}
	a.intersectOuter(r.Rect)
	a.intersectInner(r.Rect)
}

func (r RoundedRectangle) accumulate(a *boundsAccumulator) {
	if r.Mode == ModeClipOut {
		a.clearInner()
		return
	}
	a.intersectOuter(r.Rect)
	if inner, ok := geom.ExtractInnerRectSafe(r.Rect, r.Radii); ok {
		a.intersectInner(inner)
	} else {
		a.clearInner()
	}
}

func (m ImageMask) accumulate(a *boundsAccumulator) {
	if !m.Repeat {
		a.intersectOuter(m.Rect)
	}
	a.clearInner()
}

func (*BoxShadow) accumulate(a *boundsAccumulator) {
	a.clearInner()
}

func (LineDecoration) accumulate(a *boundsAccumulator) {
	a.clearInner()
}
