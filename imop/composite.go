package imop

import (
	"fmt"
	"image"
	"math"
	"slices"
)

const (
	Copy    = "copy"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Composite holds the currently active composition operation.
type Composite struct {
	current string
	ops     []string
}

// InitOp returns a new Composite with SrcOver as the active operation.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Copy,
			SrcOver,
			DstOver,
			SrcIn,
			DstIn,
			SrcOut,
			DstOut,
			SrcAtop,
			DstAtop,
			Xor,
		},
	}
}

// Set activates one of the supported composition operations.
func (op *Composite) Set(cop string) error {
	if !slices.Contains(op.ops, cop) {
		return fmt.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// factors returns the Porter-Duff coefficients Fa and Fb for the source and backdrop alphas.
func (op *Composite) factors(as, ab float64) (fa, fb float64) {
	switch op.current {
	case Copy:
		return 1, 0
	case SrcOver:
		return 1, 1 - as
	case DstOver:
		return 1 - ab, 1
	case SrcIn:
		return ab, 0
	case DstIn:
		return 0, as
	case SrcOut:
		return 1 - ab, 0
	case DstOut:
		return 0, 1 - as
	case SrcAtop:
		return ab, 1 - as
	case DstAtop:
		return 1 - ab, as
	case Xor:
		return 1 - ab, 1 - as
	}
	return 1, 1 - as
}

// Draw composites src onto dst in place. The src origin is placed at pt in dst coordinates
// and only the overlapping area is touched. The src alpha is scaled by alpha (0..1),
// which acts as a global opacity. A nil blend is equivalent to the Normal blend mode.
func (op *Composite) Draw(dst, src *image.NRGBA, pt image.Point, alpha float64, blend *Blend) {
	if dst == nil || src == nil {
		return
	}
	alpha = math.Max(0, math.Min(1, alpha))

	sb := src.Bounds()
	r := sb.Sub(sb.Min).Add(pt).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	useBlend := blend != nil && blend.Get() != Normal

	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(sb.Min.X+r.Min.X-pt.X, sb.Min.Y+y-pt.Y)

		for x := r.Min.X; x < r.Max.X; x++ {
			s := src.Pix[si : si+4 : si+4]
			d := dst.Pix[di : di+4 : di+4]

			as := float64(s[3]) / 255 * alpha
			ab := float64(d[3]) / 255
			fa, fb := op.factors(as, ab)

			ao := as*fa + ab*fb
			if ao <= 0 {
				d[0], d[1], d[2], d[3] = 0, 0, 0, 0
			} else {
				for c := 0; c < 3; c++ {
					cs := float64(s[c]) / 255
					cb := float64(d[c]) / 255
					if useBlend {
						cs = (1-ab)*cs + ab*blend.apply(cb, cs)
					}
					co := (as*fa*cs + ab*fb*cb) / ao
					d[c] = toUint8(co)
				}
				d[3] = toUint8(ao)
			}
			di += 4
			si += 4
		}
	}
}

func toUint8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
