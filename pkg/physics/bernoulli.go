package physics

import "math"

// Below this the closed form of B(x) loses digits to cancellation even with
// Expm1; the truncated series is exact to machine precision there.
const bernoulliSeriesTol = 1e-10

// BernoulliPair evaluates the exponential-fitting weights B(x) and B(-x)
// with B(x) = x/(exp(x)-1). Returned as (bp, bm) = (B(x), B(-x)) computed
// through bm = bp + x, so the difference bm-bp recovers x to within one
// rounding of the sum even where the closed forms would cancel. Both
// components equal 1 at x = 0. In the far tails the sum rounds the small
// component to zero while the asymptotic form B(y) ~ y*exp(-y) is still
// representable, so that form takes over there and both components stay
// positive as long as the exponential does not underflow.
func BernoulliPair(x float64) (bp, bm float64) {
	if math.Abs(x) < bernoulliSeriesTol {
		bp = 1 - x/2
	} else {
		bp = x / math.Expm1(x)
	}
	bm = bp + x
	if bp == 0 {
		bp = x * math.Exp(-x)
	}
	if bm == 0 {
		bm = -x * math.Exp(x)
	}
	return bp, bm
}
