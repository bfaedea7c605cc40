package nbody

import "github.com/asterodyne/apophis/internal/ring"

// Vec3 is a 3-vector over the ring T the right-hand side is currently
// instantiated with (float64, a UTS, or a jet series).
type Vec3[T any] [3]T

func addv[T any](r ring.Ring[T], a, b Vec3[T]) Vec3[T] {
	return Vec3[T]{r.Add(a[0], b[0]), r.Add(a[1], b[1]), r.Add(a[2], b[2])}
}

func subv[T any](r ring.Ring[T], a, b Vec3[T]) Vec3[T] {
	return Vec3[T]{r.Sub(a[0], b[0]), r.Sub(a[1], b[1]), r.Sub(a[2], b[2])}
}

func scalev[T any](r ring.Ring[T], a Vec3[T], k float64) Vec3[T] {
	return Vec3[T]{r.Scale(a[0], k), r.Scale(a[1], k), r.Scale(a[2], k)}
}

func mulv[T any](r ring.Ring[T], a Vec3[T], k T) Vec3[T] {
	return Vec3[T]{r.Mul(a[0], k), r.Mul(a[1], k), r.Mul(a[2], k)}
}

func dotv[T any](r ring.Ring[T], a, b Vec3[T]) T {
	return r.Add(r.Add(r.Mul(a[0], b[0]), r.Mul(a[1], b[1])), r.Mul(a[2], b[2]))
}

func norm2v[T any](r ring.Ring[T], a Vec3[T]) T { return dotv(r, a, a) }

func normv[T any](r ring.Ring[T], a Vec3[T]) (T, error) { return r.Sqrt(norm2v(r, a)) }
