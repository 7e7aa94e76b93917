package decode

// With decodes an A from the source and hands it to next, which returns the decoder for
// the rest of the value. Both run against the same source, which makes With the building
// block for decoding records field by field:
//
//	type Point struct{ X, Y int }
//
//	point := decode.With(decode.Field("x", decode.Int[int]()), func(x int) decode.Decoder[Point] {
//		return decode.With(decode.Default("y", decode.Int[int](), 0), func(y int) decode.Decoder[Point] {
//			return decode.Succeed(Point{X: x, Y: y})
//		})
//	})
//
// If dec fails, its error is returned as is and next is never called.
func With[A, B any](dec Decoder[A], next func(A) Decoder[B]) Decoder[B] {
	return AndThen(dec, next)
}
