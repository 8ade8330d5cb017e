package util

// TransformOrNil returns nil if the value is nil, otherwise applies the transform function.
//
// Used when rendering optional fields (price bounds, floor prices) where an
// absent value should stay nil instead of becoming a zero value.
//
// Example:
//
//	fields = append(fields, zap.Any("floor", util.TransformOrNil(stats.FloorPrice, func(d apd.Decimal) any { return d.Text('f') })))
func TransformOrNil[T any](value *T, transform func(T) any) any {
	if value == nil {
		return nil
	}
	return transform(*value)
}
