package axis

import "fmt"

// ShapeMismatchError reports a value array whose length does not match
// the time axis it claims to be bound to. It is raised at the boundary
// where a caller asks for its bound array to be permuted, never inside
// Convert itself.
type ShapeMismatchError struct {
	AxisLen   int
	ValuesLen int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("bound value array has %d elements, time axis has %d", e.ValuesLen, e.AxisLen)
}

// ApplyReorder mirrors a conversion's reversal onto a value array bound
// one-to-one with the converted axis. When reordered is false the values
// are returned as a plain copy. The array is only ever permuted, never
// resized or recomputed.
func ApplyReorder(values []float64, axisLen int, reordered bool) ([]float64, error) {
	if len(values) != axisLen {
		return nil, &ShapeMismatchError{AxisLen: axisLen, ValuesLen: len(values)}
	}
	if reordered {
		return Reversed(values), nil
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}
