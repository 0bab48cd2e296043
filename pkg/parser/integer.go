package parser

import (
	"strconv"

	"github.com/goliatone/go-formbind/pkg/field"
)

func newInteger(t *Tree, opts Options, parent int) *Scalar {
	p := newScalar(t, opts, parent, field.KindInteger)
	p.display = displayInteger
	p.attrsFn = func() map[string]string {
		// Whole-unit offsets: exclusiveMinimum 2 means the smallest legal
		// integer is 3.
		return p.numericAttrs(1, formatInteger)
	}
	return p
}

func formatInteger(value float64) string {
	return strconv.FormatInt(int64(value), 10)
}

func displayInteger(value any) any {
	if v, ok := value.(int64); ok {
		return strconv.FormatInt(v, 10)
	}
	return value
}
