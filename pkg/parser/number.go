package parser

import (
	"strconv"

	"github.com/goliatone/go-formbind/pkg/field"
)

// The attribute bag has no native exclusive-bound form, so exclusive limits
// translate into inclusive min/max offset by the kind's granularity: a 0.1
// epsilon for numbers, whole units for integers.
const numberEpsilon = 0.1

func newNumber(t *Tree, opts Options, parent int) *Scalar {
	p := newScalar(t, opts, parent, field.KindNumber)
	p.display = displayNumber
	p.attrsFn = func() map[string]string {
		return p.numericAttrs(numberEpsilon, formatNumber)
	}
	return p
}

// numericAttrs extends the scalar bag with numeric bounds: minimum/maximum
// map to min/max, multipleOf to step, and exclusive bounds shift inward by
// the supplied offset.
func (p *Scalar) numericAttrs(offset float64, format func(float64) string) map[string]string {
	attrs := p.scalarAttrs()
	if s := p.sch; s != nil {
		if value, exclusive, ok := s.MinimumBound(); ok {
			if exclusive {
				value += offset
			}
			attrs[field.AttrMin] = format(value)
		}
		if value, exclusive, ok := s.MaximumBound(); ok {
			if exclusive {
				value -= offset
			}
			attrs[field.AttrMax] = format(value)
		}
		if s.MultipleOf != nil {
			attrs[field.AttrStep] = format(*s.MultipleOf)
		}
	}
	return attrs
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func displayNumber(value any) any {
	if v, ok := value.(float64); ok {
		return formatNumber(v)
	}
	return value
}
