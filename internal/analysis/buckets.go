package analysis

import "math"

// Range is a half-open interval (Lower, Upper] with a label.
type Range struct {
	Lower float64
	Upper float64
	Label string
}

// Contains reports whether v lies in (Lower, Upper].
func (r Range) Contains(v float64) bool {
	return v > r.Lower && v <= r.Upper
}

// SegmentRanges bucket customers by order count.
var SegmentRanges = []Range{
	{Lower: 0, Upper: 4, Label: "Baixa"},
	{Lower: 4, Upper: 12, Label: "Média"},
	{Lower: 12, Upper: math.Inf(1), Label: "Alta"},
}

// RiskRanges bucket customers by days since their last order.
var RiskRanges = []Range{
	{Lower: 0, Upper: 30, Label: "Baixo"},
	{Lower: 30, Upper: 60, Label: "Médio"},
	{Lower: 60, Upper: 90, Label: "Alto"},
	{Lower: 90, Upper: math.Inf(1), Label: "Crítico"},
}

// Classify returns the index of the first range containing v, or -1.
func Classify(v float64, ranges []Range) int {
	for i, r := range ranges {
		if r.Contains(v) {
			return i
		}
	}
	return -1
}
