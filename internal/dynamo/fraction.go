package dynamo

import "fmt"

// FractionOfDt is an exact rational multiple of a step's dt. The zero value
// is 0/1.
type FractionOfDt struct {
	num int
	den int
}

var (
	ZeroDt = FractionOfDt{num: 0, den: 1}
	FullDt = FractionOfDt{num: 1, den: 1}
)

func NewFraction(numerator, denominator int) FractionOfDt {
	if denominator == 0 {
		panic("dynamo: FractionOfDt with zero denominator")
	}
	if denominator < 0 {
		numerator, denominator = -numerator, -denominator
	}
	return FractionOfDt{num: numerator, den: denominator}
}

func (f FractionOfDt) Num() int { return f.num }

func (f FractionOfDt) Den() int {
	if f.den == 0 {
		return 1
	}
	return f.den
}

// Half returns n/2d. The result is not reduced.
func (f FractionOfDt) Half() FractionOfDt {
	return FractionOfDt{num: f.num, den: f.Den() * 2}
}

func (f FractionOfDt) Float() float64 {
	return float64(f.num) / float64(f.Den())
}

// Of scales dt by the fraction.
func (f FractionOfDt) Of(dt Duration) Duration {
	return Duration(f.Float() * float64(dt))
}

func (f FractionOfDt) Less(o FractionOfDt) bool {
	return f.num*o.Den() < o.num*f.Den()
}

func (f FractionOfDt) Equal(o FractionOfDt) bool {
	return f.num*o.Den() == o.num*f.Den()
}

func (f FractionOfDt) String() string {
	if f.Den() == 1 {
		return fmt.Sprintf("%d", f.num)
	}
	return fmt.Sprintf("%d/%d", f.num, f.Den())
}
