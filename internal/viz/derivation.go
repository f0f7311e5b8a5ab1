package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/euleretal/internal/integrators"
	"github.com/san-kum/euleretal/internal/step"
)

// RenderDerivation shows how integ derived the end state of st: the
// integrator's formula followed by the contribution trees of the last
// position and the last velocity.
func RenderDerivation(integ integrators.Integrator, st *step.Step) string {
	var b strings.Builder

	b.WriteString(Title.Render(integ.Label()) + "\n")
	b.WriteString(Subtle.Render(integ.Description()) + "\n\n")

	pos := st.LastComputedPosition()
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("s' = %v  (%v dt)", pos.S(), pos.Fraction())) + "\n")
	writeTree(&b, pos.Walk)

	vel := st.LastComputedVelocity()
	b.WriteString("\n" + HeaderStyle.Render(fmt.Sprintf("v' = %v  (%v dt) at %v", vel.V(), vel.Fraction(), vel.SamplingPosition())) + "\n")
	writeTree(&b, vel.Walk)

	return b.String()
}

func writeTree(b *strings.Builder, walk func(func(int, step.Contribution) bool)) {
	walk(func(depth int, c step.Contribution) bool {
		b.WriteString(strings.Repeat("  ", depth+1))
		b.WriteString("└ ")
		b.WriteString(KindStyle(c.Kind()).Render(describe(c)))
		b.WriteString("\n")
		return true
	})
}

func describe(c step.Contribution) string {
	var b strings.Builder
	if c.Factor() != 1 {
		fmt.Fprintf(&b, "%g·", c.Factor())
	}
	b.WriteString(c.Term().String())
	if c.Term() != step.StartPosition && c.Term() != step.BaseVelocity {
		fmt.Fprintf(&b, " [%v dt]", c.Fraction())
	}
	if v, ok := c.Vector(); ok {
		fmt.Fprintf(&b, " = (%.4g, %.4g, %.4g)", v.X, v.Y, v.Z)
	}
	fmt.Fprintf(&b, " @ %v", c.SamplingPosition())
	return b.String()
}
