// Package step records how one integration step derives its end state.
//
// A [Step] is an append-only arena of positions, velocities and
// accelerations. Integrators never write to it directly; they go through a
// [Builder], which evaluates each weighted sum, appends the result together
// with the terms that produced it and hands back a typed handle.
//
// # Provenance
//
// Every derived record keeps its contribution list. [ComputedPosition] and
// [ComputedVelocity] expose that list as an iter.Seq of [Contribution]
// values, and each contribution can be expanded one level deeper, so a
// renderer can reconstruct the full derivation graph:
//
//	st.LastComputedPosition().Walk(func(depth int, c step.Contribution) bool {
//		fmt.Printf("%*s%v from %v\n", depth*2, "", c.Term(), c.Kind())
//		return true
//	})
//
// Start and end conditions are boundary records with empty contribution
// lists, which terminates the recursion.
package step
