// Package fieldrules keeps a lead record internally consistent.
//
// Many lead fields only make sense for certain values of another field: a
// conversion date is meaningless unless the candidate converted, a second
// passport is meaningless with a single nationality. Each dependency is a
// Rule: when the governing field's value no longer justifies the dependents,
// the dependents are blanked. Rules run as one linear pass in declared order
// over a copy of the input; a rule can rely on blanks produced by an earlier
// rule in the same pass, and no rule ever un-blanks a field. The pass is
// idempotent.
//
// The package also computes the two derived labels (recruitment cohort and
// recruitment track) from enlistment data.
package fieldrules

// Rule blanks Dependents unless Keep holds for the governing field's value.
type Rule struct {
	Governing  string
	Keep       func(value string) bool
	Dependents []string
}

// Apply runs rules over rec in declared order and returns a new map.
// The input is never mutated.
func Apply(rules []Rule, rec map[string]string) map[string]string {
	out := make(map[string]string, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	for _, r := range rules {
		if r.Keep(out[r.Governing]) {
			continue
		}
		for _, dep := range r.Dependents {
			out[dep] = ""
		}
	}
	return out
}

// equals returns a Keep predicate matching exactly one value.
func equals(want string) func(string) bool {
	return func(v string) bool { return v == want }
}

// oneOf returns a Keep predicate matching any of the given values.
func oneOf(want ...string) func(string) bool {
	set := make(map[string]struct{}, len(want))
	for _, w := range want {
		set[w] = struct{}{}
	}
	return func(v string) bool {
		_, ok := set[v]
		return ok
	}
}

// noneOf returns a Keep predicate rejecting any of the given values.
func noneOf(reject ...string) func(string) bool {
	in := oneOf(reject...)
	return func(v string) bool { return !in(v) }
}
