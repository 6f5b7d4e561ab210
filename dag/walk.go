package dag

// Walk visits every distinct term reachable from roots exactly once, in
// depth-first document order, following both is-a and part-of edges.
// Shared nodes are visited a single time even when referenced by several
// parents or wholes.
func Walk(roots []*Term, visit func(*Term)) {
	seen := make(map[*Term]bool)
	var walk func(*Term)
	walk = func(t *Term) {
		if seen[t] {
			return
		}
		seen[t] = true
		visit(t)
		for _, c := range t.Children {
			walk(c)
		}
		for _, c := range t.Components {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
}

// Count returns the number of distinct terms reachable from roots.
func Count(roots []*Term) int {
	n := 0
	Walk(roots, func(*Term) { n++ })
	return n
}
