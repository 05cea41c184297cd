package network

import "github.com/keurnel/logsim/internal/names"

// evaluationOrder computes a deterministic device evaluation order for one
// propagation pass, using the same DFS visited/in-progress bookkeeping an
// include-cycle detector would use: devices with no undetermined
// combinational predecessor sort first, which lets most circuits settle in
// fewer propagation passes. Devices inside a true feedback loop are placed
// wherever the DFS first reaches them; they are still evaluated on every pass
// and the network iterates to a fixed point regardless of ordering — this is
// purely an optimisation of pass count, not a correctness requirement.
type evaluationOrder struct {
	order []names.ID
}

// buildEvaluationOrder runs a DFS topological sort over the driver graph
// (edges point from a driving device to the devices its outputs feed). An
// edge back into a device still being visited is skipped, so devices on a
// cycle are placed by the DFS like any other.
func buildEvaluationOrder(declared []names.ID, edgesFrom map[names.ID][]names.ID) evaluationOrder {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[names.ID]int, len(declared))
	var sorted []names.ID

	var visit func(id names.ID)
	visit = func(id names.ID) {
		switch state[id] {
		case done, visiting:
			return // already placed, or on a cycle — its own visit appends it
		}
		state[id] = visiting
		for _, dep := range edgesFrom[id] {
			visit(dep)
		}
		state[id] = done
		sorted = append(sorted, id)
	}

	for _, id := range declared {
		visit(id)
	}

	// Every declared device has been visited above, so this loop appends
	// nothing for them; it only guarantees that each declared device appears
	// in the order exactly once.
	seen := make(map[names.ID]bool, len(sorted))
	for _, id := range sorted {
		seen[id] = true
	}
	for _, id := range declared {
		if !seen[id] {
			sorted = append(sorted, id)
			seen[id] = true
		}
	}

	// The DFS above produces a reverse-dependency order (drivers after their
	// dependents) because it appends a node once every device it feeds is
	// done; reversing it gives "evaluate driver, then the devices waiting on
	// it" read front-to-back.
	reversed := make([]names.ID, len(sorted))
	for i, id := range sorted {
		reversed[len(sorted)-1-i] = id
	}

	return evaluationOrder{order: reversed}
}
