package linter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cstlint/cstlint/errors"
	"go.uber.org/zap"
)

// Schedule is the execution order of the enabled rules, computed once per run.
type Schedule struct {
	// Order is the linear execution order.
	Order []string
	// Levels groups rules of equal dependency depth.
	Levels [][]string
	// Dropped lists rules disabled because a required dependency is missing.
	Dropped []string
}

// SchedulingError reports ordering constraints that contain a cycle.
type SchedulingError struct {
	// Cycle lists the rules forming the cycle, the first repeated at the end.
	Cycle []string
	// Stuck lists every rule that could not be scheduled.
	Stuck []string
}

func (e *SchedulingError) Error() string {
	return errors.ErrSchedulingCycle.Error() + errors.ErrSeparator + strings.Join(e.Cycle, " -> ")
}

func (e *SchedulingError) Unwrap() error {
	return errors.ErrSchedulingCycle
}

// BuildSchedule orders the enabled rules with Kahn's algorithm. Among rules
// that are ready at the same time, rules that do not ask to run late go
// first, then registration order decides.
func BuildSchedule(reg *Registry, enabled []string, logger *zap.Logger) (*Schedule, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	descs := make(map[string]Descriptor, len(enabled))
	for _, id := range enabled {
		d, ok := reg.Descriptor(id)
		if !ok {
			return nil, fmt.Errorf("rule %q is not registered", id)
		}
		descs[d.ID] = d
	}

	sched := &Schedule{}
	dropRequiredMissing(reg, descs, sched, logger)

	ids := make([]string, 0, len(descs))
	for id := range descs {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int { return compareReady(descs[a], descs[b]) })

	edges := make(map[string][]string, len(ids))
	indeg := make(map[string]int, len(ids))
	seen := make(map[[2]string]bool)
	addEdge := func(from, to string) {
		if from == to || seen[[2]string{from, to}] {
			return
		}
		seen[[2]string{from, to}] = true
		edges[from] = append(edges[from], to)
		indeg[to]++
	}
	for _, id := range ids {
		d := descs[id]
		for _, dep := range d.RunAfter {
			if other := reg.Canonical(dep.RuleID); hasRule(descs, other) {
				addEdge(other, id)
			}
		}
		for _, dep := range d.RunBefore {
			if other := reg.Canonical(dep.RuleID); hasRule(descs, other) {
				addEdge(id, other)
			}
		}
	}

	level := make(map[string]int, len(ids))
	ready := make([]string, 0, len(ids))
	for _, id := range ids {
		if indeg[id] == 0 {
			ready = append(ready, id)
		}
	}

	for len(ready) > 0 {
		// ready is kept sorted by (late, registration order).
		id := ready[0]
		ready = ready[1:]
		sched.Order = append(sched.Order, id)

		for _, to := range edges[id] {
			level[to] = max(level[to], level[id]+1)
			indeg[to]--
			if indeg[to] == 0 {
				i, _ := slices.BinarySearchFunc(ready, to, func(a, b string) int { return compareReady(descs[a], descs[b]) })
				ready = slices.Insert(ready, i, to)
			}
		}
	}

	if len(sched.Order) != len(ids) {
		var stuck []string
		for _, id := range ids {
			if indeg[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		return nil, &SchedulingError{Cycle: findCycle(stuck, edges), Stuck: stuck}
	}

	for _, id := range sched.Order {
		l := level[id]
		for len(sched.Levels) <= l {
			sched.Levels = append(sched.Levels, nil)
		}
		sched.Levels[l] = append(sched.Levels[l], id)
	}

	return sched, nil
}

func hasRule(descs map[string]Descriptor, id string) bool {
	_, ok := descs[id]
	return ok
}

func compareReady(a, b Descriptor) int {
	if a.Late != b.Late {
		if a.Late {
			return 1
		}
		return -1
	}
	return a.index - b.index
}

// dropRequiredMissing removes rules whose required dependencies are not
// enabled, until no more rules drop.
func dropRequiredMissing(reg *Registry, descs map[string]Descriptor, sched *Schedule, logger *zap.Logger) {
	for changed := true; changed; {
		changed = false
		for _, id := range sortedKeys(descs) {
			d := descs[id]
			for _, dep := range slices.Concat(d.RunAfter, d.RunBefore) {
				if dep.Mode != Required || hasRule(descs, reg.Canonical(dep.RuleID)) {
					continue
				}
				logger.Warn("rule disabled because a required rule is not enabled",
					zap.String("rule", id), zap.String("requires", dep.RuleID))
				delete(descs, id)
				sched.Dropped = append(sched.Dropped, id)
				changed = true
				break
			}
		}
	}
	slices.Sort(sched.Dropped)
}

func sortedKeys(m map[string]Descriptor) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// findCycle walks predecessors among the stuck rules until a rule repeats.
// Every stuck rule has a stuck predecessor, so the walk always closes a cycle.
func findCycle(stuck []string, edges map[string][]string) []string {
	if len(stuck) == 0 {
		return nil
	}
	inStuck := make(map[string]bool, len(stuck))
	for _, id := range stuck {
		inStuck[id] = true
	}
	preds := make(map[string][]string, len(stuck))
	for _, from := range stuck {
		for _, to := range edges[from] {
			if inStuck[to] {
				preds[to] = append(preds[to], from)
			}
		}
	}

	pos := map[string]int{}
	var path []string
	cur := stuck[0]
	for {
		if i, ok := pos[cur]; ok {
			cycle := slices.Clone(path[i:])
			slices.Reverse(cycle)
			return append(cycle, cycle[0])
		}
		pos[cur] = len(path)
		path = append(path, cur)
		if len(preds[cur]) == 0 {
			return stuck
		}
		cur = preds[cur][0]
	}
}
