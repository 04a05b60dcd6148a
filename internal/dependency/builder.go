package dependency

import (
	"fmt"
	"sort"
)

// decl is a single registered declaration: a name plus an opaque payload
// (typically the caller's source location) used only for error reporting
// and display.
type decl[D fmt.Stringer] struct {
	name string
	at   D
}

type unresolvedUsage struct {
	declaredBy   []int
	dependedOnBy []int
}

// Builder accumulates declarations and their dependency edges, then
// validates and freezes them into a DepTable. It mirrors a two-pass
// resolution: names are collected as declarations arrive, and every name
// reference (as a declaration or as a dependency) is resolved once at
// Build time, so multiple errors can be reported together instead of
// failing on the first one.
type Builder[D fmt.Stringer] struct {
	decls  []decl[D]
	usages map[string]*unresolvedUsage
	order  []string // first-seen order, for deterministic error reporting
}

// NewBuilder returns an empty Builder.
func NewBuilder[D fmt.Stringer]() *Builder[D] {
	return &Builder[D]{usages: make(map[string]*unresolvedUsage)}
}

// DeclareNode registers a declaration named name, depending on deps. at is
// an opaque payload (typically a SourceLocation) attached for error
// reporting.
func (b *Builder[D]) DeclareNode(at D, name string, deps []string) {
	declIdx := len(b.decls)
	b.decls = append(b.decls, decl[D]{name: name, at: at})

	b.usage(name).declaredBy = append(b.usage(name).declaredBy, declIdx)
	for _, d := range deps {
		b.usage(d).dependedOnBy = append(b.usage(d).dependedOnBy, declIdx)
	}
}

func (b *Builder[D]) usage(name string) *unresolvedUsage {
	u, ok := b.usages[name]
	if !ok {
		u = &unresolvedUsage{}
		b.usages[name] = u
		b.order = append(b.order, name)
	}
	return u
}

type resolvedUsage struct {
	decl         int
	dependedOnBy []int
}

// Build validates every declaration and dependency reference and, if there
// are no errors, freezes the result into a DepTable. All DeclNameConflict
// and UndeclaredDependency errors are collected and returned together;
// Build never stops at the first error.
func (b *Builder[D]) Build() (*DepTable[D], []error) {
	var errs []error
	resolved := make(map[string]resolvedUsage, len(b.order))

	for _, name := range b.order {
		u := b.usages[name]
		switch {
		case len(u.declaredBy) > 1:
			locs := make([]string, 0, len(u.declaredBy))
			for _, idx := range u.declaredBy {
				locs = append(locs, b.decls[idx].at.String())
			}
			errs = append(errs, &DeclNameConflict{Name: name, At: locs})
		case len(u.declaredBy) == 0:
			refs := make([]userRef, 0, len(u.dependedOnBy))
			for _, idx := range u.dependedOnBy {
				refs = append(refs, userRef{Name: b.decls[idx].name, At: b.decls[idx].at.String()})
			}
			errs = append(errs, &UndeclaredDependency{DepName: name, UsedBy: refs})
		default:
			resolved[name] = resolvedUsage{decl: u.declaredBy[0], dependedOnBy: append([]int(nil), u.dependedOnBy...)}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	dependsOn := make([][]string, len(b.decls))
	for name, usage := range resolved {
		for _, declIdx := range usage.dependedOnBy {
			dependsOn[declIdx] = append(dependsOn[declIdx], name)
		}
	}
	for _, deps := range dependsOn {
		sort.Strings(deps)
	}

	return &DepTable[D]{decls: b.decls, usages: resolved, order: b.order, dependsOn: dependsOn}, nil
}

// DepTable is the immutable, validated view of a set of declarations,
// produced by Builder.Build. It can construct a runtime TaskList.
type DepTable[D fmt.Stringer] struct {
	decls     []decl[D]
	usages    map[string]resolvedUsage
	order     []string
	dependsOn [][]string
}

// Name returns the name of declaration id.
func (t *DepTable[D]) Name(id int) string {
	return t.decls[id].name
}

// DependsOn returns the names declaration id depends on, sorted
// lexicographically.
func (t *DepTable[D]) DependsOn(id int) []string {
	return t.dependsOn[id]
}

// Decl returns the opaque payload of declaration id.
func (t *DepTable[D]) Decl(id int) D {
	return t.decls[id].at
}

// Len returns the number of declarations.
func (t *DepTable[D]) Len() int {
	return len(t.decls)
}

// MakeTaskList builds the mutable scheduler for this table: declaration
// index i becomes Task(i), and dependency edges are derived from the
// recorded usages.
func (t *DepTable[D]) MakeTaskList() *TaskList {
	deps := make([][]Task, len(t.decls))
	for _, name := range t.order {
		usage, ok := t.usages[name]
		if !ok {
			continue
		}
		for _, unblocked := range usage.dependedOnBy {
			deps[unblocked] = append(deps[unblocked], Task(usage.decl))
		}
	}
	return NewTaskList(deps)
}

// DryRun simulates a full run assuming every task succeeds immediately, to
// detect cycles and to compute a deterministic display order. At each
// round the ready tasks are sorted lexicographically by name before being
// marked Success, so the returned order is stable across runs even though
// the real scheduler may execute tasks in a different order. If the dry
// run cannot bring every task to Success, the graph contains a cycle and
// the returned error is a *CycleError naming the tasks that never became
// ready.
func (t *DepTable[D]) DryRun() ([]Task, error) {
	list := t.MakeTaskList()
	var order []Task
	for {
		ready := list.PopReady()
		if len(ready) == 0 {
			break
		}
		sort.Slice(ready, func(i, j int) bool {
			return t.Name(int(ready[i])) < t.Name(int(ready[j]))
		})
		order = append(order, ready...)
		for _, task := range ready {
			list.SetSuccess(task)
		}
	}
	if list.AllSuccess() {
		return order, nil
	}
	var stuck []string
	for i := 0; i < list.Len(); i++ {
		if list.Status(Task(i)) != Success {
			stuck = append(stuck, t.Name(i))
		}
	}
	return nil, &CycleError{Stuck: stuck}
}
