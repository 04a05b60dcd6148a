package dependency

import (
	"fmt"
	"strings"
)

// SourceLocation pins a declaration to the call site that registered it,
// for use in declaration-error messages.
type SourceLocation struct {
	File string
	Line int
}

func (s SourceLocation) String() string {
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// DeclNameConflict reports that two or more declarations share a name. At
// holds the rendered location (D.String()) of each conflicting declaration.
type DeclNameConflict struct {
	Name string
	At   []string
}

func (e *DeclNameConflict) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "multiple components have same name %q\n", e.Name)
	for _, loc := range e.At {
		fmt.Fprintf(&b, "\tused at %s\n", loc)
	}
	return b.String()
}

// userRef names a declaration that depends on a name no declaration owns.
type userRef struct {
	Name string
	At   string
}

// UndeclaredDependency reports that a dependency references a name with no
// matching declaration, listing every declaration that referenced it.
type UndeclaredDependency struct {
	DepName string
	UsedBy  []userRef
}

func (e *UndeclaredDependency) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "undeclared component used as a dependency: %q\n", e.DepName)
	for _, u := range e.UsedBy {
		fmt.Fprintf(&b, "\tused by %q at %s\n", u.Name, u.At)
	}
	return b.String()
}

// CycleError reports that the dependency graph contains a cycle, detected
// because the dry run could not bring every task to Success.
type CycleError struct {
	Stuck []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency graph contains a cycle, tasks never became ready: %s", strings.Join(e.Stuck, ", "))
}
