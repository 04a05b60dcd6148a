package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// label is a tiny fmt.Stringer used as the declaration payload in tests,
// standing in for a real SourceLocation.
type label string

func (l label) String() string { return string(l) }

func TestBuilder_DetectsUndeclaredDepsAndNameConflicts(t *testing.T) {
	b := NewBuilder[label]()
	b.DeclareNode("1", "a", []string{"c"})
	b.DeclareNode("2", "a", []string{"c"})
	b.DeclareNode("3", "b", []string{"d"})
	b.DeclareNode("4", "e", []string{"d"})

	table, errs := b.Build()
	require.Nil(t, table)
	require.Len(t, errs, 3)

	conflict, ok := errs[0].(*DeclNameConflict)
	require.True(t, ok)
	assert.Equal(t, "a", conflict.Name)
	assert.Equal(t, []string{"1", "2"}, conflict.At)

	undeclaredC, ok := errs[1].(*UndeclaredDependency)
	require.True(t, ok)
	assert.Equal(t, "c", undeclaredC.DepName)
	assert.Equal(t, []userRef{{Name: "a", At: "1"}, {Name: "a", At: "2"}}, undeclaredC.UsedBy)

	undeclaredD, ok := errs[2].(*UndeclaredDependency)
	require.True(t, ok)
	assert.Equal(t, "d", undeclaredD.DepName)
	assert.Equal(t, []userRef{{Name: "b", At: "3"}, {Name: "e", At: "4"}}, undeclaredD.UsedBy)
}

func TestBuilder_ErrorsRenderReadableText(t *testing.T) {
	conflict := &DeclNameConflict{Name: "a", At: []string{"1", "2"}}
	assert.Equal(t, "multiple components have same name \"a\"\n\tused at 1\n\tused at 2\n", conflict.Error())

	undeclared := &UndeclaredDependency{
		DepName: "c",
		UsedBy:  []userRef{{Name: "a", At: "1"}, {Name: "a", At: "2"}},
	}
	assert.Equal(t, "undeclared component used as a dependency: \"c\"\n\tused by \"a\" at 1\n\tused by \"a\" at 2\n", undeclared.Error())
}

func TestBuilder_BuildRoundTrip(t *testing.T) {
	b := NewBuilder[label]()
	b.DeclareNode("loc-a", "a", nil)
	b.DeclareNode("loc-b", "b", []string{"a"})
	b.DeclareNode("loc-c", "c", []string{"b"})

	table, errs := b.Build()
	require.Empty(t, errs)
	require.NotNil(t, table)
	require.Equal(t, 3, table.Len())

	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name, table.Name(i))
		assert.Equal(t, label("loc-"+name), table.Decl(i))
	}
}

func TestDepTable_DependsOnReflectsDeclaredEdges(t *testing.T) {
	b := NewBuilder[label]()
	b.DeclareNode("", "a", nil)
	b.DeclareNode("", "b", nil)
	b.DeclareNode("", "c", []string{"b", "a"})

	table, errs := b.Build()
	require.Empty(t, errs)

	for i := 0; i < table.Len(); i++ {
		if table.Name(i) == "c" {
			assert.Equal(t, []string{"a", "b"}, table.DependsOn(i))
		} else {
			assert.Empty(t, table.DependsOn(i))
		}
	}
}

func TestBuilder_LinearGraphDryRunOrder(t *testing.T) {
	b := NewBuilder[label]()
	b.DeclareNode("", "c", []string{"b"})
	b.DeclareNode("", "a", nil)
	b.DeclareNode("", "b", []string{"a"})

	table, errs := b.Build()
	require.Empty(t, errs)

	order, err := table.DryRun()
	require.NoError(t, err)

	names := make([]string, len(order))
	for i, task := range order {
		names[i] = table.Name(int(task))
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestBuilder_DiamondDryRunSortsEachRound(t *testing.T) {
	b := NewBuilder[label]()
	b.DeclareNode("", "a", nil)
	b.DeclareNode("", "c", []string{"a"})
	b.DeclareNode("", "b", []string{"a"})
	b.DeclareNode("", "d", []string{"b", "c"})

	table, errs := b.Build()
	require.Empty(t, errs)

	order, err := table.DryRun()
	require.NoError(t, err)

	names := make([]string, len(order))
	for i, task := range order {
		names[i] = table.Name(int(task))
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
}

func TestBuilder_CycleDetected(t *testing.T) {
	b := NewBuilder[label]()
	b.DeclareNode("", "a", []string{"b"})
	b.DeclareNode("", "b", []string{"a"})

	table, errs := b.Build()
	require.Empty(t, errs)

	order, err := table.DryRun()
	assert.Nil(t, order)
	require.Error(t, err)
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"a", "b"}, cycleErr.Stuck)
}

func TestBuilder_EmptyGraph(t *testing.T) {
	b := NewBuilder[label]()
	table, errs := b.Build()
	require.Empty(t, errs)
	assert.Equal(t, 0, table.Len())

	order, err := table.DryRun()
	require.NoError(t, err)
	assert.Empty(t, order)
}
