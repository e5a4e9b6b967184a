package sctree

import (
	"strings"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestNodeHeight(t *testing.T) {
	root := &Node{}
	child := newChild(root)
	grandchild := newChild(child)
	mustEqualInt(t, 0, root.Height())
	mustEqualInt(t, 1, child.Height())
	mustEqualInt(t, 2, grandchild.Height())
	if grandchild.Parent() != child {
		t.Fatal("unexpected parent")
	}
}

func TestTreeStats(t *testing.T) {
	stats := testTree().Stats()
	mustEqualInt(t, 2, stats.Leaves)
	mustEqualInt(t, 2, stats.Splits)
	mustEqualInt(t, 1, stats.AbsentSlots)
	mustEqualInt(t, 2, stats.MaxHeight)
	mustEqualInt(t, 1, stats.LeafHeights[1])
	mustEqualInt(t, 1, stats.LeafHeights[2])
}

func TestTreeString(t *testing.T) {
	tree := NewTree()
	tree.Root.State = Split
	tree.Root.Feature = colFeature{Thresh: 3}
	tree.Root.Right = newChild(tree.Root)
	tree.Root.Right.State = Leaf
	tree.Root.Right.Mode = model3d.XYZ(1, 2, 3)
	s := tree.String()
	for _, part := range []string{"if {3} >= 3 {", "  return ", "  absent"} {
		if !strings.Contains(s, part) {
			t.Errorf("missing %q in:\n%s", part, s)
		}
	}
}

func mustEqualInt(t *testing.T, x, y int) {
	if x != y {
		t.Fatalf("expected %d but got %d", x, y)
	}
}
