package sctree

import (
	"fmt"
	"strings"

	"github.com/unixpickle/model3d/model3d"
)

// A NodeState records what training decided for a node.
type NodeState int

const (
	Unprocessed NodeState = iota
	Leaf
	Split
	Discarded
)

func (n NodeState) String() string {
	switch n {
	case Unprocessed:
		return "unprocessed"
	case Leaf:
		return "leaf"
	case Split:
		return "split"
	case Discarded:
		return "discarded"
	}
	panic(fmt.Sprintf("unknown node state: %d", int(n)))
}

// A Node is either a leaf predicting Mode, or a split node routing samples
// with Feature.
//
// A node owns its children. A nil Left or Right marks an absent child, which
// happens when the child received no samples during training and was
// discarded.
type Node struct {
	State   NodeState
	Feature Feature
	Left    *Node
	Right   *Node
	Mode    model3d.Coord3D

	// parent is only used to compute heights.
	parent *Node
}

// newChild creates an unprocessed node linked to its parent.
func newChild(parent *Node) *Node {
	return &Node{parent: parent}
}

func (n *Node) IsLeaf() bool {
	return n.State == Leaf
}

func (n *Node) IsSplit() bool {
	return n.State == Split
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Height returns the number of edges between n and the root.
func (n *Node) Height() int {
	var h int
	for p := n.parent; p != nil; p = p.parent {
		h++
	}
	return h
}

// Walk calls f on every node of the subtree in pre-order.
func (n *Node) Walk(f func(*Node)) {
	f(n)
	for _, child := range [2]*Node{n.Left, n.Right} {
		if child != nil {
			child.Walk(f)
		}
	}
}

func (n *Node) String() string {
	switch n.State {
	case Leaf:
		return fmt.Sprintf("return %v", n.Mode)
	case Split:
		return fmt.Sprintf(
			"if %v >= %v {\n%s\n} else {\n%s\n}",
			n.Feature,
			n.Feature.Threshold(),
			indentText(childString(n.Right)),
			indentText(childString(n.Left)),
		)
	}
	return n.State.String()
}

func childString(n *Node) string {
	if n == nil {
		return "absent"
	}
	return n.String()
}

func indentText(text string) string {
	lines := strings.Split(text, "\n")
	for i, x := range lines {
		lines[i] = "  " + x
	}
	return strings.Join(lines, "\n")
}

// A Tree is a single regression tree of a forest. Its lifetime is the
// lifetime of the whole node graph.
type Tree struct {
	Root *Node

	trained bool
}

// NewTree creates a tree with an empty root, ready to be trained.
func NewTree() *Tree {
	return &Tree{Root: &Node{}}
}

// Trained reports whether the tree has been trained or loaded.
func (t *Tree) Trained() bool {
	return t.trained
}

// TreeStats summarizes the structure of a tree.
type TreeStats struct {
	Leaves      int
	Splits      int
	AbsentSlots int
	MaxHeight   int
	LeafHeights map[int]int
}

// Stats counts the nodes of the tree.
func (t *Tree) Stats() TreeStats {
	res := TreeStats{LeafHeights: map[int]int{}}
	t.Root.Walk(func(n *Node) {
		h := n.Height()
		res.MaxHeight = max(res.MaxHeight, h)
		switch n.State {
		case Leaf:
			res.Leaves++
			res.LeafHeights[h]++
		case Split:
			res.Splits++
			for _, child := range [2]*Node{n.Left, n.Right} {
				if child == nil {
					res.AbsentSlots++
				}
			}
		}
	})
	return res
}

func (t *Tree) String() string {
	return t.Root.String()
}
