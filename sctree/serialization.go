package sctree

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

const (
	nodeTagAbsent uint8 = iota
	nodeTagLeaf
	nodeTagSplit
	nodeTagEmpty
)

// WriteTree serializes t in a little-endian binary format.
//
// Split nodes must use *DepthAdaptiveRGB features.
func WriteTree(w io.Writer, t *Tree) error {
	if err := writeNode(w, t.Root); err != nil {
		return errors.Wrap(err, "write tree")
	}
	return nil
}

func writeNode(w io.Writer, n *Node) error {
	if n == nil {
		return binary.Write(w, binary.LittleEndian, nodeTagAbsent)
	}
	switch n.State {
	case Leaf:
		if err := binary.Write(w, binary.LittleEndian, nodeTagLeaf); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, n.Mode.Array())
	case Split:
		f, ok := n.Feature.(*DepthAdaptiveRGB)
		if !ok {
			return errors.Errorf("unsupported feature type: %T", n.Feature)
		}
		if err := binary.Write(w, binary.LittleEndian, nodeTagSplit); err != nil {
			return err
		}
		err := binary.Write(w, binary.LittleEndian, []float64{
			f.Offset1[0],
			f.Offset1[1],
			f.Offset2[0],
			f.Offset2[1],
			f.Thresh,
		})
		if err != nil {
			return err
		}
		err = binary.Write(w, binary.LittleEndian, []int32{
			int32(f.Channel1),
			int32(f.Channel2),
		})
		if err != nil {
			return err
		}
		if err := writeNode(w, n.Left); err != nil {
			return err
		}
		return writeNode(w, n.Right)
	default:
		return binary.Write(w, binary.LittleEndian, []uint8{nodeTagEmpty, uint8(n.State)})
	}
}

// ReadTree reads the output written by WriteTree.
//
// The resulting tree counts as trained.
func ReadTree(r io.Reader) (*Tree, error) {
	root, err := readNode(r, nil)
	if err != nil {
		return nil, errors.Wrap(err, "read tree")
	}
	if root == nil {
		return nil, errors.New("read tree: missing root")
	}
	return &Tree{Root: root, trained: true}, nil
}

func readNode(r io.Reader, parent *Node) (*Node, error) {
	var tag uint8
	if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
		return nil, err
	}
	switch tag {
	case nodeTagAbsent:
		return nil, nil
	case nodeTagLeaf:
		var mode [3]float64
		if err := binary.Read(r, binary.LittleEndian, &mode); err != nil {
			return nil, err
		}
		return &Node{
			State:  Leaf,
			Mode:   model3d.NewCoord3DArray(mode),
			parent: parent,
		}, nil
	case nodeTagSplit:
		var params [5]float64
		if err := binary.Read(r, binary.LittleEndian, &params); err != nil {
			return nil, err
		}
		var channels [2]int32
		if err := binary.Read(r, binary.LittleEndian, &channels); err != nil {
			return nil, err
		}
		node := &Node{
			State: Split,
			Feature: &DepthAdaptiveRGB{
				Offset1:  [2]float64{params[0], params[1]},
				Offset2:  [2]float64{params[2], params[3]},
				Thresh:   params[4],
				Channel1: int(channels[0]),
				Channel2: int(channels[1]),
			},
			parent: parent,
		}
		var err error
		if node.Left, err = readNode(r, node); err != nil {
			return nil, err
		}
		if node.Right, err = readNode(r, node); err != nil {
			return nil, err
		}
		return node, nil
	case nodeTagEmpty:
		var state uint8
		if err := binary.Read(r, binary.LittleEndian, &state); err != nil {
			return nil, err
		}
		if NodeState(state) != Unprocessed && NodeState(state) != Discarded {
			return nil, errors.Errorf("invalid empty node state: %d", state)
		}
		return &Node{State: NodeState(state), parent: parent}, nil
	default:
		return nil, errors.Errorf("invalid node tag: %d", tag)
	}
}

// Save writes a tree to a file.
func Save(path string, t *Tree) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save tree")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := WriteTree(w, t); err != nil {
		return errors.Wrap(err, "save tree")
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "save tree")
	}
	return errors.Wrap(f.Close(), "save tree")
}

// Load reads a tree from a file written by Save.
func Load(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "load tree")
	}
	defer f.Close()
	t, err := ReadTree(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrap(err, "load tree")
	}
	return t, nil
}
