package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/reloc-tree/sctree"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func main() {
	var printTree bool
	cmd := &cobra.Command{
		Use:   "tree_info [flags] <input.bin>",
		Short: "print statistics about a trained tree",
		Args:  cobra.ExactArgs(1),

		SilenceUsage: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := sctree.Load(args[0])
			if err != nil {
				return err
			}
			stats := tree.Stats()
			fmt.Println("Number of leaves:", stats.Leaves)
			fmt.Println("Number of splits:", stats.Splits)
			fmt.Println("Absent children:", stats.AbsentSlots)
			fmt.Println("Maximum height:", stats.MaxHeight)

			heights := maps.Keys(stats.LeafHeights)
			slices.Sort(heights)
			for _, h := range heights {
				fmt.Printf("  leaves at height %d: %d\n", h, stats.LeafHeights[h])
			}
			if printTree {
				fmt.Println(tree)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printTree, "print", false, "print the decision structure")
	essentials.Must(cmd.Execute())
}
