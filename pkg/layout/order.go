package layout

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/treeprint/pkg/tree"
)

// ComparePartners orders two spouse nodes of the same person for display.
// The last spouse in display order is the current partner.
//
//   - both ended: earlier end date first
//   - one ended: the ongoing one sorts after
//   - neither ended: lower relationship id first
func ComparePartners(a, b *tree.Node) int {
	switch {
	case a.Till != "" && b.Till != "":
		// YYYY-MM-DD, so string order is date order.
		return strings.Compare(a.Till, b.Till)
	case a.Till != "":
		return -1
	case b.Till != "":
		return 1
	}
	return cmp.Compare(a.Record, b.Record)
}

// SortedSpouses returns the spouses of person i in display order. Ties keep
// input order, so repeated calls agree.
func SortedSpouses(t *tree.Tree, i tree.Index) []tree.Index {
	out := slices.Clone(t.Node(i).Spouses)
	slices.SortStableFunc(out, func(a, b tree.Index) int {
		return ComparePartners(t.Node(a), t.Node(b))
	})
	return out
}

// CurrentSpouse returns the last spouse of person i in display order.
func CurrentSpouse(t *tree.Tree, i tree.Index) (tree.Index, bool) {
	s := SortedSpouses(t, i)
	if len(s) == 0 {
		return tree.None, false
	}
	return s[len(s)-1], true
}

// partition splits the children of person i into one group per spouse, in
// the order of spouses, plus the children no spouse lists. Each group keeps
// the person's child order.
func partition(t *tree.Tree, i tree.Index, spouses []tree.Index) (groups [][]tree.Index, solo []tree.Index) {
	n := t.Node(i)
	owner := make(map[tree.Index]tree.Index, len(n.Children))
	for _, s := range spouses {
		for _, c := range t.Node(s).Children {
			owner[c] = s
		}
	}

	groups = make([][]tree.Index, len(spouses))
	for _, c := range n.Children {
		s, ok := owner[c]
		if !ok {
			solo = append(solo, c)
			continue
		}
		k := slices.Index(spouses, s)
		groups[k] = append(groups[k], c)
	}
	return groups, solo
}

// ChildOrder returns the children of node i in placement order: for a
// person, the children of each spouse in display order followed by the
// children of no spouse; for a spouse, its own child list.
func ChildOrder(t *tree.Tree, i tree.Index) []tree.Index {
	n := t.Node(i)
	if n.IsSpouse() {
		return n.Children
	}
	groups, solo := partition(t, i, SortedSpouses(t, i))
	out := make([]tree.Index, 0, len(n.Children))
	for _, g := range groups {
		out = append(out, g...)
	}
	return append(out, solo...)
}
