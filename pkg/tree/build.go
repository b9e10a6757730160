package tree

import (
	"slices"

	"go.uber.org/multierr"

	apperrors "github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/family"
)

// Build resolves records into a Tree.
//
// Persons may appear before their parent; such forward references are held
// in a pending list keyed by parent id and attached once the parent shows
// up. Relationships are attached to their partner in input order and are
// not deduplicated.
//
// Every problem found is reported, not only the first. The returned error
// carries code MALFORMED_INPUT when any reference is missing or the root is
// not unique, and INVARIANT_VIOLATION when references resolve but break the
// child-subset rule. Use multierr.Errors on its cause to list the
// individual problems.
func Build(records family.Records) (*Tree, error) {
	if err := records.Validate(); err != nil {
		return nil, err
	}

	b := &builder{
		t: &Tree{
			Nodes:   make([]Node, 0, len(records.Persons)+len(records.Relationships)),
			Root:    None,
			persons: make(map[int]Index, len(records.Persons)),
		},
		pending: make(map[int][]Index),
	}

	b.addPersons(records.Persons)
	b.addRelationships(records.Relationships)
	if b.err == nil {
		b.checkReachable()
	}

	if b.err != nil {
		return nil, b.result()
	}
	return b.t, nil
}

type builder struct {
	t       *Tree
	pending map[int][]Index // parent id -> children waiting for it
	roots   []int

	err       error
	malformed bool
}

func (b *builder) fail(code apperrors.Code, format string, args ...any) {
	if code == apperrors.ErrCodeMalformedInput {
		b.malformed = true
	}
	b.err = multierr.Append(b.err, apperrors.New(code, format, args...))
}

// result wraps the collected problems under the most severe code.
func (b *builder) result() error {
	code := apperrors.ErrCodeInvariantViolation
	if b.malformed {
		code = apperrors.ErrCodeMalformedInput
	}
	n := len(multierr.Errors(b.err))
	if n == 1 {
		return apperrors.Wrap(code, b.err, "invalid family tree")
	}
	return apperrors.Wrap(code, b.err, "invalid family tree (%d problems)", n)
}

func (b *builder) node(i Index) *Node { return &b.t.Nodes[i] }

func (b *builder) add(n Node) Index {
	b.t.Nodes = append(b.t.Nodes, n)
	return Index(len(b.t.Nodes) - 1)
}

func (b *builder) addPersons(persons []family.Person) {
	for _, p := range persons {
		if _, dup := b.t.persons[p.ID]; dup {
			b.fail(apperrors.ErrCodeMalformedInput, "duplicate person id %d", p.ID)
			continue
		}

		idx := b.add(Node{
			Kind:    KindPerson,
			Record:  p.ID,
			Name:    p.Name,
			Sex:     p.Sex,
			Parent:  None,
			Partner: None,
		})
		b.t.persons[p.ID] = idx

		if waiting, ok := b.pending[p.ID]; ok {
			for _, c := range waiting {
				b.link(idx, c)
			}
			delete(b.pending, p.ID)
		}

		if p.Parent == nil {
			b.roots = append(b.roots, p.ID)
			continue
		}
		if parent, ok := b.t.persons[*p.Parent]; ok {
			b.link(parent, idx)
		} else {
			b.pending[*p.Parent] = append(b.pending[*p.Parent], idx)
		}
	}

	if len(b.pending) > 0 {
		ids := make([]int, 0, len(b.pending))
		for id := range b.pending {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			for _, c := range b.pending[id] {
				b.fail(apperrors.ErrCodeMalformedInput, "person %d references unknown parent %d", b.node(c).Record, id)
			}
		}
	}

	switch len(b.roots) {
	case 0:
		if len(persons) == 0 {
			b.fail(apperrors.ErrCodeMalformedInput, "no persons")
		} else {
			b.fail(apperrors.ErrCodeMalformedInput, "no root: every person has a parent")
		}
	case 1:
		b.t.Root = b.t.persons[b.roots[0]]
	default:
		b.fail(apperrors.ErrCodeMalformedInput, "multiple roots: persons %v have no parent", b.roots)
	}
}

func (b *builder) link(parent, child Index) {
	p := b.node(parent)
	p.Children = append(p.Children, child)
	b.node(child).Parent = parent
}

func (b *builder) addRelationships(rels []family.Partnership) {
	// claimed maps a child to the spouse node that already lists it.
	claimed := make(map[Index]Index)

	for _, r := range rels {
		partner, ok := b.t.persons[r.Partner]
		if !ok {
			b.fail(apperrors.ErrCodeMalformedInput, "relationship %d references unknown partner %d", r.ID, r.Partner)
			continue
		}

		idx := b.add(Node{
			Kind:     KindSpouse,
			Record:   r.ID,
			Name:     r.Name,
			Sex:      r.Sex,
			Parent:   None,
			Partner:  partner,
			Since:    r.Since,
			Till:     r.Till,
			Children: make([]Index, 0, len(r.Children)),
		})

		seen := make(map[int]bool, len(r.Children))
		for _, id := range r.Children {
			child, ok := b.t.persons[id]
			if !ok {
				b.fail(apperrors.ErrCodeMalformedInput, "relationship %d references unknown child %d", r.ID, id)
				continue
			}
			if seen[id] {
				b.fail(apperrors.ErrCodeInvariantViolation, "relationship %d lists child %d twice", r.ID, id)
				continue
			}
			seen[id] = true

			if !slices.Contains(b.node(partner).Children, child) {
				b.fail(apperrors.ErrCodeInvariantViolation,
					"relationship %d lists child %d which is not a child of partner %d", r.ID, id, r.Partner)
				continue
			}
			if other, ok := claimed[child]; ok {
				b.fail(apperrors.ErrCodeInvariantViolation,
					"child %d is listed by relationships %d and %d of partner %d",
					id, b.node(other).Record, r.ID, r.Partner)
				continue
			}
			claimed[child] = idx

			n := b.node(idx)
			n.Children = append(n.Children, child)
			b.node(child).Parent = partner
		}

		p := b.node(partner)
		p.Spouses = append(p.Spouses, idx)
	}
}

// checkReachable reports persons that cannot be reached from the root.
// With a single root and every parent resolved, that only happens when
// parent references form a cycle.
func (b *builder) checkReachable() {
	seen := make([]bool, len(b.t.Nodes))
	stack := []Index{b.t.Root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[i] {
			continue
		}
		seen[i] = true
		stack = append(stack, b.node(i).Children...)
	}

	for i := range b.t.Nodes {
		n := &b.t.Nodes[i]
		if n.IsPerson() && !seen[i] {
			b.fail(apperrors.ErrCodeMalformedInput, "person %d is not reachable from the root (parent cycle)", n.Record)
		}
	}
}
