package command

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
)

var segmentPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Leaf is a registered command together with its resolved descriptor.
type Leaf struct {
	Descriptor Descriptor
	Command    Command
}

// Group is a node of the command tree.
type Group struct {
	name        string
	description string
	children    []*Group
	index       map[string]*Group
	leaf        *Leaf
}

// Name returns the node's own segment. The root has an empty name.
func (g *Group) Name() string { return g.name }

// Description returns the description set with AddGroup.
func (g *Group) Description() string { return g.description }

func (g *Group) child(name string) *Group {
	if c, ok := g.index[name]; ok {
		return c
	}
	c := &Group{name: name, index: make(map[string]*Group)}
	g.children = append(g.children, c)
	g.index[name] = c
	return c
}

// Namespace is a top-level group of the tree.
type Namespace struct {
	Name        string
	Description string
}

// Tree is the static command registry. It is populated at startup and only
// read afterwards, so it is safe for concurrent use once built.
type Tree struct {
	root *Group
	size int
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{root: &Group{index: make(map[string]*Group)}}
}

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("empty command path")
	}
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if !segmentPattern.MatchString(s) {
			return nil, fmt.Errorf("invalid segment %q in command path %q", s, path)
		}
	}
	return segments, nil
}

// AddGroup creates the group at path if needed and sets its description.
func (t *Tree) AddGroup(path, description string) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}
	node := t.root
	for _, s := range segments {
		node = node.child(s)
	}
	node.description = description
	return nil
}

// Register adds cmd as the leaf at path.
func (t *Tree) Register(path string, cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("nil command for path %q", path)
	}
	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	desc := cmd.Descriptor()
	desc.Name = path
	if err := desc.validate(); err != nil {
		return err
	}

	node := t.root
	for _, s := range segments {
		node = node.child(s)
	}
	if node.leaf != nil {
		return fmt.Errorf("command path %q already registered", path)
	}
	node.leaf = &Leaf{Descriptor: desc, Command: cmd}
	t.size++
	return nil
}

// MustRegister is Register for startup wiring; a collision panics.
func (t *Tree) MustRegister(path string, cmd Command) {
	if err := t.Register(path, cmd); err != nil {
		panic(fmt.Sprintf("command tree: %v", err))
	}
}

// Len returns the number of registered leaves.
func (t *Tree) Len() int { return t.size }

// Resolve returns the leaf registered at path.
func (t *Tree) Resolve(path string) (Leaf, error) {
	node := t.root
	for _, s := range strings.Split(path, ".") {
		next, ok := node.index[s]
		if !ok {
			return Leaf{}, &NotFoundError{Name: path}
		}
		node = next
	}
	if node.leaf == nil {
		return Leaf{}, &NotFoundError{Name: path}
	}
	return *node.leaf, nil
}

// Walk yields every leaf in registration order, depth first. Each call
// starts a fresh traversal.
func (t *Tree) Walk() iter.Seq2[string, Leaf] {
	return func(yield func(string, Leaf) bool) {
		walkGroup(t.root, "", yield)
	}
}

func walkGroup(g *Group, prefix string, yield func(string, Leaf) bool) bool {
	if g.leaf != nil {
		if !yield(prefix, *g.leaf) {
			return false
		}
	}
	for _, c := range g.children {
		path := c.name
		if prefix != "" {
			path = prefix + "." + c.name
		}
		if !walkGroup(c, path, yield) {
			return false
		}
	}
	return true
}

// Namespaces returns the top-level groups in registration order.
func (t *Tree) Namespaces() []Namespace {
	out := make([]Namespace, 0, len(t.root.children))
	for _, c := range t.root.children {
		out = append(out, Namespace{Name: c.name, Description: c.description})
	}
	return out
}

// MatchesNamespace reports whether path lies under one of the prefixes.
// Matching is per segment: "kv.key" matches "kv.key.get" but not "kv.keys".
// An empty prefix list matches everything.
func MatchesNamespace(path string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}
