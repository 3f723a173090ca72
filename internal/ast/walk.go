package ast

// Walk traverses the tree rooted at n in depth-first preorder,
// calling fn for every node. Returning false from fn prunes the
// node's subtree.
func Walk(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// FindAll collects every node of concrete type T in the tree rooted
// at root, in preorder.
func FindAll[T Node](root Node) []T {
	var out []T
	Walk(root, func(n Node) bool {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}

// Count returns the number of nodes of concrete type T under root.
func Count[T Node](root Node) int {
	count := 0
	Walk(root, func(n Node) bool {
		if _, ok := n.(T); ok {
			count++
		}
		return true
	})
	return count
}
