// Package tree provides helpers for parent-pointer forests: entities that
// reference an optional parent of their own kind. Categories and comments
// both use it. Ordering among siblings is computed lazily at read time from
// a caller-supplied comparison; nothing is cached or materialized.
package tree

import (
	"sort"

	"github.com/google/uuid"
)

// Node is implemented by entities stored in a parent-pointer forest.
// Roots return a nil parent ID.
type Node interface {
	NodeID() uuid.UUID
	NodeParentID() *uuid.UUID
}

// IndexByID builds an ID lookup map over a flat node list.
func IndexByID[T Node](nodes []T) map[uuid.UUID]T {
	byID := make(map[uuid.UUID]T, len(nodes))
	for _, n := range nodes {
		byID[n.NodeID()] = n
	}
	return byID
}

// AncestorPath returns the chain from the forest root down to the node with
// the given ID, root first. If the parent chain is broken (a parent ID that
// is not in the index) or revisits a node, the walk fails closed and returns
// just the node itself. Returns nil when the ID is unknown.
func AncestorPath[T Node](byID map[uuid.UUID]T, id uuid.UUID) []T {
	node, ok := byID[id]
	if !ok {
		return nil
	}

	var chain []T
	visited := map[uuid.UUID]bool{}

	cur := node
	for {
		if visited[cur.NodeID()] {
			return []T{node}
		}
		visited[cur.NodeID()] = true
		chain = append(chain, cur)

		parentID := cur.NodeParentID()
		if parentID == nil {
			break
		}
		parent, ok := byID[*parentID]
		if !ok {
			return []T{node}
		}
		cur = parent
	}

	// Reverse in place: the walk collected leaf-to-root.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// WouldCycle reports whether re-parenting the node onto newParent would
// close a cycle, i.e. newParent is the node itself or one of its
// descendants. A nil newParent (moving to root) never cycles. Stores call
// this before any parent write; the forest invariant is enforced at write
// time, never repaired at read time.
func WouldCycle[T Node](byID map[uuid.UUID]T, nodeID uuid.UUID, newParentID *uuid.UUID) bool {
	if newParentID == nil {
		return false
	}
	if *newParentID == nodeID {
		return true
	}

	// Walk up from the proposed parent; if we reach the node, it is an
	// ancestor-of-itself situation. The visited set bounds the walk even
	// against already-corrupt data.
	visited := map[uuid.UUID]bool{}
	cur, ok := byID[*newParentID]
	for ok {
		if cur.NodeID() == nodeID {
			return true
		}
		if visited[cur.NodeID()] {
			return false
		}
		visited[cur.NodeID()] = true

		parentID := cur.NodeParentID()
		if parentID == nil {
			return false
		}
		cur, ok = byID[*parentID]
	}
	return false
}

// Children returns the direct children of parentID (nil for roots) sorted
// by the supplied sibling order.
func Children[T Node](nodes []T, parentID *uuid.UUID, less func(a, b T) bool) []T {
	var result []T
	for _, n := range nodes {
		if parentEqual(n.NodeParentID(), parentID) {
			result = append(result, n)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return less(result[i], result[j]) })
	return result
}

// Walk traverses the forest depth-first, visiting siblings in the supplied
// order and reporting each node's depth. Used to flatten a tree for display.
func Walk[T Node](nodes []T, less func(a, b T) bool, visit func(node T, depth int)) {
	walkFrom(nodes, nil, 0, less, visit)
}

func walkFrom[T Node](nodes []T, parentID *uuid.UUID, depth int, less func(a, b T) bool, visit func(node T, depth int)) {
	for _, n := range Children(nodes, parentID, less) {
		visit(n, depth)
		id := n.NodeID()
		walkFrom(nodes, &id, depth+1, less, visit)
	}
}

// parentEqual compares two *uuid.UUID for equality (both nil or same value).
func parentEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
