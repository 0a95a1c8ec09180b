// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package slingtest

import (
	"sort"
	"strings"
)

const (
	primaryTypeKey   = "jcr:primaryType"
	typeUnstructured = "nt:unstructured"
	typeFile         = "nt:file"
)

// Node is a snapshot of a node in the fake repository.
type Node struct {
	Path       string
	Properties map[string]string
	Content    []byte
}

type node struct {
	properties map[string]string
	content    []byte
	children   map[string]*node
}

func newNode(primaryType string) *node {
	return &node{
		properties: map[string]string{primaryTypeKey: primaryType},
		children:   map[string]*node{},
	}
}

// tree is the node hierarchy. It is not safe for concurrent use, the server
// guards it.
type tree struct {
	root *node
}

func newTree() *tree {
	return &tree{root: newNode("rep:root")}
}

func segments(path string) []string {
	segs := []string{}
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}

	return segs
}

func (t *tree) get(path string) (*node, bool) {
	n := t.root
	for _, s := range segments(path) {
		child, ok := n.children[s]
		if !ok {
			return nil, false
		}
		n = child
	}

	return n, true
}

// ensure returns the node at path, creating it and any missing parents. It
// returns true if the node at path was created.
func (t *tree) ensure(path string) (*node, bool) {
	n := t.root
	created := false
	for _, s := range segments(path) {
		child, ok := n.children[s]
		if !ok {
			child = newNode(typeUnstructured)
			n.children[s] = child
		}
		created = !ok
		n = child
	}

	return n, created
}

func (t *tree) remove(path string) bool {
	segs := segments(path)
	if len(segs) == 0 {
		return false
	}

	parent, ok := t.get(strings.Join(segs[:len(segs)-1], "/"))
	if !ok {
		return false
	}

	name := segs[len(segs)-1]
	if _, ok := parent.children[name]; !ok {
		return false
	}
	delete(parent.children, name)

	return true
}

func (n *node) props() map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range n.properties {
		out[k] = v
	}

	return out
}

// withChildren renders the properties of n and of each direct child.
func (n *node) withChildren() map[string]interface{} {
	out := n.props()
	for name, child := range n.children {
		out[name] = child.props()
	}

	return out
}

func (n *node) snapshot(path string) Node {
	props := map[string]string{}
	for k, v := range n.properties {
		props[k] = v
	}

	var content []byte
	if n.content != nil {
		content = append([]byte{}, n.content...)
	}

	return Node{Path: path, Properties: props, Content: content}
}

func (n *node) childNames() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
