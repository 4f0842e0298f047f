package models

// Node refers to itself.
//
//capnp:record
type Node struct {
	Value    int64
	Children []Node
	Parent   *Node
}

// Alias is not a declared type of its own.
type Alias = Node

type hidden struct{}

// Palette holds lists of a uint8-backed enum.
//
//capnp:record
type Palette struct {
	Colors []Color
	Swatch [3]Color
	Raw    []octet
}

type octet uint8
