// Package ckey implements the composite key wrapper from spec.md §4.7: a
// 96-byte key made of three blake3-256 hashes (entity, namespace,
// attribute), plus EntityRange/NSRange helpers for scanning all of an
// entity's (or entity+namespace's) attributes. Ported from the reference
// implementation's ct-storage crate (src/key.rs).
package ckey

import (
	"bytes"
	"fmt"

	"lukechampine.com/blake3"

	"github.com/prollykv/prollytree/internal/node"
	"github.com/prollykv/prollytree/internal/pkey"
)

// componentLen is the fixed length of each of a Key's three components.
const componentLen = 32

var (
	minComponent = bytes.Repeat([]byte{0x00}, componentLen)
	maxComponent = bytes.Repeat([]byte{0xff}, componentLen)
)

// Key is a 96-byte composite key: blake3(entity) || blake3(namespace) ||
// blake3(attribute). It implements pkey.Key, so it can be used directly
// with package tree.
type Key struct {
	entity [componentLen]byte
	ns     [componentLen]byte
	attr   [componentLen]byte
}

// New builds a Key by hashing the three UTF-8 components.
func New(entity, ns, attr string) Key {
	return FromComponents(hash([]byte(entity)), hash([]byte(ns)), hash([]byte(attr)))
}

// FromComponents builds a Key from already-hashed 32-byte components.
func FromComponents(entity, ns, attr [componentLen]byte) Key {
	return Key{entity: entity, ns: ns, attr: attr}
}

// FromSlices builds a Key from 32-byte component slices, failing if any
// is not exactly 32 bytes.
func FromSlices(entity, ns, attr []byte) (Key, error) {
	if len(entity) != componentLen || len(ns) != componentLen || len(attr) != componentLen {
		return Key{}, fmt.Errorf("ckey: key components must be %d bytes", componentLen)
	}
	var k Key
	copy(k.entity[:], entity)
	copy(k.ns[:], ns)
	copy(k.attr[:], attr)
	return k, nil
}

// Entity returns the key's entity component.
func (k Key) Entity() [componentLen]byte { return k.entity }

// NS returns the key's namespace component.
func (k Key) NS() [componentLen]byte { return k.ns }

// Attr returns the key's attribute component.
func (k Key) Attr() [componentLen]byte { return k.attr }

// Bytes implements pkey.Key: the 96-byte concatenation entity||ns||attr.
func (k Key) Bytes() []byte {
	out := make([]byte, 0, componentLen*3)
	out = append(out, k.entity[:]...)
	out = append(out, k.ns[:]...)
	out = append(out, k.attr[:]...)
	return out
}

// Components implements pkey.Key: the three components, in order, so the
// columnar encoder can dictionary-dedupe them independently.
func (k Key) Components() [][]byte {
	return [][]byte{
		append([]byte(nil), k.entity[:]...),
		append([]byte(nil), k.ns[:]...),
		append([]byte(nil), k.attr[:]...),
	}
}

// EntityRange returns a Range over every key sharing k's entity
// component, regardless of namespace or attribute.
func (k Key) EntityRange() node.Range {
	return EntityRangeFromComponent(k.entity)
}

// EntityRangeFromComponent returns a Range over every key whose entity
// component equals entity.
func EntityRangeFromComponent(entity [componentLen]byte) node.Range {
	start := FromComponents(entity, toArray(minComponent), toArray(minComponent))
	end := FromComponents(entity, toArray(maxComponent), toArray(maxComponent))
	return node.Between(start, end)
}

// NSRange returns a Range over every key sharing k's entity and
// namespace components, regardless of attribute.
func (k Key) NSRange() node.Range {
	return NSRangeFromComponents(k.entity, k.ns)
}

// NSRangeFromComponents returns a Range over every key whose entity and
// namespace components equal entity and ns.
func NSRangeFromComponents(entity, ns [componentLen]byte) node.Range {
	start := FromComponents(entity, ns, toArray(minComponent))
	end := FromComponents(entity, ns, toArray(maxComponent))
	return node.Between(start, end)
}

var _ pkey.Key = Key{}

func toArray(b []byte) [componentLen]byte {
	var a [componentLen]byte
	copy(a[:], b)
	return a
}

func hash(input []byte) [componentLen]byte {
	return blake3.Sum256(input)
}
