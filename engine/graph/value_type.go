// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package graph

import "fmt"

// TypeKind discriminates the closed set of value types.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindFloat
	KindArray
	KindNone
)

// Type describes the shape class of a Value: a scalar kind or an
// array of an inner type. None marks a failed unification.
type Type struct {
	kind TypeKind
	elem *Type
}

// IntType returns the integer scalar type.
func IntType() Type { return Type{kind: KindInt} }

// FloatType returns the float scalar type.
func FloatType() Type { return Type{kind: KindFloat} }

// NoneType returns the unification-failure type.
func NoneType() Type { return Type{kind: KindNone} }

// ArrayType returns an array type with the given element type.
func ArrayType(elem Type) Type {
	e := elem
	return Type{kind: KindArray, elem: &e}
}

// BufferType is the type every sample buffer carries: [[Float]].
func BufferType() Type { return ArrayType(ArrayType(FloatType())) }

// Kind returns the type's discriminator.
func (t Type) Kind() TypeKind { return t.kind }

// Elem returns the element type of an array type; NoneType otherwise.
func (t Type) Elem() Type {
	if t.kind != KindArray || t.elem == nil {
		return NoneType()
	}
	return *t.elem
}

// Depth is 0 for scalar kinds and 1 + element depth for arrays.
func (t Type) Depth() int {
	if t.kind == KindArray && t.elem != nil {
		return 1 + t.elem.Depth()
	}
	return 0
}

// Equal reports structural equality.
func (t Type) Equal(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	if t.kind == KindArray {
		return t.Elem().Equal(other.Elem())
	}
	return true
}

func (t Type) String() string {
	switch t.kind {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindArray:
		return fmt.Sprintf("[%s]", t.Elem())
	default:
		return "None"
	}
}

// Unify combines two types: equal types yield themselves, Int with
// Float widens to Float, arrays unify element-wise, and otherwise the
// deeper type wins. Equal depths with incompatible kinds give None.
func Unify(left, right Type) Type {
	if left.Equal(right) {
		return left
	}

	if (left.kind == KindInt && right.kind == KindFloat) ||
		(left.kind == KindFloat && right.kind == KindInt) {
		return FloatType()
	}
	if left.kind == KindArray && right.kind == KindArray {
		return ArrayType(Unify(left.Elem(), right.Elem()))
	}

	switch {
	case left.Depth() > right.Depth():
		return left
	case right.Depth() > left.Depth():
		return right
	default:
		return NoneType()
	}
}
