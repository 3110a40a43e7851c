// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package graph

import (
	"github.com/rapidaai/audio-engine/engine/audio"
)

// Value is the quantity that flows over graph ports: a scalar float
// or an ordered array of Values. A sample buffer is the depth-2 case
// with outer = channels and inner = samples.
type Value struct {
	isArray bool
	scalar  audio.Sample
	items   []Value
}

// Float wraps a scalar sample.
func Float(s audio.Sample) Value {
	return Value{scalar: s}
}

// Array wraps an ordered sequence of Values.
func Array(items ...Value) Value {
	return Value{isArray: true, items: items}
}

// ArrayOf wraps an existing slice without copying.
func ArrayOf(items []Value) Value {
	return Value{isArray: true, items: items}
}

// IsArray reports whether the value is an array.
func (v Value) IsArray() bool { return v.isArray }

// Scalar returns the contained sample; zero for arrays.
func (v Value) Scalar() audio.Sample {
	if v.isArray {
		return 0
	}
	return v.scalar
}

// Items returns the contained values; nil for scalars.
func (v Value) Items() []Value {
	if !v.isArray {
		return nil
	}
	return v.items
}

// Len returns the outer dimension of an array, 0 for scalars.
func (v Value) Len() int { return len(v.items) }

// Type returns Float for scalars and Array(inner) for arrays; an
// empty array defaults to Array(Float).
func (v Value) Type() Type {
	if !v.isArray {
		return FloatType()
	}
	if len(v.items) == 0 {
		return ArrayType(FloatType())
	}
	return ArrayType(v.items[0].Type())
}

// Shape returns the ordered dimension sizes; a scalar has no
// dimensions. Only the first child is consulted per level — siblings
// share a shape by construction.
func (v Value) Shape() []int {
	if !v.isArray {
		return []int{}
	}
	shape := []int{len(v.items)}
	if len(v.items) > 0 {
		shape = append(shape, v.items[0].Shape()...)
	}
	return shape
}

// Equal reports deep equality of values.
func (v Value) Equal(other Value) bool {
	if v.isArray != other.isArray {
		return false
	}
	if !v.isArray {
		return v.scalar == other.scalar
	}
	if len(v.items) != len(other.items) {
		return false
	}
	for i := range v.items {
		if !v.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}

// Clone deep-copies the value.
func (v Value) Clone() Value {
	if !v.isArray {
		return v
	}
	items := make([]Value, len(v.items))
	for i := range v.items {
		items[i] = v.items[i].Clone()
	}
	return ArrayOf(items)
}

// ApplyFn maps f over every leaf, preserving shape.
func (v Value) ApplyFn(f func(audio.Sample) audio.Sample) Value {
	if !v.isArray {
		return Float(f(v.scalar))
	}
	items := make([]Value, len(v.items))
	for i := range v.items {
		items[i] = v.items[i].ApplyFn(f)
	}
	return ArrayOf(items)
}

// FromBuffer converts planar audio into a depth-2 Value.
func FromBuffer(src *audio.Source) Value {
	channels := make([]Value, len(src.Data))
	for c, channel := range src.Data {
		samples := make([]Value, len(channel))
		for i, sample := range channel {
			samples[i] = Float(sample)
		}
		channels[c] = ArrayOf(samples)
	}
	return ArrayOf(channels)
}

// AsBuffer converts a depth-2 value with Float leaves back into a
// planar source at the given rate. Any other shape is a TypeError.
func (v Value) AsBuffer(sampleRate int) (*audio.Source, error) {
	if !v.isArray {
		return nil, &TypeError{Expected: BufferType(), Received: v.Type()}
	}
	data := make([][]audio.Sample, 0, len(v.items))
	for _, channel := range v.items {
		if !channel.isArray {
			return nil, &TypeError{Expected: BufferType(), Received: v.Type()}
		}
		samples := make([]audio.Sample, len(channel.items))
		for i, leaf := range channel.items {
			if leaf.isArray {
				return nil, &TypeError{Expected: BufferType(), Received: v.Type()}
			}
			samples[i] = leaf.scalar
		}
		data = append(data, samples)
	}
	return audio.FromBuffer(data, sampleRate), nil
}

// ZeroBuffer builds a depth-2 value of silent samples, the substitute
// nodes emit when an input is missing or ill-typed.
func ZeroBuffer(channels, length int) Value {
	chans := make([]Value, channels)
	for c := range chans {
		samples := make([]Value, length)
		for i := range samples {
			samples[i] = Float(0)
		}
		chans[c] = ArrayOf(samples)
	}
	return ArrayOf(chans)
}

// ApplyOp applies f leaf-wise across the arguments after broadcasting
// them to a common shape. The target shape takes the dimension-wise
// maximum (a longer shape wins outright); scalars fill, length-1
// dimensions replicate, and any other mismatch reports ok = false.
func ApplyOp(args []Value, f func([]audio.Sample) audio.Sample) (Value, bool) {
	if len(args) == 0 {
		return Value{}, false
	}

	target := broadcastShape(args)

	reshaped := make([]Value, len(args))
	for i, arg := range args {
		r, ok := reshape(arg, target)
		if !ok {
			return Value{}, false
		}
		reshaped[i] = r
	}

	return recurseOp(reshaped, f)
}

func broadcastShape(args []Value) []int {
	var target []int
	for _, arg := range args {
		shape := arg.Shape()
		if len(shape) > len(target) {
			target = append([]int(nil), shape...)
		} else if len(shape) == len(target) {
			for i, dim := range shape {
				if dim > target[i] {
					target[i] = dim
				}
			}
		}
	}
	return target
}

// reshape adapts v to the target shape: a scalar becomes a filled
// nested array, a shallower array is wrapped in outer dimensions,
// then every dimension must match the target or be 1 (replicated).
func reshape(v Value, shape []int) (Value, bool) {
	if !v.isArray {
		if len(shape) == 0 {
			return v, true
		}
		filled := v
		for i := len(shape) - 1; i >= 0; i-- {
			items := make([]Value, shape[i])
			for j := range items {
				items[j] = filled.Clone()
			}
			filled = ArrayOf(items)
		}
		return filled, true
	}

	depth := len(v.Shape())
	if depth > len(shape) {
		return Value{}, false
	}
	wrapped := v
	for i := 0; i < len(shape)-depth; i++ {
		wrapped = Array(wrapped)
	}
	return resize(wrapped, shape)
}

func resize(v Value, shape []int) (Value, bool) {
	if !v.isArray {
		return v, true
	}

	var outer []Value
	switch {
	case len(v.items) == shape[0]:
		outer = v.items
	case len(v.items) == 1:
		outer = make([]Value, shape[0])
		for i := range outer {
			outer[i] = v.items[0].Clone()
		}
	default:
		return Value{}, false
	}

	rest := shape[1:]
	result := make([]Value, 0, len(outer))
	for _, item := range outer {
		resized, ok := resize(item, rest)
		if !ok {
			return Value{}, false
		}
		result = append(result, resized)
	}
	return ArrayOf(result), true
}

func recurseOp(args []Value, f func([]audio.Sample) audio.Sample) (Value, bool) {
	if len(args) == 0 {
		return Value{}, false
	}

	if !args[0].isArray {
		samples := make([]audio.Sample, len(args))
		for i, arg := range args {
			if arg.isArray {
				return Value{}, false
			}
			samples[i] = arg.scalar
		}
		return Float(f(samples)), true
	}

	length := len(args[0].items)
	for _, arg := range args {
		if !arg.isArray || len(arg.items) != length {
			return Value{}, false
		}
	}

	result := make([]Value, 0, length)
	for i := 0; i < length; i++ {
		inner := make([]Value, len(args))
		for j, arg := range args {
			inner[j] = arg.items[i]
		}
		operated, ok := recurseOp(inner, f)
		if !ok {
			return Value{}, false
		}
		result = append(result, operated)
	}
	return ArrayOf(result), true
}
