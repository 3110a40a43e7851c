// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package graph

import (
	"math"

	"github.com/rapidaai/audio-engine/engine/audio"
)

// Arithmetic on Values goes through ApplyOp, so operands broadcast
// against each other. A scalar operand is written Float(s), which
// covers the (Value, scalar) and (scalar, Value) pairs. Division and
// modulo by zero yield 0 rather than NaN.

// Add returns a + b leaf-wise.
func Add(a, b Value) (Value, bool) {
	return ApplyOp([]Value{a, b}, func(s []audio.Sample) audio.Sample {
		return s[0] + s[1]
	})
}

// Sub returns a - b leaf-wise.
func Sub(a, b Value) (Value, bool) {
	return ApplyOp([]Value{a, b}, func(s []audio.Sample) audio.Sample {
		return s[0] - s[1]
	})
}

// Mul returns a × b leaf-wise.
func Mul(a, b Value) (Value, bool) {
	return ApplyOp([]Value{a, b}, func(s []audio.Sample) audio.Sample {
		return s[0] * s[1]
	})
}

// Div returns a ÷ b leaf-wise; x ÷ 0 is 0.
func Div(a, b Value) (Value, bool) {
	return ApplyOp([]Value{a, b}, func(s []audio.Sample) audio.Sample {
		if s[1] == 0 {
			return 0
		}
		return s[0] / s[1]
	})
}

// Mod returns a mod b leaf-wise; x mod 0 is 0.
func Mod(a, b Value) (Value, bool) {
	return ApplyOp([]Value{a, b}, func(s []audio.Sample) audio.Sample {
		if s[1] == 0 {
			return 0
		}
		return audio.Sample(math.Mod(float64(s[0]), float64(s[1])))
	})
}
