/*  D3pixelbot - Custom client, recorder and bot for pixel drawing games
    Copyright (C) 2019  David Vogel

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.  */

package main

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var formulaChannelNames = [4]string{"red", "green", "blue", "alpha"}

// A set of compiled channel expressions.
// Every expression can use the variables x, y and iteration.
type formula struct {
	Expressions [4]string
	programs    [4]*vm.Program
}

func formulaEnv(x, y, iteration int) map[string]interface{} {
	return map[string]interface{}{
		"x":         x,
		"y":         y,
		"iteration": iteration,
	}
}

// Compiles the four channel expressions.
// The returned error is a *formulaEvaluationError naming the first channel that doesn't compile.
func newFormula(r, g, b, a string) (*formula, error) {
	f := &formula{Expressions: [4]string{r, g, b, a}}

	for i, src := range f.Expressions {
		program, err := expr.Compile(src, expr.Env(formulaEnv(0, 0, 0)))
		if err != nil {
			return nil, &formulaEvaluationError{
				Channel:    formulaChannelNames[i],
				Expression: src,
				Err:        err,
			}
		}
		f.programs[i] = program
	}

	return f, nil
}

// Evaluates all channel expressions at the given position and iteration.
func (f *formula) color(x, y, iteration int) (color, error) {
	env := formulaEnv(x, y, iteration)

	var channels [4]uint8
	for i, program := range f.programs {
		out, err := expr.Run(program, env)
		if err == nil {
			channels[i], err = formulaChannelValue(out)
		}
		if err != nil {
			return color{}, &formulaEvaluationError{
				Channel:    formulaChannelNames[i],
				Expression: f.Expressions[i],
				Err:        err,
			}
		}
	}

	return color{channels[0], channels[1], channels[2], channels[3]}, nil
}

// Truncates a numeric result and reduces it to the non negative residue modulo 255.
func formulaChannelValue(out interface{}) (uint8, error) {
	var v int64

	switch out := out.(type) {
	case int:
		v = int64(out)
	case int8:
		v = int64(out)
	case int16:
		v = int64(out)
	case int32:
		v = int64(out)
	case int64:
		v = out
	case uint:
		v = int64(out % channelModulus)
	case uint8:
		v = int64(out)
	case uint16:
		v = int64(out)
	case uint32:
		v = int64(out)
	case uint64:
		v = int64(out % channelModulus)
	case float32:
		return formulaChannelValue(float64(out))
	case float64:
		if math.IsNaN(out) || math.IsInf(out, 0) {
			return 0, fmt.Errorf("result %v is not a finite number", out)
		}
		t := math.Mod(math.Trunc(out), channelModulus)
		if t < 0 {
			t += channelModulus
		}
		return uint8(t), nil
	default:
		return 0, fmt.Errorf("result %v of type %T is not a number", out, out)
	}

	v %= channelModulus
	if v < 0 {
		v += channelModulus
	}
	return uint8(v), nil
}

// Compiles and evaluates the given channel expressions once.
// Prefer newFormula when the same expressions are evaluated for many pixels.
func formulaColor(x, y, iteration int, r, g, b, a string) (color, error) {
	f, err := newFormula(r, g, b, a)
	if err != nil {
		return color{}, err
	}

	return f.color(x, y, iteration)
}
