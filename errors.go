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
	"errors"
	"fmt"
)

var (
	errConnection            = errors.New("connection error")
	errMalformedPixelRecord  = errors.New("malformed pixel record")
	errMalformedSizeResponse = errors.New("malformed size response")
	errFormulaEvaluation     = errors.New("formula evaluation error")

	errSessionClosed = fmt.Errorf("session is closed: %w", errConnection)
)

// connectionError wraps a transport error, so that it matches errConnection.
func connectionError(op string, err error) error {
	return fmt.Errorf("Can't %v: %w: %w", op, errConnection, err)
}

// formulaEvaluationError describes which channel formula failed and why.
type formulaEvaluationError struct {
	Channel    string
	Expression string
	Err        error
}

func (e *formulaEvaluationError) Error() string {
	return fmt.Sprintf("Can't evaluate %v channel formula %q: %v", e.Channel, e.Expression, e.Err)
}

func (e *formulaEvaluationError) Unwrap() error { return e.Err }

func (e *formulaEvaluationError) Is(target error) bool { return target == errFormulaEvaluation }
