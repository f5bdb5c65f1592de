// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"errors"
	"fmt"
)

type InstructionType uint
type State uint
type SymbolKind uint
type Shape uint

type Cursor struct {
	Line   int
	Column int
	Size   int
}

// A cleaned source line, ready to be encoded
type Statement struct {
	Text     string
	Position Cursor
}

type Symbol struct {
	Name string
	Addr uint16
	Kind SymbolKind
}

// Debugging information written alongside an assembled program
type DebugInfo struct {
	Source    string
	Lines     map[uint16]int
	Labels    map[uint16]string
	Variables map[string]uint16
}

type Program struct {
	Words      []uint16
	Statements []Statement
	Symbols    *SymbolTable
}

type TokenError interface {
	GetPosition() Cursor
}

// Label declaration reasons
var (
	ErrLabelUnclosed  = errors.New("Missing closing )")
	ErrLabelStart     = errors.New("Labels must start with an alphabet")
	ErrLabelCharacter = errors.New("Labels may only contain alphanumerical values or _ . $ :")
	ErrLabelTrailing  = errors.New("Unexpected symbol after label declaration")
)

// Address instruction reasons
var (
	ErrNoAddress        = errors.New("No address or label provided")
	ErrAddressSpace     = errors.New("Unexpected whitespace after @")
	ErrUnexpectedSymbol = errors.New("Unexpected symbol after address token")
	ErrNotDigit         = errors.New("Token starts with a digit but is not a number")
	ErrSymbolCharacter  = errors.New("Symbols may only contain alphanumerical values or _ . $ :")
	ErrAddressRange     = errors.New("Address is outside the range of a 15-bit unsigned integer")
	ErrVariableSpace    = errors.New("Out of memory for variables")
)

// Computation instruction reasons
var (
	ErrDestEmpty       = errors.New("No destination provided before =")
	ErrDestRegister    = errors.New("Destination must be one of A, D or M")
	ErrDestRepeat      = errors.New("Destination register repeated")
	ErrCompEmpty       = errors.New("No computation provided")
	ErrCompCharacter   = errors.New("Computation may only contain A, D, M, 0, 1, +, -, !, & or |")
	ErrCompOperands    = errors.New("Cannot use both operands together")
	ErrCompArity       = errors.New("Wrong number of operands for operation")
	ErrCompCombination = errors.New("No such computation")
	ErrJumpInvalid     = errors.New("Jump must be one of JGT, JEQ, JGE, JLT, JNE, JLE or JMP")
	ErrJumpTrailing    = errors.New("Unexpected symbol after jump")
)

// Attaches the offending character to a reason
type CharacterError struct {
	Err      error
	Received rune
}

func (err *CharacterError) Error() string {
	return fmt.Sprintf("Character %c: %s", err.Received, err.Err)
}

func (err *CharacterError) Unwrap() error {
	return err.Err
}

type LabelError struct {
	Position Cursor
	Err      error
}

func (err *LabelError) GetPosition() Cursor {
	return err.Position
}

func (err *LabelError) Error() string {
	return fmt.Sprintf(
		"Malformed label on line %d: %s", err.Position.Line, err.Err,
	)
}

func (err *LabelError) Unwrap() error {
	return err.Err
}

type RedeclaredLabelError struct {
	Position Cursor
	Received string
}

func (err *RedeclaredLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf(
		"Redeclaration of label '%s' on line %d",
		err.Received,
		err.Position.Line,
	)
}

type UnexpectedSymbolError struct {
	Position Cursor
	Received rune
}

func (err *UnexpectedSymbolError) GetPosition() Cursor {
	return err.Position
}

func (err *UnexpectedSymbolError) Error() string {
	return fmt.Sprintf(
		"Unexpected %c on line %d", err.Received, err.Position.Line,
	)
}

type AddressError struct {
	Position Cursor
	Err      error
}

func (err *AddressError) GetPosition() Cursor {
	return err.Position
}

func (err *AddressError) Error() string {
	return fmt.Sprintf(
		"Malformed address instruction on line %d: %s",
		err.Position.Line,
		err.Err,
	)
}

func (err *AddressError) Unwrap() error {
	return err.Err
}

type ComputationError struct {
	Position Cursor
	Err      error
}

func (err *ComputationError) GetPosition() Cursor {
	return err.Position
}

func (err *ComputationError) Error() string {
	return fmt.Sprintf(
		"Malformed computation instruction on line %d: %s",
		err.Position.Line,
		err.Err,
	)
}

func (err *ComputationError) Unwrap() error {
	return err.Err
}

type OversizedProgramError struct {
	Received int
}

func (err *OversizedProgramError) Error() string {
	return fmt.Sprintf(
		"Program exceeds instruction memory\n\twant:%d\n\thave:%d",
		MAX_ADDRESS+1,
		err.Received,
	)
}
