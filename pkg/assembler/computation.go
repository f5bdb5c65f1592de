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
	"fmt"
	"strings"
	"unicode"
)

const compChars = "ADM01+-!&|"

type operation struct {
	Shape Shape
	X     rune
	Y     rune
}

// ALU control bits (zx nx zy ny f no), with M already folded into A
var opcodes = map[operation]uint16{
	{SHAPE_IDENTITY, '0', 0}: 0b101010,
	{SHAPE_IDENTITY, '1', 0}: 0b111111,
	{SHAPE_IDENTITY, 'D', 0}: 0b001100,
	{SHAPE_IDENTITY, 'A', 0}: 0b110000,
	{SHAPE_NEGATE, '1', 0}:   0b111010,
	{SHAPE_NEGATE, 'D', 0}:   0b001111,
	{SHAPE_NEGATE, 'A', 0}:   0b110011,
	{SHAPE_NOT, 'D', 0}:      0b001101,
	{SHAPE_NOT, 'A', 0}:      0b110001,
	{SHAPE_ADD, 'D', '1'}:    0b011111,
	{SHAPE_ADD, 'A', '1'}:    0b110111,
	{SHAPE_ADD, 'D', 'A'}:    0b000010,
	{SHAPE_SUB, 'D', '1'}:    0b001110,
	{SHAPE_SUB, 'A', '1'}:    0b110010,
	{SHAPE_SUB, 'D', 'A'}:    0b010011,
	{SHAPE_SUB, 'A', 'D'}:    0b000111,
	{SHAPE_AND, 'D', 'A'}:    0b000000,
	{SHAPE_OR, 'D', 'A'}:     0b010101,
}

func isOperand(char rune) bool {
	return char == 'A' || char == 'D' || char == '0' || char == '1'
}

func parseDest(dest string) (uint16, error) {
	if strings.TrimSpace(dest) == "" {
		return 0, ErrDestEmpty
	}

	var bits uint16

	for _, char := range dest {
		var bit uint16

		switch {
		case unicode.IsSpace(char):
			continue
		case char == 'A':
			bit = DEST_A
		case char == 'D':
			bit = DEST_D
		case char == 'M':
			bit = DEST_M
		default:
			return 0, &CharacterError{ErrDestRegister, char}
		}

		if bits&bit != 0 {
			return 0, &CharacterError{ErrDestRepeat, char}
		}

		bits |= bit
	}

	return bits, nil
}

// Sorts a computation into one of the operation shapes by its length and
// where the operator sits.
func classify(tokens []rune) (operation, error) {
	switch len(tokens) {
	case 1:
		if isOperand(tokens[0]) {
			return operation{SHAPE_IDENTITY, tokens[0], 0}, nil
		}

	case 2:
		if !isOperand(tokens[1]) {
			break
		}

		switch tokens[0] {
		case '-':
			return operation{SHAPE_NEGATE, tokens[1], 0}, nil
		case '!':
			return operation{SHAPE_NOT, tokens[1], 0}, nil
		}

	case 3:
		if !isOperand(tokens[0]) || !isOperand(tokens[2]) {
			break
		}

		x, y := tokens[0], tokens[2]

		switch tokens[1] {
		case '+':
			return operation{SHAPE_ADD, x, y}, nil
		case '-':
			return operation{SHAPE_SUB, x, y}, nil
		case '&':
			return operation{SHAPE_AND, x, y}, nil
		case '|':
			return operation{SHAPE_OR, x, y}, nil
		}
	}

	return operation{}, ErrCompArity
}

// Returns the opcode and whether the M operand was used
func parseComp(comp string) (uint16, bool, error) {
	var memory, accumulator bool

	tokens := make([]rune, 0, 3)

	for _, char := range comp {
		if unicode.IsSpace(char) {
			continue
		}

		if !strings.ContainsRune(compChars, char) {
			return 0, false, &CharacterError{ErrCompCharacter, char}
		}

		switch char {
		case 'M':
			memory = true
			char = 'A'
		case 'A':
			accumulator = true
		}

		if memory && accumulator {
			return 0, false, ErrCompOperands
		}

		tokens = append(tokens, char)
	}

	if len(tokens) == 0 {
		return 0, false, ErrCompEmpty
	}

	op, err := classify(tokens)

	if err != nil {
		return 0, false, err
	}

	opcode, exists := opcodes[op]

	if !exists {
		return 0, false, fmt.Errorf(
			"%w %s", ErrCompCombination, strings.Join(strings.Fields(comp), ""),
		)
	}

	return opcode, memory, nil
}

func parseJump(jump string) (uint16, error) {
	jump = strings.TrimSpace(jump)

	for i, mnemonic := range jumps {
		if jump == mnemonic {
			return uint16(i + 1), nil
		}

		if strings.HasPrefix(jump, mnemonic) {
			return 0, ErrJumpTrailing
		}
	}

	return 0, ErrJumpInvalid
}

// dest=comp;jump  |111|a|c c c c c c|d d d|j j j| Computation instruction
// --------------- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func encodeComputation(stmt Statement) (uint16, error) {
	word := WORD_COMPUTATION
	rest := stmt.Text

	if dest, after, found := strings.Cut(rest, "="); found {
		bits, err := parseDest(dest)

		if err != nil {
			return 0, &ComputationError{stmt.Position, err}
		}

		word |= bits << DEST_SHIFT
		rest = after
	}

	comp, jump, hasJump := strings.Cut(rest, ";")

	opcode, memory, err := parseComp(comp)

	if err != nil {
		return 0, &ComputationError{stmt.Position, err}
	}

	word |= opcode << OPCODE_SHIFT

	if memory {
		word |= WORD_MEMORY
	}

	if hasJump {
		bits, err := parseJump(jump)

		if err != nil {
			return 0, &ComputationError{stmt.Position, err}
		}

		word |= bits << JUMP_SHIFT
	}

	return word, nil
}
