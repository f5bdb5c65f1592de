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

const (
	INSTRUCTION_ADDRESS InstructionType = iota
	INSTRUCTION_COMPUTATION
)

const (
	STATE_PREPROCESSING State = iota
	STATE_ENCODING
	STATE_DONE
	STATE_FAILED
)

const (
	SYMBOL_PREDEFINED SymbolKind = iota
	SYMBOL_LABEL
	SYMBOL_VARIABLE
)

const (
	SHAPE_IDENTITY Shape = iota
	SHAPE_NEGATE
	SHAPE_NOT
	SHAPE_ADD
	SHAPE_SUB
	SHAPE_AND
	SHAPE_OR
)

// Computation word
// 111a cccc ccdd djjj
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
const (
	WORD_COMPUTATION uint16 = 0b111 << 13
	WORD_MEMORY      uint16 = 1 << 12

	OPCODE_SHIFT = 6
	DEST_SHIFT   = 3
	JUMP_SHIFT   = 0
)

const (
	DEST_M uint16 = 0b001
	DEST_D        = 0b010
	DEST_A        = 0b100
)

const (
	MAX_ADDRESS   = (1 << 15) - 1
	VARIABLE_BASE = 16

	ADDR_SCREEN = 0x4000
	ADDR_KBD    = 0x6000
)

// Characters allowed in a symbol besides letters and digits
const SYMBOL_EXTRA = "_.$:"

// Jump mnemonics, the encoded value is the 1-based position
var jumps = [...]string{"JGT", "JEQ", "JGE", "JLT", "JNE", "JLE", "JMP"}

var predefined = map[string]uint16{
	"R0":  0,
	"R1":  1,
	"R2":  2,
	"R3":  3,
	"R4":  4,
	"R5":  5,
	"R6":  6,
	"R7":  7,
	"R8":  8,
	"R9":  9,
	"R10": 10,
	"R11": 11,
	"R12": 12,
	"R13": 13,
	"R14": 14,
	"R15": 15,

	"SP":   0,
	"LCL":  1,
	"ARG":  2,
	"THIS": 3,
	"THAT": 4,

	"SCREEN": ADDR_SCREEN,
	"KBD":    ADDR_KBD,
}
