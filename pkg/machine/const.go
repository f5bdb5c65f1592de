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

package machine

const (
	ROM_SIZE = 1 << 15
	RAM_SIZE = MEM_KBD + 1
)

const (
	MEM_SCREEN uint16 = 0x4000
	MEM_KBD           = 0x6000
)

// Computation instruction fields
// 111a cccc ccdd djjj
const (
	INSTR_COMPUTATION uint16 = 1 << 15
	INSTR_MEMORY      uint16 = 1 << 12
)

const (
	ALU_ZX uint16 = 1 << 11
	ALU_NX uint16 = 1 << 10
	ALU_ZY uint16 = 1 << 9
	ALU_NY uint16 = 1 << 8
	ALU_F  uint16 = 1 << 7
	ALU_NO uint16 = 1 << 6
)

const (
	DEST_A uint16 = 1 << 5
	DEST_D uint16 = 1 << 4
	DEST_M uint16 = 1 << 3
)

const (
	JUMP_LT uint16 = 1 << 2
	JUMP_EQ uint16 = 1 << 1
	JUMP_GT uint16 = 1 << 0

	JUMP_MASK = JUMP_LT | JUMP_EQ | JUMP_GT
)
