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

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/lassandro/gohack/pkg/encoding"
)

// Clears the registers and data memory, instruction memory is kept
func (mc *MachineState) Reset() {
	mc.A = 0
	mc.D = 0
	mc.Program = 0

	for i := range mc.RAM {
		mc.RAM[i] = 0x0000
	}
}

func (mc *Machine) LoadROM(words []uint16) error {
	if len(words) > ROM_SIZE {
		return &OversizedProgramError{len(words)}
	}

	mc.State.Reset()
	mc.Halted = false
	mc.Err = nil

	copy(mc.State.ROM[:], words)

	for i := len(words); i < ROM_SIZE; i++ {
		mc.State.ROM[i] = 0x0000
	}

	mc.State.Size = len(words)

	return nil
}

// Loads a program in the textual .hack format
func (mc *Machine) LoadHack(reader io.Reader) error {
	words, err := encoding.ReadWords(reader)

	if err != nil {
		return err
	}

	return mc.LoadROM(words)
}

// Loads a program of raw big-endian words
func (mc *Machine) LoadBin(reader io.Reader) error {
	words := make([]uint16, 0)
	scratch := make([]byte, 2)

	for {
		_, err := io.ReadFull(reader, scratch)

		if err == io.EOF {
			break
		} else if err == io.ErrUnexpectedEOF {
			return errors.New("Error reading binary")
		} else if err != nil {
			return err
		}

		words = append(words, binary.BigEndian.Uint16(scratch))

		if len(words) > ROM_SIZE {
			return &OversizedProgramError{len(words)}
		}
	}

	return mc.LoadROM(words)
}

func (mc *Machine) SetKey(key uint16) {
	mc.State.RAM[MEM_KBD] = key
}

func (mc *Machine) Peek(addr uint16) uint16 {
	if int(addr) >= RAM_SIZE {
		return 0
	}

	return mc.State.RAM[addr]
}

func (mc *Machine) Poke(addr uint16, value uint16) {
	if int(addr) < RAM_SIZE {
		mc.State.RAM[addr] = value
	}
}

func (mc *Machine) read(addr uint16) uint16 {
	if addr == MEM_KBD && mc.Devices != nil && mc.Devices.Keyboard != nil {
		key, err := mc.Devices.Keyboard.ReadByte()

		if err == nil {
			mc.State.RAM[MEM_KBD] = uint16(key)
		} else {
			mc.State.RAM[MEM_KBD] = 0

			if err != io.EOF {
				mc.Err = fmt.Errorf("keyboard: %w", err)
			}
		}
	}

	return mc.Peek(addr)
}

func (mc *Machine) write(addr uint16, value uint16) {
	// The keyboard register is read-only
	if addr < MEM_KBD {
		mc.State.RAM[addr] = value
	}
}

func alu(x, y, instr uint16) uint16 {
	if instr&ALU_ZX != 0 {
		x = 0
	}

	if instr&ALU_NX != 0 {
		x = ^x
	}

	if instr&ALU_ZY != 0 {
		y = 0
	}

	if instr&ALU_NY != 0 {
		y = ^y
	}

	var out uint16

	if instr&ALU_F != 0 {
		out = x + y
	} else {
		out = x & y
	}

	if instr&ALU_NO != 0 {
		out = ^out
	}

	return out
}

func jumps(out, instr uint16) bool {
	value := int16(out)

	switch {
	case value < 0:
		return instr&JUMP_LT != 0
	case value == 0:
		return instr&JUMP_EQ != 0
	default:
		return instr&JUMP_GT != 0
	}
}

// Executes the instruction at the program counter
func (mc *Machine) Step() {
	pc := mc.State.Program
	instr := mc.State.ROM[pc&(ROM_SIZE-1)]

	// @value
	if instr&INSTR_COMPUTATION == 0 {
		mc.State.A = instr
		mc.State.Program = pc + 1
		return
	}

	// dest=comp;jump
	addr := mc.State.A
	y := addr

	if instr&INSTR_MEMORY != 0 {
		y = mc.read(addr)
	}

	out := alu(mc.State.D, y, instr)

	if instr&DEST_M != 0 {
		mc.write(addr, out)
	}

	if instr&DEST_A != 0 {
		mc.State.A = out
	}

	if instr&DEST_D != 0 {
		mc.State.D = out
	}

	if !jumps(out, instr) {
		mc.State.Program = pc + 1
		return
	}

	mc.State.Program = addr

	// An unconditional jump with no destination back onto itself, or onto
	// the @ instruction loading its own address, never leaves the loop
	if instr&JUMP_MASK == JUMP_MASK && instr&(DEST_A|DEST_D|DEST_M) == 0 &&
		(addr == pc || (pc > 0 && addr == pc-1 && mc.State.ROM[addr] == addr)) {
		mc.Halted = true
	}
}

// Steps until halted, until the program counter leaves the loaded program
// or until the step limit is reached. Returns the number of steps taken.
func (mc *Machine) Run(steps int) int {
	taken := 0

	for taken < steps && !mc.Halted && mc.Err == nil {
		if int(mc.State.Program) >= mc.State.Size {
			mc.Halted = true
			break
		}

		mc.Step()
		taken++
	}

	glog.V(1).Infof(
		"ran %d steps, pc=%#04x halted=%t", taken, mc.State.Program, mc.Halted,
	)

	return taken
}
