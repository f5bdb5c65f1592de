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
	"bufio"
	"errors"
	"io"

	"github.com/golang/glog"
)

var ErrAssemblerState = errors.New("Assembler has already run")

// Runs the two passes over a single program. An Assembler is single-shot,
// once it has reached STATE_DONE or STATE_FAILED it cannot be run again.
type Assembler struct {
	State      State
	Symbols    *SymbolTable
	Statements []Statement
	Words      []uint16
}

func NewAssembler() *Assembler {
	return &Assembler{
		State:   STATE_PREPROCESSING,
		Symbols: NewSymbolTable(),
	}
}

func Classify(text string) InstructionType {
	if len(text) > 0 && text[0] == '@' {
		return INSTRUCTION_ADDRESS
	}

	return INSTRUCTION_COMPUTATION
}

// Second pass for a single statement. Variables are allocated in symbols as
// they are first seen.
func Encode(stmt Statement, symbols *SymbolTable) (uint16, error) {
	switch Classify(stmt.Text) {
	case INSTRUCTION_ADDRESS:
		return encodeAddress(stmt, symbols)
	case INSTRUCTION_COMPUTATION:
		return encodeComputation(stmt)
	}

	panic("unreachable")
}

func (asm *Assembler) fail(err error) error {
	asm.State = STATE_FAILED
	asm.Words = nil
	glog.V(1).Infof("assembly failed: %v", err)
	return err
}

func (asm *Assembler) Run(lines []string) (*Program, error) {
	if asm.State != STATE_PREPROCESSING {
		return nil, ErrAssemblerState
	}

	statements, err := Preprocess(lines, asm.Symbols)

	if err != nil {
		return nil, asm.fail(err)
	}

	if len(statements) > MAX_ADDRESS+1 {
		return nil, asm.fail(&OversizedProgramError{len(statements)})
	}

	asm.Statements = statements
	asm.State = STATE_ENCODING
	asm.Words = make([]uint16, 0, len(statements))

	for _, stmt := range asm.Statements {
		word, err := Encode(stmt, asm.Symbols)

		if err != nil {
			return nil, asm.fail(err)
		}

		glog.V(3).Infof("%04d: %016b %s", len(asm.Words), word, stmt.Text)
		asm.Words = append(asm.Words, word)
	}

	asm.State = STATE_DONE
	glog.V(1).Infof(
		"encoded %d words, %d symbols", len(asm.Words), asm.Symbols.Len(),
	)

	return &Program{asm.Words, asm.Statements, asm.Symbols}, nil
}

// Reads all of input and assembles it
func Assemble(input io.Reader) (*Program, error) {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(input)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return NewAssembler().Run(lines)
}

func (program *Program) Debug(source string) DebugInfo {
	info := DebugInfo{
		Source:    source,
		Lines:     make(map[uint16]int, len(program.Statements)),
		Labels:    make(map[uint16]string),
		Variables: make(map[string]uint16),
	}

	for addr, stmt := range program.Statements {
		info.Lines[uint16(addr)] = stmt.Position.Line
	}

	for _, symbol := range program.Symbols.Entries() {
		switch symbol.Kind {
		case SYMBOL_LABEL:
			if _, exists := info.Labels[symbol.Addr]; !exists {
				info.Labels[symbol.Addr] = symbol.Name
			}
		case SYMBOL_VARIABLE:
			info.Variables[symbol.Name] = symbol.Addr
		}
	}

	return info
}
