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

package main

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lassandro/gohack/pkg/assembler"
	"github.com/lassandro/gohack/pkg/encoding"
)

const source = `// product = R0 * R1
    @product
    M=0
(LOOP)
    @R0
    D=M
    @END
    D;JEQ
    @R1
    D=M
    @product
    M=D+M
    @R0
    M=M-1
    @LOOP
    0;JMP
(END)
    @END
    0;JMP
`

func build(t *testing.T, dir, source string) string {
	program, err := assembler.Assemble(strings.NewReader(source))

	if err != nil {
		t.Fatal(err)
	}

	filename := filepath.Join(dir, "prog.hack")

	var buffer bytes.Buffer

	if err := encoding.WriteWords(&buffer, program.Words); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filename, buffer.Bytes(), 0666); err != nil {
		t.Fatal(err)
	}

	file, err := os.Create(filepath.Join(dir, "prog.hackdb"))

	if err != nil {
		t.Fatal(err)
	}

	defer file.Close()

	if err := gob.NewEncoder(file).Encode(program.Debug("prog.asm")); err != nil {
		t.Fatal(err)
	}

	return filename
}

func execute(t *testing.T, args ...string) (string, error) {
	stepsvar, peekvar, symbolsvar, keyboardvar = 1000000, nil, "", ""
	binaryvar, dumpvar = false, false

	var stdout bytes.Buffer

	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)

	err := rootCmd.Execute()

	return stdout.String(), err
}

func TestRun(t *testing.T) {
	filename := build(t, t.TempDir(), source)

	// R0 = 0 on a fresh machine, so the product stays 0
	output, err := execute(t, filename, "--peek", "product,R0,0x0010")

	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Halted after",
		"product [0x0010] = 0x0000 (0)",
		"R0 [0x0000] = 0x0000 (0)",
		"0x0010 [0x0010] = 0x0000 (0)",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("Output missing %q\nhave:\n%s", want, output)
		}
	}
}

func TestRunStepLimit(t *testing.T) {
	filename := build(t, t.TempDir(), "(L)\n@L\nM=M+1;JMP\n")

	output, err := execute(t, filename, "--steps", "10", "--peek", "0")

	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Stopped after 10 steps", "0 [0x0000] = 0x0005 (5)"} {
		if !strings.Contains(output, want) {
			t.Fatalf("Output missing %q\nhave:\n%s", want, output)
		}
	}
}

func TestRunKeyboard(t *testing.T) {
	filename := build(t, t.TempDir(), "@KBD\nD=M\n@key\nM=D\n")

	output, err := execute(t, filename, "--keyboard", "A", "--peek", "key")

	if err != nil {
		t.Fatal(err)
	}

	if want := "key [0x0010] = 0x0041 (65)"; !strings.Contains(output, want) {
		t.Fatalf("Output missing %q\nhave:\n%s", want, output)
	}
}

func TestRunUnknownSymbol(t *testing.T) {
	filename := build(t, t.TempDir(), "@1\n")

	if _, err := execute(t, filename, "--peek", "missing"); err == nil {
		t.Fatal("want:error\nhave:<nil>")
	}
}
