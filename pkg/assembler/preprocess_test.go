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

package assembler_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lassandro/gohack/pkg/assembler"
)

func TestPreprocess(t *testing.T) {
	lines := []string{
		"// Header comment",
		"",
		"   @R0 // first",
		"(LOOP)",
		"\tD=M\t",
		"   ",
		"  (END)  ",
		"0;JMP//tight",
	}

	symbols := assembler.NewSymbolTable()

	statements, err := assembler.Preprocess(lines, symbols)

	if err != nil {
		t.Fatal(err)
	}

	want := []assembler.Statement{
		{"@R0", assembler.Cursor{Line: 3, Column: 4, Size: 3}},
		{"D=M", assembler.Cursor{Line: 5, Column: 2, Size: 3}},
		{"0;JMP", assembler.Cursor{Line: 8, Column: 1, Size: 5}},
	}

	if !reflect.DeepEqual(statements, want) {
		t.Fatalf("Statement mismatch\nwant:%+v\nhave:%+v", want, statements)
	}

	for label, index := range map[string]uint16{"LOOP": 1, "END": 2} {
		have, exists := symbols.Lookup(label)

		if !exists || have != index {
			t.Fatalf("Label mismatch\nwant:%d (%s)\nhave:%d", index, label, have)
		}
	}
}

func TestPreprocessEmpty(t *testing.T) {
	statements, err := assembler.Preprocess(
		[]string{"", "// nothing", "  "}, assembler.NewSymbolTable(),
	)

	if err != nil {
		t.Fatal(err)
	}

	if len(statements) != 0 {
		t.Fatalf("want:0 statements\nhave:%v", statements)
	}
}

func TestPreprocessStops(t *testing.T) {
	symbols := assembler.NewSymbolTable()

	_, err := assembler.Preprocess(
		[]string{"(FIRST)", "@1", "(BAD", "(LATER)"}, symbols,
	)

	if !errors.Is(err, assembler.ErrLabelUnclosed) {
		t.Fatalf("want:%v\nhave:%v", assembler.ErrLabelUnclosed, err)
	}

	if _, exists := symbols.Lookup("LATER"); exists {
		t.Fatal("Preprocessing continued past the first error")
	}
}
