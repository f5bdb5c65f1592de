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
	"fmt"
	"reflect"
	"testing"

	"github.com/lassandro/gohack/pkg/assembler"
)

func TestPredefined(t *testing.T) {
	symbols := assembler.NewSymbolTable()

	want := map[string]uint16{
		"SP":     0,
		"LCL":    1,
		"ARG":    2,
		"THIS":   3,
		"THAT":   4,
		"SCREEN": 0x4000,
		"KBD":    0x6000,
	}

	for i := 0; i < 16; i++ {
		want[fmt.Sprintf("R%d", i)] = uint16(i)
	}

	for name, addr := range want {
		have, exists := symbols.Lookup(name)

		if !exists {
			t.Fatalf("Missing predefined symbol %s", name)
		}

		if have != addr {
			t.Fatalf(
				"Predefined symbol mismatch\nwant:%d (%s)\nhave:%d",
				addr,
				name,
				have,
			)
		}
	}

	if have := symbols.Len(); have != len(want) {
		t.Fatalf("Symbol count mismatch\nwant:%d\nhave:%d", len(want), have)
	}

	if _, exists := symbols.Lookup("r0"); exists {
		t.Fatal("Symbols must be case sensitive")
	}
}

func TestDeclareLabel(t *testing.T) {
	symbols := assembler.NewSymbolTable()

	if !symbols.DeclareLabel("LOOP", 4) {
		t.Fatal("Failed to declare LOOP")
	}

	if symbols.DeclareLabel("LOOP", 9) {
		t.Fatal("Redeclared LOOP")
	}

	if symbols.DeclareLabel("R1", 9) {
		t.Fatal("Redeclared predefined R1")
	}

	if addr, _ := symbols.Lookup("LOOP"); addr != 4 {
		t.Fatalf("Label rebound\nwant:4\nhave:%d", addr)
	}

	// Labels never move the next variable address
	if addr, err := symbols.Resolve("x"); err != nil || addr != 16 {
		t.Fatalf("want:16\nhave:%d (%v)", addr, err)
	}
}

func TestResolve(t *testing.T) {
	symbols := assembler.NewSymbolTable()

	for i, name := range []string{"a", "b", "c", "d"} {
		addr, err := symbols.Resolve(name)

		if err != nil {
			t.Fatal(err)
		}

		if want := uint16(assembler.VARIABLE_BASE + i); addr != want {
			t.Fatalf("Variable mismatch\nwant:%d (%s)\nhave:%d", want, name, addr)
		}
	}

	if addr, _ := symbols.Resolve("b"); addr != 17 {
		t.Fatalf("Variable rebound\nwant:17\nhave:%d", addr)
	}

	if addr, _ := symbols.Resolve("KBD"); addr != 0x6000 {
		t.Fatalf("want:%d\nhave:%d", 0x6000, addr)
	}

	if addr, _ := symbols.Resolve("e"); addr != 20 {
		t.Fatalf("want:20\nhave:%d", addr)
	}
}

func TestResolveExhausted(t *testing.T) {
	symbols := assembler.NewSymbolTable()

	for i := assembler.VARIABLE_BASE; i < assembler.ADDR_SCREEN; i++ {
		if _, err := symbols.Resolve(fmt.Sprintf("v%d", i)); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := symbols.Resolve("full"); !errors.Is(err, assembler.ErrVariableSpace) {
		t.Fatalf("want:%v\nhave:%v", assembler.ErrVariableSpace, err)
	}

	// Existing names still resolve
	if addr, err := symbols.Resolve("v16"); err != nil || addr != 16 {
		t.Fatalf("want:16\nhave:%d (%v)", addr, err)
	}
}

func TestEntries(t *testing.T) {
	symbols := assembler.NewSymbolTable()
	symbols.DeclareLabel("END", 2)
	symbols.Resolve("x")

	entries := symbols.Entries()

	if len(entries) != symbols.Len() {
		t.Fatalf("want:%d\nhave:%d", symbols.Len(), len(entries))
	}

	want := []assembler.Symbol{
		{"R0", 0, assembler.SYMBOL_PREDEFINED},
		{"SP", 0, assembler.SYMBOL_PREDEFINED},
		{"LCL", 1, assembler.SYMBOL_PREDEFINED},
		{"R1", 1, assembler.SYMBOL_PREDEFINED},
		{"ARG", 2, assembler.SYMBOL_PREDEFINED},
		{"END", 2, assembler.SYMBOL_LABEL},
		{"R2", 2, assembler.SYMBOL_PREDEFINED},
	}

	if !reflect.DeepEqual(entries[:len(want)], want) {
		t.Fatalf("Entry order mismatch\nwant:%v\nhave:%v", want, entries[:len(want)])
	}

	last := entries[len(entries)-1]

	if last.Name != "KBD" {
		t.Fatalf("want:KBD\nhave:%s", last.Name)
	}

	for _, entry := range entries {
		if entry.Name == "x" && (entry.Addr != 16 || entry.Kind != assembler.SYMBOL_VARIABLE) {
			t.Fatalf("Variable entry mismatch: %+v", entry)
		}
	}
}
