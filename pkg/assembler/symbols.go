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
	"sort"

	"github.com/golang/glog"
)

// Symbol bindings for a single assembly run. Once bound, a name keeps its
// address for the lifetime of the table.
type SymbolTable struct {
	symbols map[string]Symbol
	next    uint16
}

func NewSymbolTable() *SymbolTable {
	table := &SymbolTable{
		symbols: make(map[string]Symbol, len(predefined)),
		next:    VARIABLE_BASE,
	}

	for name, addr := range predefined {
		table.symbols[name] = Symbol{name, addr, SYMBOL_PREDEFINED}
	}

	return table
}

func (table *SymbolTable) Lookup(name string) (uint16, bool) {
	symbol, exists := table.symbols[name]
	return symbol.Addr, exists
}

func (table *SymbolTable) Kind(name string) (SymbolKind, bool) {
	symbol, exists := table.symbols[name]
	return symbol.Kind, exists
}

// Binds a label to an instruction index. Predefined symbols and previously
// declared labels cannot be redeclared.
func (table *SymbolTable) DeclareLabel(name string, index uint16) bool {
	if _, exists := table.symbols[name]; exists {
		return false
	}

	table.symbols[name] = Symbol{name, index, SYMBOL_LABEL}
	glog.V(2).Infof("label %s = %d", name, index)

	return true
}

// Returns the address bound to name, allocating the next free variable
// address on first use.
func (table *SymbolTable) Resolve(name string) (uint16, error) {
	if symbol, exists := table.symbols[name]; exists {
		return symbol.Addr, nil
	}

	if table.next >= ADDR_SCREEN {
		return 0, ErrVariableSpace
	}

	addr := table.next
	table.next++

	table.symbols[name] = Symbol{name, addr, SYMBOL_VARIABLE}
	glog.V(2).Infof("variable %s = %d", name, addr)

	return addr, nil
}

// Every binding ordered by address, then by name
func (table *SymbolTable) Entries() []Symbol {
	entries := make([]Symbol, 0, len(table.symbols))

	for _, symbol := range table.symbols {
		entries = append(entries, symbol)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Addr != entries[j].Addr {
			return entries[i].Addr < entries[j].Addr
		}
		return entries[i].Name < entries[j].Name
	})

	return entries
}

func (table *SymbolTable) Len() int {
	return len(table.symbols)
}
