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
	"strconv"
	"strings"
	"unicode"
)

// @value  |0|value                        | Address instruction
// ------- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func encodeAddress(stmt Statement, symbols *SymbolTable) (uint16, error) {
	fail := func(offset, size int, err error) error {
		position := stmt.Position
		position.Column += offset
		position.Size = size
		return &AddressError{position, err}
	}

	text := stmt.Text[1:]

	if text == "" {
		return 0, &AddressError{stmt.Position, ErrNoAddress}
	}

	if size := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace)); size > 0 {
		return 0, fail(1, size, ErrAddressSpace)
	}

	token := text

	if i := strings.IndexFunc(text, unicode.IsSpace); i != -1 {
		token = text[:i]
		rest := strings.TrimLeftFunc(text[i:], unicode.IsSpace)

		if rest != "" {
			return 0, fail(len(text)-len(rest)+1, len(rest), ErrUnexpectedSymbol)
		}
	}

	if isDigit(rune(token[0])) {
		for i, char := range token {
			if !isDigit(char) {
				return 0, fail(i+1, 1, &CharacterError{ErrNotDigit, char})
			}
		}

		value, err := strconv.ParseUint(token, 10, 16)

		if err != nil || value > MAX_ADDRESS {
			return 0, fail(1, len(token), ErrAddressRange)
		}

		return uint16(value), nil
	}

	for i, char := range token {
		if !isSymbolChar(char) {
			return 0, fail(i+1, 1, &CharacterError{ErrSymbolCharacter, char})
		}
	}

	addr, err := symbols.Resolve(token)

	if err != nil {
		return 0, fail(1, len(token), err)
	}

	if addr > MAX_ADDRESS {
		return 0, fail(1, len(token), ErrAddressRange)
	}

	return addr, nil
}
