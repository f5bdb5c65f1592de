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
	"strings"
	"unicode"

	"github.com/golang/glog"
)

func isLetter(char rune) bool {
	return (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}

func isDigit(char rune) bool {
	return char >= '0' && char <= '9'
}

func isSymbolChar(char rune) bool {
	return isLetter(char) || isDigit(char) || strings.ContainsRune(SYMBOL_EXTRA, char)
}

// Strips surrounding whitespace and any trailing // comment. Returns the
// remaining text and the 0-based byte offset it starts at.
func cleanLine(line string, number int) (string, int, error) {
	start := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
	end := len(line)

	for i := start; i < len(line); i++ {
		if line[i] != '/' {
			continue
		}

		if i+1 == len(line) || line[i+1] != '/' {
			return "", 0, &UnexpectedSymbolError{Cursor{number, i + 1, 1}, '/'}
		}

		end = i
		break
	}

	return strings.TrimRightFunc(line[start:end], unicode.IsSpace), start, nil
}

func parseLabel(text string, position Cursor) (string, error) {
	closing := strings.IndexByte(text, ')')

	if closing == -1 {
		return "", &LabelError{position, ErrLabelUnclosed}
	}

	name := text[1:closing]

	if name == "" || !isLetter(rune(name[0])) {
		position.Column++
		position.Size = 1
		return "", &LabelError{position, ErrLabelStart}
	}

	for i, char := range name {
		if !isSymbolChar(char) {
			position.Column += i + 1
			position.Size = 1
			return "", &LabelError{
				position, &CharacterError{ErrLabelCharacter, char},
			}
		}
	}

	if rest := text[closing+1:]; strings.TrimSpace(rest) != "" {
		position.Column += closing + 1
		position.Size = len(rest)
		return "", &LabelError{position, ErrLabelTrailing}
	}

	return name, nil
}

// First pass. Cleans every line, records label declarations against the
// index of the next statement and returns the statements left to encode.
func Preprocess(lines []string, symbols *SymbolTable) ([]Statement, error) {
	statements := make([]Statement, 0, len(lines))

	for i, line := range lines {
		number := i + 1

		text, offset, err := cleanLine(line, number)

		if err != nil {
			return nil, err
		}

		if text == "" {
			continue
		}

		position := Cursor{Line: number, Column: offset + 1, Size: len(text)}

		if text[0] == '(' {
			name, err := parseLabel(text, position)

			if err != nil {
				return nil, err
			}

			// Labels must be reachable through a 15-bit address
			if len(statements) > MAX_ADDRESS {
				return nil, &LabelError{position, ErrAddressRange}
			}

			if !symbols.DeclareLabel(name, uint16(len(statements))) {
				return nil, &RedeclaredLabelError{position, name}
			}

			continue
		}

		statements = append(statements, Statement{text, position})
	}

	glog.V(1).Infof(
		"preprocessed %d lines into %d statements", len(lines), len(statements),
	)

	return statements, nil
}
