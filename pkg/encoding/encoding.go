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

package encoding

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Width of a textual machine word
const WordWidth = 16

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes a base-10 string in the formats: #123, 123
func DecodeInt(s string) (uint16, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseUint(s, 10, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes an address given either as hex (0x4000, x4000) or base-10 (#16, 16)
func DecodeAddr(s string) (uint16, error) {
	if strings.ContainsAny(s, "xX") {
		return DecodeHex(s)
	}

	return DecodeInt(s)
}

// Formats a word as sixteen '0'/'1' characters, most significant bit first
func FormatWord(word uint16) string {
	return fmt.Sprintf("%016b", word)
}

// Decodes a sixteen character '0'/'1' string into a word
func DecodeWord(s string) (uint16, error) {
	if len(s) != WordWidth {
		return 0, fmt.Errorf(
			"Invalid word length\n\twant:%d\n\thave:%d", WordWidth, len(s),
		)
	}

	var word uint16

	for i := 0; i < len(s); i++ {
		word <<= 1

		switch s[i] {
		case '0':
		case '1':
			word |= 1
		default:
			return 0, fmt.Errorf("Invalid bit character %q", s[i])
		}
	}

	return word, nil
}

func WriteWords(w io.Writer, words []uint16) error {
	writer := bufio.NewWriter(w)

	for _, word := range words {
		if _, err := writer.WriteString(FormatWord(word) + "\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// Reads textual words, one per line. Blank lines are skipped.
func ReadWords(r io.Reader) ([]uint16, error) {
	scanner := bufio.NewScanner(r)
	words := make([]uint16, 0)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())

		if text == "" {
			continue
		}

		word, err := DecodeWord(text)

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		words = append(words, word)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return words, nil
}

// Writes words as raw big-endian binary
func WriteBinary(w io.Writer, words []uint16) error {
	return binary.Write(w, binary.BigEndian, words)
}
