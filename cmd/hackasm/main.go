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
	"bufio"
	"bytes"
	"encoding/gob"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/lassandro/gohack/pkg/assembler"
	"github.com/lassandro/gohack/pkg/encoding"
	"github.com/lassandro/gohack/pkg/term"
)

var debugvar bool
var prunedvar bool
var binaryvar bool
var dumpvar bool
var outvar string

// Returned once a diagnostic has been printed
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "hackasm [-debug] [-o outfile] [filename]",
	Short: "Assembles Hack assembly into Hack machine code",
	Long: `Hackasm translates a Hack assembly file into Hack machine code, one
16 character binary word per line. When no filename is given and stdin is a
pipe, the source is read from stdin and written to out.hack.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog expects its flag set to have been parsed
		return flag.CommandLine.Parse(nil)
	},
	RunE: hackasm,
}

func init() {
	flag.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.Flags().BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.hackdb'",
	)
	rootCmd.Flags().BoolVar(
		&prunedvar, "pruned", false,
		"Also writes the cleaned source, one instruction per line, using "+
			"the output filename with extension '.pruned.asm'",
	)
	rootCmd.Flags().BoolVar(
		&binaryvar, "binary", false,
		"Writes raw big-endian words instead of text",
	)
	rootCmd.Flags().BoolVar(
		&dumpvar, "dump-symbols", false,
		"Prints the final symbol table to stderr",
	)
	rootCmd.Flags().StringVarP(
		&outvar, "out", "o", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
}

type output struct {
	path string
	data []byte
}

// Writes every output, removing the ones already written if any fails
func writeOutputs(outputs []output) error {
	for i := range outputs {
		glog.V(1).Infof("writing %d bytes to %s", len(outputs[i].data), outputs[i].path)

		err := os.WriteFile(outputs[i].path, outputs[i].data, 0666)

		if err == nil {
			continue
		}

		for _, written := range outputs[:i] {
			if err := os.Remove(written.path); err != nil {
				glog.Warning(err)
			}
		}

		return fmt.Errorf("Error writing %s: %w", outputs[i].path, err)
	}

	return nil
}

func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func readLines(input io.Reader) ([]string, error) {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(input)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines, scanner.Err()
}

// Prints err, underlining the offending source when its position is known
func report(cmd *cobra.Command, prefix string, lines []string, err error) {
	color := term.IsTerminal(os.Stderr.Fd())

	if color {
		prefix = "\033[1m" + prefix + "\033[0m"
	}

	tokenErr, ok := err.(assembler.TokenError)

	if !ok {
		cmd.PrintErrf("%s %s\n", prefix, err)
		return
	}

	cursor := tokenErr.GetPosition()

	if cursor.Line < 1 || cursor.Line > len(lines) {
		cmd.PrintErrf("%s %s\n", prefix, err)
		return
	}

	line := lines[cursor.Line-1]

	// Keep tabs so the underline lines up with the source
	var underline strings.Builder

	for i := 0; i < cursor.Column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			underline.WriteByte('\t')
		} else {
			underline.WriteByte(' ')
		}
	}

	underline.WriteByte('^')

	if cursor.Size > 1 {
		underline.WriteString(strings.Repeat("~", cursor.Size-1))
	}

	marker := underline.String()

	if color {
		marker = "\033[31m" + marker + "\033[0m"
	}

	cmd.PrintErrf("%s %s\n%s\n%s\n", prefix, err, line, marker)
}

func hackasm(cmd *cobra.Command, args []string) error {
	var infile string
	var input io.Reader
	var prefix string

	ext := ".hack"

	if binaryvar {
		ext = ".bin"
	}

	if stat, _ := os.Stdin.Stat(); len(args) == 0 &&
		stat != nil && stat.Mode()&os.ModeCharDevice == 0 {
		input = os.Stdin
		prefix = "<stdin>:"

		if outvar == "" {
			outvar = "out" + ext
		}
	} else {
		if len(args) != 1 {
			cmd.Usage()
			return errReported
		}

		file, err := os.Open(args[0])

		if err != nil {
			return err
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			return err
		} else if stat.IsDir() {
			return fmt.Errorf("%s is not a valid Hack assembly file", filename)
		}

		input = file
		infile = file.Name()
		prefix = filename + ":"

		if outvar == "" {
			outvar = withExt(filename, ext)
		}
	}

	lines, err := readLines(input)

	if err != nil {
		return err
	}

	program, err := assembler.NewAssembler().Run(lines)

	if err != nil {
		report(cmd, prefix, lines, err)
		return errReported
	}

	// Every output is encoded before any file is written
	buffer := new(bytes.Buffer)

	if binaryvar {
		err = encoding.WriteBinary(buffer, program.Words)
	} else {
		err = encoding.WriteWords(buffer, program.Words)
	}

	if err != nil {
		return fmt.Errorf("Error writing output file: %w", err)
	}

	outputs := []output{{outvar, buffer.Bytes()}}

	if prunedvar {
		var builder strings.Builder

		for _, stmt := range program.Statements {
			builder.WriteString(stmt.Text)
			builder.WriteByte('\n')
		}

		outputs = append(outputs, output{
			withExt(outvar, ".pruned.asm"), []byte(builder.String()),
		})
	}

	if debugvar {
		source := ""

		if infile != "" {
			if source, err = filepath.Abs(infile); err != nil {
				glog.Warning(err)
				source = ""
			}
		}

		symtable := new(bytes.Buffer)

		if err := gob.NewEncoder(symtable).Encode(program.Debug(source)); err != nil {
			return fmt.Errorf("Error writing symbol table: %w", err)
		}

		outputs = append(outputs, output{
			withExt(outvar, ".hackdb"), symtable.Bytes(),
		})
	}

	if err := writeOutputs(outputs); err != nil {
		return err
	}

	if dumpvar {
		printer := pp.New()
		printer.SetOutput(cmd.ErrOrStderr())
		printer.SetColoringEnabled(term.IsTerminal(os.Stderr.Fd()))
		printer.Println(program.Symbols.Entries())
	}

	return nil
}

func main() {
	err := rootCmd.Execute()
	glog.Flush()

	if err != nil {
		if err != errReported {
			rootCmd.PrintErrln("hackasm:", err)
		}
		os.Exit(1)
	}
}
