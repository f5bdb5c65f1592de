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
	"encoding/gob"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/lassandro/gohack/pkg/assembler"
	"github.com/lassandro/gohack/pkg/encoding"
	"github.com/lassandro/gohack/pkg/machine"
	"github.com/lassandro/gohack/pkg/term"
)

var stepsvar int
var peekvar []string
var symbolsvar string
var keyboardvar string
var binaryvar bool
var dumpvar bool

var rootCmd = &cobra.Command{
	Use:   "hack [-steps #] [-peek addr,...] filename",
	Short: "Runs Hack machine code",
	Long: `Hack loads a Hack program and runs it until it halts in a jump loop,
runs off the end of the program, or reaches the step limit. Memory cells named
with -peek are printed afterwards, by address or by symbol. Variable names
are read from the '.hackdb' file written by hackasm -debug.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return flag.CommandLine.Parse(nil)
	},
	RunE: hack,
}

func init() {
	flag.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.Flags().IntVar(
		&stepsvar, "steps", 1000000, "Maximum number of instructions to run",
	)
	rootCmd.Flags().StringSliceVar(
		&peekvar, "peek", nil,
		"Memory cells to print after running, as 0x####, # or a symbol",
	)
	rootCmd.Flags().StringVar(
		&symbolsvar, "symbols", "",
		"Symbol table written by hackasm -debug, defaults to the program "+
			"filename with extension '.hackdb'",
	)
	rootCmd.Flags().StringVar(
		&keyboardvar, "keyboard", "",
		"Characters fed to the keyboard register, one per read",
	)
	rootCmd.Flags().BoolVar(
		&binaryvar, "binary", false, "Loads raw big-endian words instead of text",
	)
	rootCmd.Flags().BoolVar(
		&dumpvar, "dump", false, "Prints the machine registers after running",
	)
}

func loadSymbols(filename string, required bool) (*assembler.DebugInfo, error) {
	file, err := os.Open(filename)

	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	defer file.Close()

	var info assembler.DebugInfo

	if err := gob.NewDecoder(file).Decode(&info); err != nil {
		return nil, fmt.Errorf("Error loading symbol file: %w", err)
	}

	return &info, nil
}

// Resolves a peek argument to an address. Variables from the debug table are
// tried first, then the predefined symbols, then numeric forms.
func resolve(name string, info *assembler.DebugInfo) (uint16, error) {
	if info != nil {
		if addr, exists := info.Variables[name]; exists {
			return addr, nil
		}
	}

	if addr, exists := assembler.NewSymbolTable().Lookup(name); exists {
		return addr, nil
	}

	addr, err := encoding.DecodeAddr(name)

	if err != nil {
		return 0, fmt.Errorf("Unable to find '%s'", name)
	}

	return addr, nil
}

func hack(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])

	if err != nil {
		return err
	}

	defer file.Close()

	var info *assembler.DebugInfo

	if symbolsvar != "" {
		info, err = loadSymbols(symbolsvar, true)
	} else {
		info, err = loadSymbols(
			strings.TrimSuffix(args[0], filepath.Ext(args[0]))+".hackdb", false,
		)
	}

	if err != nil {
		return err
	}

	addrs := make([]uint16, 0, len(peekvar))

	for _, name := range peekvar {
		addr, err := resolve(name, info)

		if err != nil {
			return err
		}

		addrs = append(addrs, addr)
	}

	var mc machine.Machine

	if keyboardvar != "" {
		mc.Devices = &machine.DeviceHandler{
			Keyboard: bufio.NewReader(strings.NewReader(keyboardvar)),
		}
	}

	if binaryvar {
		err = mc.LoadBin(file)
	} else {
		err = mc.LoadHack(file)
	}

	if err != nil {
		return err
	}

	taken := mc.Run(stepsvar)

	if mc.Err != nil {
		return fmt.Errorf("Stopped after %d steps at %#04x: %w", taken, mc.State.Program, mc.Err)
	}

	if mc.Halted {
		cmd.Printf("Halted after %d steps at %#04x\n", taken, mc.State.Program)
	} else {
		cmd.Printf("Stopped after %d steps at %#04x\n", taken, mc.State.Program)
	}

	for i, addr := range addrs {
		value := mc.Peek(addr)
		cmd.Printf("%s [%#04x] = %#04x (%d)\n", peekvar[i], addr, value, int16(value))
	}

	if dumpvar {
		printer := pp.New()
		printer.SetOutput(cmd.OutOrStdout())
		printer.SetColoringEnabled(term.IsTerminal(os.Stdout.Fd()))
		printer.Println(struct {
			A, D, Program uint16
			Halted        bool
		}{mc.State.A, mc.State.D, mc.State.Program, mc.Halted})
	}

	return nil
}

func main() {
	err := rootCmd.Execute()
	glog.Flush()

	if err != nil {
		rootCmd.PrintErrln("hack:", err)
		os.Exit(1)
	}
}
