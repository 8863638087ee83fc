// main.go - entry point for the Transam Triton assembler, trasm.

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/patrickbwarren/transam-triton/assembler"
)

func boilerPlate() {
	fmt.Println("trasm - Transam Triton relocatable macro assembler")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	var (
		verbose     bool
		sortAlpha   bool
		unsorted    bool
		spaced      bool
		toStdout    bool
		outFile     string
		originFlag  string
		serialDev   string
		showVersion bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.BoolVar(&verbose, "v", false, "print a symbol table listing after assembly")
	flagSet.BoolVar(&sortAlpha, "a", false, "sort the symbol listing alphabetically")
	flagSet.BoolVar(&unsorted, "u", false, "leave the symbol listing in definition order")
	flagSet.BoolVar(&spaced, "s", false, "use extra column spacing in the listing")
	flagSet.BoolVar(&toStdout, "p", false, "pipe assembled bytes to stdout")
	flagSet.StringVar(&outFile, "o", "", "write assembled bytes to FILE")
	flagSet.StringVar(&originFlag, "g", "0", "initial ORG address (hex or decimal)")
	flagSet.StringVar(&serialDev, "t", "", "transmit assembled bytes to serial DEVICE at 300 baud")
	flagSet.BoolVar(&showVersion, "h", false, "print version banner and exit")

	flagSet.Usage = func() {
		fmt.Println("Usage: trasm [-v] [-a|-u] [-s] [-p] [-o file] [-g addr] [-t device] source.tri")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if showVersion {
		boilerPlate()
		os.Exit(0)
	}

	args := flagSet.Args()
	if len(args) != 1 {
		flagSet.Usage()
		os.Exit(1)
	}
	source := args[0]

	origin, err := parseUint16(originFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -g: %v\n", err)
		os.Exit(1)
	}

	var sinks []assembler.ByteSink
	var closers []io.Closer

	if toStdout {
		sinks = append(sinks, assembler.WriterSink{W: os.Stdout})
	}
	if outFile != "" {
		f, sink, err := assembler.OpenFileSink(outFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open %q: %v\n", outFile, err)
			os.Exit(1)
		}
		sinks = append(sinks, sink)
		closers = append(closers, f)
	}
	if serialDev != "" {
		f, restore, err := assembler.OpenSerialDevice(serialDev)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open serial device %q: %v\n", serialDev, err)
			os.Exit(1)
		}
		sinks = append(sinks, assembler.NewSerialSink(f))
		defer restore()
	}

	asm := assembler.NewAssembler(
		assembler.WithOrigin(origin),
		assembler.WithSinks(sinks...),
		assembler.WithVerbose(verbose),
	)

	if err := asm.Assemble(source); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		for _, c := range closers {
			c.Close()
		}
		os.Exit(1)
	}

	for _, w := range asm.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	if undef := asm.Symbols.Undefined(); len(undef) > 0 {
		fmt.Fprintf(os.Stderr, "undefined symbol(s) referenced (emitted as 0): %v\n", undef)
	}

	if verbose {
		order := assembler.OrderInsertion
		switch {
		case sortAlpha:
			order = assembler.OrderAlphabetical
		case unsorted:
			order = assembler.OrderInsertion
		}
		printSymbols(os.Stdout, asm.Symbols.Listing(order), spaced)
	}

	for _, c := range closers {
		c.Close()
	}
}

func printSymbols(w io.Writer, entries []assembler.ListEntry, spaced bool) {
	sep := "  "
	if spaced {
		sep = "     "
	}
	fmt.Fprintf(w, "\nSymbol table (%d entries):\n", len(entries))
	for _, e := range entries {
		status := "    "
		if !e.Value.Defined {
			status = "   ?"
		}
		fmt.Fprintf(w, "%-16s%s0x%04X%s%s\n", e.Name, sep, e.Value.V, sep, status)
	}
}

func parseUint16(s string) (uint16, error) {
	var v int64
	_, err := fmt.Sscanf(s, "0x%x", &v)
	if err != nil {
		_, err = fmt.Sscanf(s, "%d", &v)
	}
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 0xFFFF {
		return 0, fmt.Errorf("value out of range: %s", s)
	}
	return uint16(v), nil
}
