// Command borth is the Borth interpreter CLI.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"borth.dev/borth/pkg/borth"
)

func main() {
	var (
		evalStr  = flag.String("e", "", "Evaluate Borth source")
		file     = flag.String("f", "", "Execute a Borth source file")
		dbPath   = flag.String("db", "borth.db", "SQLite card database path")
		memStore = flag.Bool("mem", false, "Use an in-memory card store instead of -db")
		unbound  = flag.Bool("unbound-word-as-string", false, "Treat unresolved words as string literals")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [cards <subcommand> ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 0 && flag.Arg(0) == "cards" {
		runCardsCommand(flag.Args()[1:], *dbPath, *memStore)
		return
	}

	opts := []borth.Option{}
	if *memStore {
		opts = append(opts, borth.WithMemoryStore())
	} else {
		opts = append(opts, borth.WithSQLiteStore(*dbPath))
	}
	if *unbound {
		opts = append(opts, borth.WithDefaultOption("unbound-word-as-string", true))
	}

	rt := borth.New(opts...)
	defer rt.Close()

	ctx := context.Background()

	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := rt.RunReader(ctx, f); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	if *evalStr != "" {
		if err := rt.Run(ctx, *evalStr); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		printStack(rt)
		return
	}

	switch {
	case *file != "":
		printStack(rt)
	case !isTerminal(os.Stdin):
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading stdin: %v\n", err)
			os.Exit(1)
		}
		if err := rt.Run(ctx, string(input)); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		printStack(rt)
	default:
		runREPL(ctx, rt)
	}
}

func printStack(rt *borth.Runtime) {
	stack := rt.Stack()
	if len(stack) == 0 {
		return
	}
	for _, v := range stack {
		fmt.Println(borth.FormatValue(v))
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// readAllStdin is a small helper kept next to main for the cards
// subcommand's "create from stdin" mode.
func readAllStdin() (string, error) {
	var b []byte
	r := bufio.NewReader(os.Stdin)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		b = append(b, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return string(b), nil
}
