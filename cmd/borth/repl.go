package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
	"golang.org/x/term"

	"borth.dev/borth/pkg/borth"
)

// runREPL is grounded on the teacher's cmd/losp/repl.go, minus its raw-mode
// Alt-key glyph editor: Borth's word syntax is plain ASCII, so there's
// nothing for that machinery to type. What's kept is the TTY-detection
// branch and the backslash-continued multi-line input loop.
func runREPL(ctx context.Context, rt *borth.Runtime) {
	printBanner()
	if term.IsTerminal(int(os.Stdin.Fd())) {
		defer fmt.Println()
	}
	runBasicREPL(ctx, rt)
}

func printBanner() {
	fmt.Println("borth REPL (Ctrl+D to exit)")
	fmt.Println(`type "words" to list everything currently visible`)
	fmt.Println()
}

func runBasicREPL(ctx context.Context, rt *borth.Runtime) {
	reader := bufio.NewReader(os.Stdin)
	var multiline strings.Builder
	inMultiline := false

	for {
		if inMultiline {
			fmt.Print("... ")
		} else {
			fmt.Print("> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if strings.HasSuffix(line, "\\") {
			multiline.WriteString(strings.TrimSuffix(line, "\\"))
			multiline.WriteString("\n")
			inMultiline = true
			continue
		}

		var input string
		if inMultiline {
			multiline.WriteString(line)
			input = multiline.String()
			multiline.Reset()
			inMultiline = false
		} else {
			input = line
		}

		if strings.TrimSpace(input) == "" {
			continue
		}

		if input == "words" {
			for name := range rt.AllWords() {
				fmt.Println(name)
			}
			continue
		}

		if strings.HasPrefix(input, ":load ") {
			runLoadMeta(ctx, rt, input)
			continue
		}

		if err := rt.Run(ctx, input); err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		printStack(rt)
	}
}

// runLoadMeta handles the ":load <path>" REPL meta-command. Shell-style
// quoting lets a path containing spaces be written as :load "my card.borth"
// without Borth's own tokenizer getting involved.
func runLoadMeta(ctx context.Context, rt *borth.Runtime, input string) {
	args, err := shellquote.Split(strings.TrimPrefix(input, ":load "))
	if err != nil || len(args) != 1 {
		fmt.Println("usage: :load \"path/to/file.borth\"")
		return
	}
	f, err := os.Open(args[0])
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	defer f.Close()
	if err := rt.RunReader(ctx, f); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	printStack(rt)
}
