package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"borth.dev/borth/internal/card"
	"borth.dev/borth/pkg/borth"
)

// runCardsCommand implements the "cards" subcommand:
// list/history/create/rollback/move over the card storage layer (spec.md §4.6/§6), the command-line surface
// SPEC_FULL.md §4 adds alongside -e/-f.
func runCardsCommand(args []string, dbPath string, memStore bool) {
	store, err := openStore(dbPath, memStore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening card store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: borth cards <list|history|create|rollback|move> ...")
		os.Exit(1)
	}

	switch args[0] {
	case "list":
		cardsList(store)
	case "history":
		if len(args) < 2 {
			fatalUsage("cards history <card-id>")
		}
		cardsHistory(store, args[1])
	case "create":
		cardsCreate(store, args[1:])
	case "rollback":
		if len(args) < 3 {
			fatalUsage("cards rollback <card-id> <version>")
		}
		cardsRollback(store, args[1], args[2])
	case "move":
		if len(args) < 2 {
			fatalUsage("cards move <card-id> [set-id]")
		}
		cardsMove(store, args[1], args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown cards subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func openStore(dbPath string, memStore bool) (card.Store, error) {
	if memStore {
		return card.NewMemory(), nil
	}
	return card.NewSQLite(dbPath)
}

func fatalUsage(usage string) {
	fmt.Fprintf(os.Stderr, "usage: borth %s\n", usage)
	os.Exit(1)
}

func cardsList(store card.Store) {
	sets, err := store.ListSets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	for _, s := range sets {
		fmt.Printf("%s\t%s\tcreated %s\n", s.ID, s.Name, humanize.Time(s.CreatedAt))
	}
}

func cardsHistory(store card.Store, id string) {
	history, err := store.GetCardHistory(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	for _, v := range history {
		fmt.Printf("v%d\t%s\t%d bytes\n", v.Version, humanize.Time(v.CreatedAt), len(v.Source))
	}
}

// cardsCreate accepts either an inline source argument or "-" to read
// source from stdin.
func cardsCreate(store card.Store, args []string) {
	if len(args) == 0 {
		fatalUsage(`cards create <source|"-"> [set-id]`)
	}
	source := args[0]
	if args[0] == "-" {
		var err error
		source, err = readAllStdin()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading stdin: %v\n", err)
			os.Exit(1)
		}
	}
	var setID *string
	if len(args) > 1 {
		setID = &args[1]
	}
	id, err := store.CreateCard(setID, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(id)
}

func cardsRollback(store card.Store, id, versionArg string) {
	version, err := borth.ParseVersion(versionArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	newVersion, err := store.RollbackCard(id, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("rolled back to v%d as new v%d\n", version, newVersion)
}

func cardsMove(store card.Store, id string, rest []string) {
	var setID *string
	if len(rest) > 0 {
		setID = &rest[0]
	}
	if err := store.MoveCard(id, setID); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

