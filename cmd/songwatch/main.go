// cmd/songwatch/main.go
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/avocetlabs/songwatch/internal/action"
	"github.com/avocetlabs/songwatch/internal/trigger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "validate":
		err = cmdValidate(args)
	case "actions":
		err = cmdActions()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cmdValidate loads a trigger file against the built-in actions and
// reports what a session would run.
func cmdValidate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: songwatch validate <triggers.yaml>")
	}

	registry := action.NewRegistry(os.Stdout)
	triggers, err := trigger.LoadTriggers(args[0], registry)
	if err != nil {
		return err
	}

	fmt.Printf("%s: OK (%d triggers)\n", args[0], len(triggers))
	for i, trig := range triggers {
		fmt.Printf("  %d. %s\n", i+1, trig)
	}
	return nil
}

// cmdActions lists the callback names a trigger file may reference.
func cmdActions() error {
	registry := action.NewRegistry(os.Stdout)
	names := registry.Names()
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: songwatch <command>

Commands:
  validate <triggers.yaml>  Validate a trigger configuration file
  actions                   List available action callbacks`)
}
