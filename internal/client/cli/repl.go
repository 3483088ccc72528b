package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate. The
// gallery editor satisfies it; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Add(ctx context.Context, patterns []string) error
	Remove(ctx context.Context, refs []string) error
	Move(ctx context.Context, ref, to string) error
	Over(ctx context.Context, ref, overRef string) error
	Feature(ctx context.Context, ref string) error
	Changes(ctx context.Context) error
	Submit(ctx context.Context) error
	Abandon(ctx context.Context) error
	Done() bool
}

const replHelp = `Available commands:
  list | l                  show the photos in gallery order (* marks the cover)
  add <file|glob>...        add local photos
  remove | rm <ref>...      remove photos
  move | mv <ref> <pos>     move a photo to a position
  over <ref> <ref>          drop a photo onto another one
  feature <ref>             make a photo the cover
  changes                   show what submit would send
  submit                    send the edits to the server
  abandon | exit | quit     discard the edits and leave
A <ref> is a 1-based position or a photo id.`

// runREPL reads commands from scanner and dispatches them to a until the user
// leaves, the session is settled or abandoned, or input ends. statusFn, when
// non-nil, renders the prompt. Leaving with unsent edits discards them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	defer func() {
		if !a.Done() {
			_ = a.Abandon(ctx)
		}
	}()

	for !a.Done() {
		if statusFn != nil {
			printlnFn(fmt.Sprintf("gallery %s > ", statusFn()))
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(replHelp)

		case "l", "list":
			err = a.List(ctx)

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add <file|glob>...")
				continue
			}
			err = a.Add(ctx, args)

		case "rm", "remove":
			if len(args) == 0 {
				printlnFn("Usage: remove <ref>...")
				continue
			}
			err = a.Remove(ctx, args)

		case "mv", "move":
			if len(args) != 2 {
				printlnFn("Usage: move <ref> <position>")
				continue
			}
			err = a.Move(ctx, args[0], args[1])

		case "over":
			if len(args) != 2 {
				printlnFn("Usage: over <ref> <ref>")
				continue
			}
			err = a.Over(ctx, args[0], args[1])

		case "feature":
			if len(args) != 1 {
				printlnFn("Usage: feature <ref>")
				continue
			}
			err = a.Feature(ctx, args[0])

		case "changes":
			err = a.Changes(ctx)

		case "submit":
			err = a.Submit(ctx)

		case "abandon", "exit", "quit":
			err = a.Abandon(ctx)

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
