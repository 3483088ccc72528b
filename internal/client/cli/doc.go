// Package cli provides the gallery editor's command-line interface.
//
// The command tree is built by (*App).Command:
//
//	editor ping
//	editor vehicle show <id>
//	editor vehicle create --make .. --model .. --year .. [--image glob]...
//	editor vehicle update <id> [fields] [--image glob]... [--remove ref]...
//	editor gallery list <id>
//	editor gallery edit <id>
//
// "gallery edit" seeds an editing session from the server and starts a REPL
// (see runREPL) while a background watcher tracks whether the server is
// reachable. Items are referred to by their 1-based position or by id.
package cli
