package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	DeleteAccount(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Find(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Tag(ctx context.Context, args []string) error
	TagShow(ctx context.Context, args []string) error
	TagRename(ctx context.Context, args []string) error
	TagDelete(ctx context.Context, args []string) error
	Review(ctx context.Context, args []string) error
	Reviews(ctx context.Context, args []string) error
	Unreview(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: (l)ist [term], find <name>, show <id>, add, delete <id>, " +
		"tag <recipe-id> <name>, tagshow <id>, tagrename <id> <name>, tagdelete <id>, " +
		"review <recipe-id>, reviews <recipe-name>, unreview <id>, logout, deleteaccount, exit"
)

// runREPL reads commands from in until EOF or "exit"/"quit". The first
// word of a line selects the command; the rest are its arguments. Commands
// other than register, login and help need a session. Command errors are
// printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rb %s> ", statusFn()))

		line, readErr := in.ReadString('\n')
		if readErr != nil && (!errors.Is(readErr, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var run func(context.Context, []string) error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "register":
			run = a.Register
		case "login":
			run = a.Login
		case "logout":
			run = a.Logout
		case "deleteaccount":
			run = a.DeleteAccount
		case "l", "list":
			run = a.List
		case "find":
			run = a.Find
		case "show":
			run = a.Show
		case "add":
			run = a.Add
		case "delete":
			run = a.Delete
		case "tag":
			run = a.Tag
		case "tagshow":
			run = a.TagShow
		case "tagrename":
			run = a.TagRename
		case "tagdelete":
			run = a.TagDelete
		case "review":
			run = a.Review
		case "reviews":
			run = a.Reviews
		case "unreview":
			run = a.Unreview
		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if cmd != "register" && cmd != "login" && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		if err := run(ctx, args); err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
