// Package cli implements the interactive recipebox client.
//
// The client is a read-eval-print loop: the user logs in once and then
// browses, creates and reviews recipes with short commands such as
// "list soup", "show 3" or "review 3". Type "help" for the full list.
package cli
