// Package ui implements the terminal front end using bubbletea's Elm architecture.
//
// The screen has a query input, a list of search results and two comparison panels.
// Every user action and every settled gateway call goes through [session.Reduce]; gateway calls run as [tea.Cmd]s and come
// back as messages, so a search and a selection can be in flight together without blocking the screen.
//
// Keys: enter searches, tab moves focus between the input and the results, 1 and 2 pick the highlighted result into
// a slot, esc returns to the input, q (from the results) or ctrl+c quits.
package ui
