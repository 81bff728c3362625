// Package render turns server data into view models. Every function is pure:
// inputs are never mutated and the output depends only on the arguments, so
// both the Fyne window and the console draw from the same models.
package render
