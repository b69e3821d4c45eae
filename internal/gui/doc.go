// Package gui implements the Fyne desktop front end of the vocabulary card.
package gui
