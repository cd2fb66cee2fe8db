// Package export renders computed patterns for people: CSV for spreadsheets,
// SVG for the lacing diagram and a styled table for terminals.
//
// Every renderer works from the method-agnostic models.Table and
// layout.Result, so new lacing methods need no export code of their own.
package export
