// Package io reads rosters from the formats show organisers keep them in.
//
// # Formats
//
// Text: one act per line, the act name and a comma separated cast split by
// the first colon. Blank lines and lines starting with '#' are ignored:
//
//	Opening: Avery, Blake, Casey
//	Tango: Blake, Dana
//
// Tabular (CSV and XLSX): each column header is an act name and every
// non-empty cell below it is a performer. Columns with an empty header, or
// a header starting with "Unnamed" as spreadsheet exports label them, are
// skipped.
//
// JSON, YAML and TOML hold a list of acts:
//
//	{"acts": [{"name": "Opening", "performers": ["Avery", "Blake"]}]}
//
// JSON input is validated against the roster schema (see [Schema]) before
// decoding, so errors point at the offending path.
//
// # Errors
//
// Every reader returns an INVALID_ROSTER error naming the line, column or
// path at fault. [Load] reports FILE_NOT_FOUND for missing files and
// INVALID_FORMAT for extensions it does not know.
//
// Readers return entries, not rosters: [roster.Build] applies trimming,
// dropping and duplicate checks uniformly for every format.
package io
