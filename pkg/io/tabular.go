package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/roster"
)

// ReadCSV decodes a column-per-act roster. Rows may be ragged.
func ReadCSV(r io.Reader) ([]roster.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidRoster, err, "csv")
	}
	return columns(rows)
}

// ReadXLSX decodes a column-per-act roster from a workbook. An empty sheet
// name selects the first sheet.
func ReadXLSX(r io.Reader, sheet string) ([]roster.Entry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidRoster, err, "open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, lerrors.New(lerrors.ErrCodeInvalidRoster, "workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidRoster, err, "sheet %q", sheet)
	}
	return columns(rows)
}

// WriteXLSX writes entries as a column-per-act workbook with a single sheet.
func WriteXLSX(w io.Writer, entries []roster.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, e := range entries {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, e.Name); err != nil {
			return err
		}
		for row, p := range e.Performers {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, p); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// columns turns a header row plus cells into entries. Unlabelled columns
// are skipped; a labelled column with no cells yields an act with no
// performers, which roster.Build drops.
func columns(rows [][]string) ([]roster.Entry, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	var entries []roster.Entry
	for col, header := range rows[0] {
		name := strings.TrimSpace(header)
		if name == "" || placeholderHeader(name) {
			continue
		}
		if err := lerrors.ValidateActName(name); err != nil {
			return nil, fmt.Errorf("column %d: %w", col+1, err)
		}
		e := roster.Entry{Name: name}
		for _, row := range rows[1:] {
			if col < len(row) {
				if cell := strings.TrimSpace(row[col]); cell != "" {
					e.Performers = append(e.Performers, cell)
				}
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// placeholderHeader reports whether name is the "Unnamed: N" label a
// spreadsheet export gives a column with an empty header.
func placeholderHeader(name string) bool {
	n, ok := strings.CutPrefix(name, "Unnamed: ")
	if !ok {
		return false
	}
	_, err := strconv.Atoi(n)
	return err == nil
}
