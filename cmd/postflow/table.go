package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const maxCellWidth = 72

// listing renders CLI output as a rounded go-pretty table. Long cells wrap
// at maxCellWidth so release paths do not blow out the terminal.
type listing struct {
	tw      table.Writer
	columns int
	right   map[int]bool
}

func newListing(headers ...string) *listing {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	return &listing{tw: tw, columns: len(headers), right: map[int]bool{}}
}

// alignRight right-aligns the given zero-based columns.
func (l *listing) alignRight(columns ...int) *listing {
	for _, c := range columns {
		l.right[c] = true
	}
	return l
}

func (l *listing) add(cells ...string) {
	row := make(table.Row, l.columns)
	for i := 0; i < l.columns && i < len(cells); i++ {
		row[i] = cells[i]
	}
	l.tw.AppendRow(row)
}

func (l *listing) String() string {
	if l.columns == 0 {
		return ""
	}
	configs := make([]table.ColumnConfig, 0, l.columns)
	for i := range l.columns {
		align := text.AlignLeft
		if l.right[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:           i + 1,
			Align:            align,
			AlignHeader:      text.AlignLeft,
			WidthMax:         maxCellWidth,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}
	l.tw.SetColumnConfigs(configs)
	return l.tw.Render()
}
