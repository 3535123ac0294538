package main

import (
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// countRows turns a histogram into table rows. With an explicit order the
// listed keys come first, zero counts included; remaining keys follow by
// descending count.
func countRows(counts map[string]int, order []string) [][]string {
	rows := make([][]string, 0, len(counts))
	seen := make(map[string]bool, len(order))
	for _, key := range order {
		seen[key] = true
		rows = append(rows, []string{key, strconv.Itoa(counts[key])})
	}
	rest := make([]string, 0, len(counts))
	for key := range counts {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if counts[rest[i]] != counts[rest[j]] {
			return counts[rest[i]] > counts[rest[j]]
		}
		return rest[i] < rest[j]
	})
	for _, key := range rest {
		rows = append(rows, []string{key, strconv.Itoa(counts[key])})
	}
	return rows
}
