package main

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/kvarga/llgrammar"
	"github.com/pterm/pterm"
)

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// printSummary prints a colorized overview of a's terminals, nonterminals,
// FIRST/FOLLOW sets, and LL(1) verdict, the way the companion driver's `run`
// subcommand reports on a freshly analyzed grammar.
func printSummary(a *llgrammar.Analyzer, color bool) {
	info, errP := pterm.Info, pterm.Error
	if !color {
		pterm.DisableColor()
		defer pterm.EnableColor()
	}

	info.Printfln("nonterminals: %s", strings.Join(a.Variables(), ", "))
	info.Printfln("terminals: %s", strings.Join(a.Terminals(), ", "))

	for _, nt := range a.Variables() {
		first, _ := a.First(nt)
		follow, _ := a.Follow(nt)
		info.Printfln("FIRST(%s) = { %s }", nt, strings.Join(sortedSet(first), ", "))
		info.Printfln("FOLLOW(%s) = { %s }", nt, strings.Join(sortedSet(follow), ", "))
	}

	if a.IsLL1() {
		info.Printfln("grammar is LL(1)")
	} else {
		errP.Printfln("grammar is not LL(1)")
	}
}

// renderTableText renders the LL(1) parsing table as a fixed-width text
// table via dekarrin/rosed, the same InsertTableOpts shape the reference
// automaton tables use for their own String() methods. It returns the empty
// string if the grammar is not LL(1).
func renderTableText(a *llgrammar.Analyzer) string {
	if !a.IsLL1() {
		return ""
	}

	terms := append(append([]string(nil), a.Terminals()...), llgrammar.EndMarker)

	header := append([]string{"NT"}, terms...)
	data := [][]string{header}

	for _, nt := range a.Variables() {
		row := []string{nt}
		for _, t := range terms {
			cell, _ := a.ProductionFor(nt, t)
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 20, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

const htmlTableTmpl = `<table border="1">
<tr><th>NT</th>{{range .Terminals}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr><td>{{.Nonterminal}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
`

type htmlRow struct {
	Nonterminal string
	Cells       []string
}

// renderTableHTML renders the LL(1) parsing table as an HTML <table> using
// the standard library's html/template; no example in the retrieval pack
// renders HTML output, so the standard library is the only available
// option here (see DESIGN.md).
func renderTableHTML(w io.Writer, a *llgrammar.Analyzer) error {
	if !a.IsLL1() {
		return fmt.Errorf("grammar is not LL(1): no table to render")
	}

	terms := append(append([]string(nil), a.Terminals()...), llgrammar.EndMarker)

	var rows []htmlRow
	for _, nt := range a.Variables() {
		row := htmlRow{Nonterminal: nt}
		for _, t := range terms {
			cell, _ := a.ProductionFor(nt, t)
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}

	tmpl, err := template.New("table").Parse(htmlTableTmpl)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, struct {
		Terminals []string
		Rows      []htmlRow
	}{Terminals: terms, Rows: rows})
}
