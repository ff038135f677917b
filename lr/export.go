package lr

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/pingcap/errors"
)

// ItemSetsAsGraphViz exports the item set automaton to the Graphviz Dot format.
func ItemSetsAsGraphViz(lrgen *TableGenerator, w io.Writer) error {
	if lrgen.itemsets == nil {
		return errors.New("item sets not yet created, cannot export to GraphViz")
	}
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range lrgen.itemsets {
		fmt.Fprintf(&b, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s))
	}
	for _, e := range lrgen.edges {
		fmt.Fprintf(&b, "s%03d -> s%03d [label=\"%s\"]\n", e.from, e.to, escapeDot(e.label.Name()))
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodecolor(s *ItemSet) string {
	for _, i := range s.CompleteItems() {
		if i.Production.ID == 0 {
			return "lightgray"
		}
	}
	return "white"
}

func forGraphviz(s *ItemSet) string {
	items := make([]string, len(s.Items))
	for k, i := range s.Items {
		items[k] = escapeDot(i.String())
	}
	return strings.Join(items, "\\l") + "\\l"
}

var dotEscaper = strings.NewReplacer(
	`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func escapeDot(s string) string {
	return dotEscaper.Replace(s)
}

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) error {
	if lrgen.gototable == nil {
		return errors.New("GOTO table not yet created, cannot export to HTML")
	}
	var header []string
	for _, N := range lrgen.g.nonterminals {
		header = append(header, N.Name())
	}
	return parserTableAsHTML(w, "GOTO", header, lrgen.gototable.States(), func(state, col int) string {
		if d := lrgen.gototable.Goto(state, col); d >= 0 {
			return fmt.Sprintf("%d", d)
		}
		return ""
	})
}

// ActionTableAsHTML exports the SLR(1) ACTION-table in HTML-format. Columns
// are the terminals of the grammar in order of registration.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) error {
	if lrgen.actiontable == nil {
		return errors.New("ACTION table not yet created, cannot export to HTML")
	}
	var header []string
	for _, t := range lrgen.g.terminals {
		header = append(header, t.Name())
	}
	return parserTableAsHTML(w, "ACTION", header, lrgen.actiontable.States(), func(state, col int) string {
		return lrgen.actiontable.Action(state, lrgen.g.terminals[col].class).String()
	})
}

func parserTableAsHTML(w io.Writer, tname string, header []string, rows int, cell func(int, int) string) error {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	fmt.Fprintf(&b, "%s table with %d states<p>", tname, rows)
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	for _, h := range header {
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(h))
	}
	b.WriteString("</tr>\n")
	for state := 0; state < rows; state++ {
		fmt.Fprintf(&b, "<tr><td>state %d</td>\n", state)
		for col := range header {
			td := cell(state, col)
			if td == "" {
				td = "&nbsp;"
			}
			fmt.Fprintf(&b, "<td>%s</td>\n", td)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}
