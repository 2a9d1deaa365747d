package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/domclone/pkg/dom"
	pkgio "github.com/matzehuels/domclone/pkg/io"
)

// classCount is one row of the inspect table.
type classCount struct {
	Class     string
	Instances int
	UniqueIDs int
	Refs      int
}

// docSummary describes the part of a document reachable from its root.
type docSummary struct {
	Instances int
	TopLevel  int
	MaxDepth  int
	UniqueIDs int
	Refs      int // non-null Ref properties
	Dangling  int
	Classes   []classCount // sorted by instance count, then class
}

// summarize counts what lies below d's root; the root itself is excluded.
func summarize(d *dom.Document) docSummary {
	var s docSummary
	byClass := make(map[string]*classCount)

	var walk func(ref dom.Ref, depth int)
	walk = func(ref dom.Ref, depth int) {
		inst, ok := d.Get(ref)
		if !ok {
			s.Dangling++
			return
		}
		s.Instances++
		s.MaxDepth = max(s.MaxDepth, depth)
		cc, ok := byClass[inst.Class]
		if !ok {
			cc = &classCount{Class: inst.Class}
			byClass[inst.Class] = cc
		}
		cc.Instances++
		for k, v := range inst.Properties {
			switch v := v.(type) {
			case dom.UniqueID:
				if k == dom.UniqueIDProperty {
					s.UniqueIDs++
					cc.UniqueIDs++
				}
			case dom.Ref:
				if !v.IsNone() {
					s.Refs++
					cc.Refs++
				}
			}
		}
		for _, c := range inst.Children() {
			walk(c, depth+1)
		}
	}

	root := d.Root()
	if root == nil {
		return s
	}
	for _, c := range root.Children() {
		if _, ok := d.Get(c); ok {
			s.TopLevel++
		}
		walk(c, 1)
	}

	for _, cc := range byClass {
		s.Classes = append(s.Classes, *cc)
	}
	slices.SortFunc(s.Classes, func(a, b classCount) int {
		if n := cmp.Compare(b.Instances, a.Instances); n != 0 {
			return n
		}
		return cmp.Compare(a.Class, b.Class)
	})
	return s
}

// renderClassTable renders the per-class counts as a bordered table.
func renderClassTable(classes []classCount) string {
	rows := make([][]string, len(classes))
	for i, cc := range classes {
		rows[i] = []string{cc.Class, strconv.Itoa(cc.Instances), strconv.Itoa(cc.UniqueIDs), strconv.Itoa(cc.Refs)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Class", "Instances", "UniqueIds", "Refs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return styleHeader
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)
		})
	return t.Render()
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a document's classes and properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			doc, err := pkgio.ImportFile(args[0])
			if err != nil {
				return err
			}
			s := summarize(doc)
			prog.done(fmt.Sprintf("Read %s", plural(doc.Len(), "instance", "instances")))

			fmt.Println(StyleTitle.Render(args[0]))
			if s.Instances == 0 {
				printInfo("Document has no instances under its root")
				return nil
			}
			fmt.Println(renderClassTable(s.Classes))
			printKeyValue("Instances", strconv.Itoa(s.Instances))
			printKeyValue("Top-level", strconv.Itoa(s.TopLevel))
			printKeyValue("Max depth", strconv.Itoa(s.MaxDepth))
			printKeyValue("UniqueIds", strconv.Itoa(s.UniqueIDs))
			printKeyValue("Refs", strconv.Itoa(s.Refs))
			if s.Dangling > 0 {
				printWarning("%s", plural(s.Dangling, "dangling child link", "dangling child links"))
			}
			return nil
		},
	}
}
