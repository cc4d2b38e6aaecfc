package mddiff

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

const (
	colorClose   = "\x1b[0m"
	colorNeutral = "\x1b[37m"
	colorInsert  = "\x1b[32m"
	colorDelete  = "\x1b[31m"
	colorUpdate  = "\x1b[34m"
)

// FormatPrettyString is a convenice wrapper that outputs to a string instead of
// an io.Writer
func FormatPrettyString(doc *Document, colorTTY bool) (string, error) {
	buf := &bytes.Buffer{}
	if err := FormatPretty(buf, doc, colorTTY); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatPretty writes a comparison result to w as an indented tree, one key
// per line. Leaf values are JSON encoded. if colorTTY is true keys of nested
// documents are written in a neutral colour & differing leaves in green
func FormatPretty(w io.Writer, doc *Document, colorTTY bool) error {
	p := &prettyPrinter{w: w, path: docPath{}}
	if colorTTY {
		p.containerColor = colorNeutral
		p.leafColor = colorInsert
		p.closeColor = colorClose
	}
	return p.document(doc, 0)
}

type prettyPrinter struct {
	w    io.Writer
	path docPath

	containerColor, leafColor, closeColor string
}

func (p *prettyPrinter) document(doc *Document, indent int) error {
	if !p.path.enter(doc) {
		return errors.Wrap(ErrEncode, "document contains itself")
	}
	defer p.path.leave(doc)

	pad := strings.Repeat("  ", indent)
	for _, k := range doc.keys {
		v := doc.vals[k]
		if sub, ok := v.(*Document); ok && sub.Len() > 0 {
			fmt.Fprintf(p.w, "%s%s%s:%s\n", pad, p.containerColor, k, p.closeColor)
			if err := p.document(sub, indent+1); err != nil {
				return err
			}
			continue
		}

		data, err := leafJSON(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.w, "%s%s%s: %s%s\n", pad, p.leafColor, k, data, p.closeColor)
	}
	return nil
}

func leafJSON(v interface{}) (string, error) {
	buf := &bytes.Buffer{}
	if err := writeJSON(buf, v, docPath{}); err != nil {
		// NaN & infinities have no JSON representation
		if f, ok := v.(float64); ok {
			return fmt.Sprint(f), nil
		}
		return "", err
	}
	return buf.String(), nil
}

// FormatPrettyStats prints a string of stats info
func FormatPrettyStats(st *Stats) string {
	return formatStats(st, false)
}

// FormatPrettyStatsColor prints a string of stats info with ANSI colors
func FormatPrettyStatsColor(st *Stats) string {
	return formatStats(st, true)
}

func formatStats(st *Stats, color bool) string {
	var (
		neutralColor, insertColor, deleteColor, updateColor, closeColor string
	)

	if st == nil {
		return ""
	}

	if color {
		neutralColor = colorNeutral
		insertColor = colorInsert
		deleteColor = colorDelete
		updateColor = colorUpdate
		closeColor = colorClose
	}

	buf := &bytes.Buffer{}

	keysWord := "keys"
	if st.Visited == 1 {
		keysWord = "key"
	}
	buf.WriteString(fmt.Sprintf("%s%s %s compared.%s", neutralColor, humanize.Comma(int64(st.Visited)), keysWord, closeColor))

	diffColor := neutralColor
	if st.Differences() > 0 {
		diffColor = updateColor
	}
	diffsWord := "differences"
	if st.Differences() == 1 {
		diffsWord = "difference"
	}
	buf.WriteString(fmt.Sprintf(" %s%s %s (%.0f%%).%s", diffColor, humanize.Comma(int64(st.Differences())), diffsWord, st.PctChanged()*100, closeColor))

	buf.WriteString(fmt.Sprintf(" %s%s added.%s", insertColor, humanize.Comma(int64(st.Added)), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%s changed.%s", updateColor, humanize.Comma(int64(st.Changed)), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%s replaced.%s", deleteColor, humanize.Comma(int64(st.Replaced)), closeColor))

	buf.WriteRune('\n')

	return buf.String()
}
