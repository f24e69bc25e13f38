package extractor

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// glyphGap is the widest X gap, in points, between two single-character runs
// that still belong to the same word.
const glyphGap = 7.0

// readPDF returns the text rows of every page. The pdf library panics on some
// malformed streams, so panics are turned into errors.
func readPDF(buf []byte) (pages [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	total := reader.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages = make([][]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, pageRows(page))
	}
	return pages, nil
}

func pageRows(page pdf.Page) []string {
	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		out := make([]string, 0, len(rows))
		for _, row := range rows {
			if line := joinRuns(row.Content); line != "" {
				out = append(out, line)
			}
		}
		return out
	}
	return contentRows(page.Content().Text)
}

// contentRows groups raw content runs by rounded Y, top of the page first.
func contentRows(texts []pdf.Text) []string {
	byY := make(map[int64][]pdf.Text)
	for _, t := range texts {
		y := int64(math.Round(t.Y))
		byY[y] = append(byY[y], t)
	}

	ys := make([]int64, 0, len(byY))
	for y := range byY {
		ys = append(ys, y)
	}
	sort.Slice(ys, func(i, j int) bool { return ys[i] > ys[j] })

	out := make([]string, 0, len(ys))
	for _, y := range ys {
		row := byY[y]
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		if line := joinRuns(row); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// joinRuns concatenates the runs of one row. Runs are space separated unless
// both sides are single glyphs sitting close together.
func joinRuns(runs []pdf.Text) string {
	var sb strings.Builder
	for i, run := range runs {
		if i > 0 {
			prev := runs[i-1]
			glyphs := utf8.RuneCountInString(prev.S) == 1 && utf8.RuneCountInString(run.S) == 1
			if !glyphs || run.X-prev.X > glyphGap {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(run.S)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
