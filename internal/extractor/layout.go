package extractor

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
)

// rowTolerance is the largest y difference, in layout units, between two text
// items printed on the same row.
const rowTolerance = 0.25

// layoutDocument is the page-layout JSON produced by pdf2json-style
// extractors. Some producers nest the pages under formImage.
type layoutDocument struct {
	FormImage *layoutBody  `json:"formImage"`
	Pages     []layoutPage `json:"Pages"`
}

type layoutBody struct {
	Pages []layoutPage `json:"Pages"`
}

type layoutPage struct {
	Texts []layoutText `json:"Texts"`
}

type layoutText struct {
	X float64     `json:"x"`
	Y float64     `json:"y"`
	R []layoutRun `json:"R"`
}

type layoutRun struct {
	T string `json:"T"`
}

func readLayout(buf []byte) ([][]string, error) {
	var doc layoutDocument
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode layout document: %w", err)
	}

	pages := doc.Pages
	if len(pages) == 0 && doc.FormImage != nil {
		pages = doc.FormImage.Pages
	}
	if pages == nil {
		return nil, fmt.Errorf("layout document has no Pages")
	}

	out := make([][]string, 0, len(pages))
	for _, page := range pages {
		out = append(out, layoutRows(page.Texts))
	}
	return out, nil
}

// layoutRows keeps document order and starts a new row whenever the y
// coordinate moves.
func layoutRows(texts []layoutText) []string {
	var (
		rows    []string
		current []string
		rowY    float64
	)
	flush := func() {
		if len(current) > 0 {
			rows = append(rows, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for i, text := range texts {
		if i > 0 && math.Abs(text.Y-rowY) > rowTolerance {
			flush()
		}
		if len(current) == 0 {
			rowY = text.Y
		}
		for _, run := range text.R {
			if s := decodeRun(run.T); strings.TrimSpace(s) != "" {
				current = append(current, s)
			}
		}
	}
	flush()
	return rows
}

// decodeRun undoes the URI escaping of a run. Malformed escapes keep the raw text.
func decodeRun(t string) string {
	decoded, err := url.PathUnescape(t)
	if err != nil {
		return t
	}
	return decoded
}
