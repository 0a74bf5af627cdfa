package catalog

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"grazbib/internal/models"
	"grazbib/internal/validate"
)

// Positional columns of the Exemplare table. The catalog renders the
// holdings table with a fixed column order; FRIST (due date, index 6)
// is skipped.
const (
	colBranch = iota
	colCallNumber
	colSection
	colStatus
	colReservations
	colMediumType
	_ // due date
	colBarcode
)

// minCopyCells is the cell count below which a table row is not a
// holdings row.
const minCopyCells = 4

// ParseBookDetail extracts the field set of a book detail page. Every
// field is optional and extracted independently; an untraversable
// document yields an empty record, never an error.
func (p *Parser) ParseBookDetail(html string) *models.Detail {
	detail := &models.Detail{Availability: models.DefaultAvailability}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Error("Error parsing book detail", "error", err)
		return detail
	}

	text := doc.Text()

	detail.Title = firstText(doc.Selection, "h1", "h2.title", "div.title")
	detail.MediumType = fieldByLabel(text, "Mediengruppe")
	detail.Author = trimAuthorLink(fieldByLabel(text, "Verfasser"))
	detail.Publisher = fieldByLabel(text, "Verlag")
	detail.Language = fieldByLabel(text, "Sprache")
	detail.Series = normalizeSeries(fieldByLabel(text, "Reihe"))
	detail.OriginalTitle = fieldByLabel(text, "Originaltitel")
	detail.ISBN = cleanLabeledISBN(fieldByLabel(text, "ISBN"))

	if year := fieldByLabel(text, "Jahr"); year != "" {
		if parsed, err := strconv.Atoi(year); err == nil {
			detail.PublicationYear = parsed
		}
	}

	if beschreibung := fieldByLabel(text, "Beschreibung"); beschreibung != "" {
		if match := pageCountStart.FindStringSubmatch(beschreibung); match != nil {
			detail.PageCount, _ = strconv.Atoi(match[1])
		}
	}

	if keywords := fieldByLabel(text, "Schlagwörter"); keywords != "" {
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				detail.Keywords = append(detail.Keywords, kw)
			}
		}
	}

	detail.Description = extractDescription(doc)
	detail.CoverURL = extractCoverURL(doc)
	detail.Copies = extractCopies(doc)

	if len(detail.Copies) > 0 {
		first := detail.Copies[0]
		detail.Availability = first.Status
		detail.Location = first.Section
		detail.CallNumber = first.CallNumber
		detail.Barcode = first.Barcode
		detail.Branch = first.Branch
	}

	return detail
}

// fieldByLabel scans the page's flattened text for a labeled value,
// reading up to end of line. The first occurrence in document order
// wins.
func fieldByLabel(text, label string) string {
	pattern := regexp.MustCompile(fmt.Sprintf(`(?i)%s[:\s]+([^\n]+)`, regexp.QuoteMeta(label)))
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// trimAuthorLink cuts the author value at the start of the catalog's
// "search for this author" link text, which the flattened page runs
// together with the name.
func trimAuthorLink(author string) string {
	if idx := strings.Index(author, "Suche nach"); idx >= 0 {
		author = author[:idx]
	}
	return strings.TrimSpace(author)
}

// normalizeSeries re-joins the comma-separated series entries with
// uniform spacing.
func normalizeSeries(series string) string {
	if series == "" {
		return ""
	}
	parts := strings.Split(series, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

// cleanLabeledISBN strips separators and accepts only ISBN lengths.
func cleanLabeledISBN(raw string) string {
	cleaned := validate.CleanISBN(raw)
	if len(cleaned) != 10 && len(cleaned) != 13 {
		return ""
	}
	return cleaned
}

// extractDescription tries a description-like container first, then
// falls back to a long paragraph in the main content area.
func extractDescription(doc *goquery.Document) string {
	for _, selector := range []string{
		"div.description", "div.summary", "div.content", "div.abstract",
		"p.description", "p.summary",
	} {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if len(text) > 50 {
			return text
		}
	}

	var description string
	doc.Find("div.main-content p, div.content p, main p").EachWithBreak(func(i int, par *goquery.Selection) bool {
		text := strings.TrimSpace(par.Text())
		if len(text) >= 100 {
			description = text
			return false
		}
		return true
	})
	return description
}

// extractCoverURL prefers a cover-classed image, then any image whose
// source path mentions a cover.
func extractCoverURL(doc *goquery.Document) string {
	if src, ok := doc.Find("img.cover, img.thumbnail").First().Attr("src"); ok {
		return src
	}

	var coverURL string
	doc.Find("img[src]").EachWithBreak(func(i int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if strings.Contains(strings.ToLower(src), "cover") {
			coverURL = src
			return false
		}
		return true
	})
	return coverURL
}

// extractCopies scans for the Exemplare table. The first table whose
// header names both the branch and status columns wins; rows without
// a branch are not holdings and are dropped.
func extractCopies(doc *goquery.Document) []models.Copy {
	var copies []models.Copy
	doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return true
		}

		header := strings.ToLower(rows.First().Text())
		if !strings.Contains(header, "zweigstelle") || !strings.Contains(header, "status") {
			return true
		}

		rows.Slice(1, rows.Length()).Each(func(j int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < minCopyCells {
				return
			}
			cell := func(col int) string {
				if col >= cells.Length() {
					return ""
				}
				return strings.TrimSpace(cells.Eq(col).Text())
			}

			c := models.Copy{
				Branch:       cell(colBranch),
				CallNumber:   cell(colCallNumber),
				Section:      cell(colSection),
				Status:       normalizeCopyStatus(cell(colStatus)),
				Reservations: cell(colReservations),
				MediumType:   cell(colMediumType),
				Barcode:      cell(colBarcode),
			}
			if c.Branch == "" {
				return
			}
			if c.Reservations == "" {
				c.Reservations = "0"
			}
			copies = append(copies, c)
		})
		return false
	})
	return copies
}

// normalizeCopyStatus maps the catalog's German status terms to the
// canonical categories. Unrecognized text is kept as scanned.
func normalizeCopyStatus(status string) string {
	lowered := strings.ToLower(status)
	switch {
	case strings.Contains(lowered, "verfügbar"):
		return models.StatusAvailable
	case strings.Contains(lowered, "ausgeliehen"):
		return models.StatusCheckedOut
	}
	return status
}
