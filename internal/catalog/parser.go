package catalog

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"grazbib/internal/models"
	"grazbib/internal/validate"
)

// Container selectors for result items, tried in order. The first
// selector yielding any containers wins; later ones are not tried,
// even if the page mixes both classes.
var resultContainerSelectors = []string{
	"div.result-item, div.hit",
	"div.result",
}

var (
	isbnPattern    = regexp.MustCompile(`(?i)ISBN[:\s]*([0-9\-X]+)`)
	yearPattern    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	digitsPattern  = regexp.MustCompile(`\d+`)
	anyDigit       = regexp.MustCompile(`\d`)
	pageCountStart = regexp.MustCompile(`^(\d+) S\.`)
)

// statusKeywords maps lower-cased status text fragments to canonical
// availability categories, in match order. German terms first, they
// are what the catalog serves.
var statusKeywords = []struct {
	keyword string
	status  string
}{
	{"verfügbar", models.StatusAvailable},
	{"available", models.StatusAvailable},
	{"ausgeliehen", models.StatusCheckedOut},
	{"checked out", models.StatusCheckedOut},
	{"bestellt", models.StatusOnOrder},
	{"order", models.StatusOnOrder},
	{"reserviert", models.StatusReserved},
	{"reserved", models.StatusReserved},
}

// Parser converts catalog HTML into records using ordered fallback
// heuristics. Every field is extracted independently; a failure in
// one never aborts the others.
type Parser struct {
	baseURL string
}

// NewParser creates a parser that absolutizes relative links against
// baseURL.
func NewParser(baseURL string) *Parser {
	return &Parser{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// ParseSearchResults extracts books from a result-list page, in
// document order. A page the parser cannot traverse yields an empty
// list, never an error.
func (p *Parser) ParseSearchResults(html string) []models.Book {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Error("Error parsing search results", "error", err)
		return []models.Book{}
	}

	var containers *goquery.Selection
	for _, selector := range resultContainerSelectors {
		found := doc.Find(selector)
		if found.Length() > 0 {
			containers = found
			break
		}
		slog.Debug("No result items for selector, trying fallback", "selector", selector)
	}
	if containers == nil {
		return []models.Book{}
	}

	books := make([]models.Book, 0, containers.Length())
	containers.Each(func(i int, item *goquery.Selection) {
		book, ok := p.parseBookItem(item)
		if !ok {
			slog.Debug("Skipping result item without title", "index", i)
			return
		}
		books = append(books, *book)
	})

	slog.Info("Parsed books from search results", "count", len(books))
	return books
}

// parseBookItem extracts one result container. Title is the only
// field whose absence discards the record.
func (p *Parser) parseBookItem(item *goquery.Selection) (*models.Book, bool) {
	title := firstText(item,
		"h2.title", "h2.hit-title",
		"h3.title", "h3.hit-title",
		"a.title", "a.hit-title",
	)
	if title == "" {
		return nil, false
	}

	book, err := models.NewBook(title)
	if err != nil {
		return nil, false
	}

	book.Author = firstText(item,
		"span.author", "span.creator",
		"p.author", "p.creator",
	)
	book.ISBN = extractISBN(item.Text())
	book.CatalogID = extractCatalogID(item)
	book.Availability = p.extractAvailability(item)

	if location := firstText(item,
		"span.location", "span.branch", "span.library",
		"p.location", "p.branch", "p.library",
	); location != "" {
		book.Location = location
	}

	if medium := firstText(item,
		"span.medium-type", "span.type",
		"p.medium-type", "p.type",
	); medium != "" {
		book.MediumType = medium
	}

	if year := extractYear(item.Text()); year != 0 {
		book.PublicationYear = year
	}

	if href, ok := item.Find("a[href]").First().Attr("href"); ok && href != "" {
		book.URL = p.absoluteURL(href)
	}

	return book, true
}

// extractAvailability runs the availability fallback chain: a status
// label element first, then color-coded indicator classes, then
// Unknown.
func (p *Parser) extractAvailability(item *goquery.Selection) string {
	label := firstText(item,
		"span.availability", "span.status",
		"p.availability", "p.status",
	)
	if label != "" {
		return normalizeStatus(label)
	}

	if item.Find("span.available, span.green").Length() > 0 {
		return models.StatusAvailable
	}
	if item.Find("span.unavailable, span.red").Length() > 0 {
		return models.StatusCheckedOut
	}

	return models.DefaultAvailability
}

// normalizeStatus maps raw status text to a canonical category. Text
// matching no keyword is passed through lower-cased.
func normalizeStatus(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	for _, k := range statusKeywords {
		if strings.Contains(lowered, k.keyword) {
			return k.status
		}
	}
	return lowered
}

// extractISBN finds an ISBN-labelled digit run in text. The cleaned
// value is accepted only at ISBN lengths; anything else is absent.
func extractISBN(text string) string {
	match := isbnPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	cleaned := validate.CleanISBN(match[1])
	if len(cleaned) != 10 && len(cleaned) != 13 {
		return ""
	}
	return cleaned
}

// extractCatalogID takes the first digit run from the first link
// whose href contains a digit.
func extractCatalogID(item *goquery.Selection) string {
	var id string
	item.Find("a[href]").EachWithBreak(func(i int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if !anyDigit.MatchString(href) {
			return true
		}
		id = digitsPattern.FindString(href)
		return false
	})
	return id
}

// extractYear finds a plausible 4-digit publication year (19xx/20xx).
func extractYear(text string) int {
	match := yearPattern.FindString(text)
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return year
}

// absoluteURL prefixes the catalog origin when href is relative.
func (p *Parser) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return p.baseURL + href
}

// firstText returns the trimmed text of the first selector that
// matches a non-empty element, in priority order.
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		text := strings.TrimSpace(sel.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}
