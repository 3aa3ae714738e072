// Package goodreads fetches and parses Goodreads book pages: metadata,
// reviews grouped by star rating, genre lists, and series resolution.
//
// Reviews are loaded dynamically on the live site, so parsing a fetched
// page only sees the initially rendered set; callers should treat review
// data as best-effort.
package goodreads

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookscout/internal/library"
)

// Review length limits are counted in runes, not bytes, so multi-byte text
// is gated and truncated the same as ASCII.
const (
	minReviewLength = 50
	maxReviewLength = 5000
)

var (
	nonDigitRe    = regexp.MustCompile(`[^\d]`)
	pagesRe       = regexp.MustCompile(`(?i)(\d+)\s*pages?`)
	yearRe        = regexp.MustCompile(`\d{4}`)
	seriesRe      = regexp.MustCompile(`(.+?)\s*#(\d+)`)
	ratingAriaRe  = regexp.MustCompile(`Rating\s+(\d+)`)
	bookOneRe     = regexp.MustCompile(`#1\b|Book 1\b`)
	bookShowIDRe  = regexp.MustCompile(`/book/show/(\d+)`)
	seriesHrefSel = `a[href*="/series/"]`
)

// ParseMetadata extracts book metadata from a book page. Missing elements
// leave their fields zero; the page structure changes often enough that
// partial results are normal.
func ParseMetadata(html string) (library.Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return library.Metadata{}, err
	}

	var meta library.Metadata
	meta.Title = strings.TrimSpace(doc.Find(`h1[data-testid="bookTitle"]`).First().Text())
	meta.Author = strings.TrimSpace(doc.Find(`span[data-testid="name"]`).First().Text())
	meta.Genres = parseGenreList(doc)

	if text := strings.TrimSpace(doc.Find(`div[class*="RatingStatistics__rating"]`).First().Text()); text != "" {
		if rating, err := strconv.ParseFloat(text, 64); err == nil {
			meta.AverageRating = rating
		}
	}

	if text := doc.Find(`span[data-testid="ratingsCount"]`).First().Text(); text != "" {
		if num := nonDigitRe.ReplaceAllString(text, ""); num != "" {
			meta.RatingsCount, _ = strconv.Atoi(num)
		}
	}

	if text := doc.Find(`p[data-testid="pagesFormat"]`).First().Text(); text != "" {
		if m := pagesRe.FindStringSubmatch(text); m != nil {
			meta.Pages, _ = strconv.Atoi(m[1])
		}
	}

	if text := doc.Find(`p[data-testid="publicationInfo"]`).First().Text(); text != "" {
		if year := yearRe.FindString(text); year != "" {
			meta.PublicationYear, _ = strconv.Atoi(year)
		}
	}

	if spans := doc.Find(`div[data-testid="description"]`).First().Find("span"); spans.Length() > 0 {
		meta.Description = strings.TrimSpace(spans.Last().Text())
	}

	if series := doc.Find(`h3[class*="Text__title3"] ` + seriesHrefSel).First(); series.Length() > 0 {
		text := strings.TrimSpace(series.Text())
		href, _ := series.Attr("href")
		if m := seriesRe.FindStringSubmatch(text); m != nil {
			position, _ := strconv.Atoi(m[2])
			meta.Series = &library.Series{
				Name:     strings.TrimSpace(m[1]),
				Position: position,
				URL:      href,
			}
		}
	}

	return meta, nil
}

// ParseGenres extracts the genre list from a book page, falling back to any
// short genre links when the modern structure is absent.
func ParseGenres(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	genres := parseGenreList(doc)
	if len(genres) > 0 {
		return genres, nil
	}

	seen := make(map[string]struct{})
	doc.Find(`a[href*="/genres/"]`).Each(func(_ int, sel *goquery.Selection) {
		genre := strings.TrimSpace(sel.Text())
		if genre == "" || len(genre) >= 50 {
			return
		}
		if _, dup := seen[genre]; dup {
			return
		}
		seen[genre] = struct{}{}
		genres = append(genres, genre)
	})
	return genres, nil
}

func parseGenreList(doc *goquery.Document) []string {
	var genres []string
	seen := make(map[string]struct{})
	doc.Find(`[data-testid="genresList"] a[href*="/genres/"]`).Each(func(_ int, sel *goquery.Selection) {
		genre := strings.TrimSpace(sel.Text())
		if genre == "" {
			return
		}
		if _, dup := seen[genre]; dup {
			return
		}
		seen[genre] = struct{}{}
		genres = append(genres, genre)
	})
	return genres
}

// ParseReviews extracts up to perStar reviews per target star rating from a
// book page. Short reviews (under 50 characters) are skipped; long ones are
// truncated.
func ParseReviews(html string, targetStars []int, perStar int) (library.ReviewSet, error) {
	reviews := library.ReviewSet{ByStar: make(map[int][]library.Review, len(targetStars))}
	for _, stars := range targetStars {
		reviews.ByStar[stars] = []library.Review{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return reviews, err
	}

	doc.Find(`article[class*="ReviewCard"]`).Each(func(_ int, card *goquery.Selection) {
		aria, _ := card.Find(`span[class*="RatingStars"]`).First().Attr("aria-label")
		m := ratingAriaRe.FindStringSubmatch(aria)
		if m == nil {
			return
		}
		stars, _ := strconv.Atoi(m[1])

		bucket, wanted := reviews.ByStar[stars]
		if !wanted || len(bucket) >= perStar {
			return
		}

		spans := card.Find(`section[class*="ReviewText"]`).First().Find("span")
		if spans.Length() == 0 {
			return
		}
		text := strings.TrimSpace(spans.Last().Text())
		runes := []rune(text)
		if len(runes) < minReviewLength {
			return
		}
		if len(runes) > maxReviewLength {
			text = string(runes[:maxReviewLength])
		}

		likes := 0
		if likesText := card.Find(`span[class*="SocialFooter__count"]`).First().Text(); likesText != "" {
			likes, _ = strconv.Atoi(nonDigitRe.ReplaceAllString(likesText, ""))
		}

		reviews.ByStar[stars] = append(bucket, library.Review{Text: text, Likes: likes})
	})

	return reviews, nil
}

// SeriesBook identifies the first book of a series.
type SeriesBook struct {
	GoodreadsID string
	Title       string
	Author      string
}

// ParseSeriesPage finds Book 1 on a series listing page. Returns nil when
// no first book can be identified.
func ParseSeriesPage(html string) (*SeriesBook, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var found *SeriesBook
	doc.Find(`div[itemtype="http://schema.org/Book"]`).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		position := item.Find(`span[class*="bookMeta"]`).First().Text()
		if !bookOneRe.MatchString(position) {
			return true
		}
		title := item.Find(`a[class*="bookTitle"]`).First()
		if title.Length() == 0 {
			return true
		}
		found = seriesBookFrom(title, item.Find(`a[class*="authorName"]`).First())
		return false
	})
	if found != nil {
		return found, nil
	}

	// Older series pages render a table instead.
	first := doc.Find(`tr[itemtype="http://schema.org/Book"]`).First()
	if first.Length() > 0 {
		title := first.Find("a.bookTitle").First()
		if title.Length() > 0 {
			return seriesBookFrom(title, first.Find("a.authorName").First()), nil
		}
	}

	return nil, nil
}

func seriesBookFrom(title, author *goquery.Selection) *SeriesBook {
	book := &SeriesBook{Title: strings.TrimSpace(title.Text())}
	if href, ok := title.Attr("href"); ok {
		if m := bookShowIDRe.FindStringSubmatch(href); m != nil {
			book.GoodreadsID = m[1]
		}
	}
	if author.Length() > 0 {
		book.Author = strings.TrimSpace(author.Text())
	}
	return book
}
