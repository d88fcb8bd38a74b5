package docclean

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var pageHeader = regexp.MustCompile(`(?m)^----- (.*?) -----$`)

// Page is one "----- <url> -----" section of a combined document.
type Page struct {
	URL string

	// Content includes the header line and runs up to the next header,
	// with trailing whitespace removed.
	Content string
}

// ParsePages splits content at page headers. Text before the first header
// is not part of any page.
func ParsePages(content string) []Page {
	matches := pageHeader.FindAllStringSubmatchIndex(content, -1)
	pages := make([]Page, 0, len(matches))
	for i, m := range matches {
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		pages = append(pages, Page{
			URL:     content[m[2]:m[3]],
			Content: strings.TrimRight(content[m[0]:end], " \t\r\n"),
		})
	}
	return pages
}

// SelectPages keeps the pages whose URL equals or starts with one of
// mainURLs, in document order.
func SelectPages(pages []Page, mainURLs []string) []Page {
	var out []Page
	for _, p := range pages {
		for _, main := range mainURLs {
			if strings.HasPrefix(p.URL, main) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// ExtractPages returns the selected pages of content joined by a blank line.
func ExtractPages(content string, mainURLs []string) string {
	selected := SelectPages(ParsePages(content), mainURLs)
	parts := make([]string, len(selected))
	for i, p := range selected {
		parts[i] = p.Content
	}
	return strings.Join(parts, "\n\n")
}

// SplitAtPageBoundary splits content in two near its middle, counted in
// runes, without cutting a page. The split happens at the last page header that starts
// before the middle; if every header after the first lies past the middle,
// the first of those is used. A single-page document is returned whole as
// the first part. Without headers the content is cut at the middle rune.
//
// At a header the first part has trailing whitespace and the second part
// leading whitespace removed.
func SplitAtPageBoundary(content string) (string, string) {
	middle := runeMiddle(content)
	headers := pageHeader.FindAllStringIndex(content, -1)
	if len(headers) == 0 {
		return content[:middle], content[middle:]
	}

	split := -1
	for _, h := range headers {
		if h[0] == 0 {
			continue
		}
		if h[0] < middle || split < 0 {
			split = h[0]
		}
		if h[0] >= middle {
			break
		}
	}
	if split < 0 {
		return strings.TrimSpace(content), ""
	}
	return strings.TrimRight(content[:split], " \t\r\n"), strings.TrimLeft(content[split:], " \t\r\n")
}

// runeMiddle returns the byte offset of rune number RuneCount/2.
func runeMiddle(s string) int {
	n := utf8.RuneCountInString(s) / 2
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}
