package docclean

import (
	"regexp"
	"strings"
)

// PageSeparatorPrefix starts every page header written by scraper.WriteCombined.
const PageSeparatorPrefix = "-----"

// Rule removes unwanted text from a document.
type Rule interface {
	// Name identifies the rule in reports.
	Name() string

	// Apply returns content with the rule applied and the number of removals.
	Apply(content string) (string, int)
}

// RegexRule replaces every match of Pattern with Replacement.
type RegexRule struct {
	Label       string
	Pattern     *regexp.Regexp
	Replacement string
}

// NewRegexRule compiles pattern into a rule that deletes its matches.
// It panics if pattern does not compile, like regexp.MustCompile.
func NewRegexRule(label, pattern string) RegexRule {
	return RegexRule{Label: label, Pattern: regexp.MustCompile(pattern)}
}

func (r RegexRule) Name() string { return r.Label }

func (r RegexRule) Apply(content string) (string, int) {
	n := len(r.Pattern.FindAllStringIndex(content, -1))
	if n == 0 {
		return content, 0
	}
	return r.Pattern.ReplaceAllLiteralString(content, r.Replacement), n
}

// SectionRule deletes every section that begins with Start, up to but not
// including the next page separator, or to the end of the document.
type SectionRule struct {
	Label string
	Start string
}

func (r SectionRule) Name() string { return r.Label }

func (r SectionRule) Apply(content string) (string, int) {
	if r.Start == "" {
		return content, 0
	}

	var b strings.Builder
	removed := 0
	rest := content
	for {
		i := strings.Index(rest, r.Start)
		if i < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:i])
		removed++

		tail := rest[i+len(r.Start):]
		end := strings.Index(tail, PageSeparatorPrefix)
		if end < 0 {
			break
		}
		rest = tail[end:]
	}
	if removed == 0 {
		return content, 0
	}
	return b.String(), removed
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// CollapseBlankLines replaces runs of three or more newlines with two.
func CollapseBlankLines(content string) string {
	return blankRuns.ReplaceAllLiteralString(content, "\n\n")
}
