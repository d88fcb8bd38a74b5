// Package docclean post-processes combined markdown produced by the scraper
// package: it strips boilerplate, splits large files at page boundaries and
// extracts page subsets by URL.
//
// A combined document is a sequence of pages, each introduced by a header
// line of the form
//
//	----- https://dlthub.com/docs/intro -----
//
// Rules come in two kinds. A RegexRule deletes every match of a pattern. A
// SectionRule deletes from a start marker up to the next page header or the
// end of the document. After all rules run, runs of three or more newlines
// are collapsed to a single blank line.
//
//	c, err := docclean.NewPresetCleaner(docclean.PresetDLT)
//	if err != nil {
//		return err
//	}
//	cleaned := c.Clean(raw)
//	part1, part2 := docclean.SplitAtPageBoundary(cleaned)
//
// ExtractPages keeps the pages whose URL starts with one of a set of main
// URLs, so a section of a site and all its subpages can be pulled out of a
// full crawl.
package docclean
