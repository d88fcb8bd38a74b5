package docclean

// Report counts removals per rule name.
type Report map[string]int

// Cleaner applies rules in order and then collapses blank lines.
type Cleaner struct {
	rules []Rule
}

// NewCleaner creates a Cleaner for rules.
func NewCleaner(rules ...Rule) *Cleaner {
	return &Cleaner{rules: rules}
}

// NewPresetCleaner creates a Cleaner for a named preset.
func NewPresetCleaner(name string) (*Cleaner, error) {
	rules, err := Preset(name)
	if err != nil {
		return nil, err
	}
	return NewCleaner(rules...), nil
}

// Clean returns the cleaned content.
func (c *Cleaner) Clean(content string) string {
	out, _ := c.CleanWithReport(content)
	return out
}

// CleanWithReport returns the cleaned content and how often each rule fired.
func (c *Cleaner) CleanWithReport(content string) (string, Report) {
	report := make(Report, len(c.rules))
	for _, r := range c.rules {
		var n int
		content, n = r.Apply(content)
		report[r.Name()] += n
	}
	return CollapseBlankLines(content), report
}
