package docclean

import (
	"fmt"
	"slices"
	"strings"
)

const (
	PresetDLT    = "dlt"
	PresetQdrant = "qdrant"
)

var presets = map[string]func() []Rule{
	PresetDLT: func() []Rule {
		return []Rule{
			NewRegexRule("loom-embed",
				`(?s)www\.loom\.com.*?!\[\]\(<Base64-Image-Removed>\)!\[\]\(<Base64-Image-Removed>\)`),
			NewRegexRule("skip-to-content", `(?m)^.*\[Skip to main content\].*$`),
			NewRegexRule("cookie-consent", `(?is)we use essential cookies.*?PreferencesDeclineAccept`),
			NewRegexRule("codespaces-demo",
				`(?is)This demo works on codespaces.*?coding help reimagined with AI prowess\.`),
		}
	},
	PresetQdrant: func() []Rule {
		return []Rule{
			SectionRule{Label: "privacy-preference-center", Start: "## Privacy Preference Center"},
			SectionRule{Label: "cookie-list", Start: "### Cookie List"},
		}
	},
}

// Preset returns the rules registered under name.
func Preset(name string) ([]Rule, error) {
	build, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(Presets(), ", "))
	}
	return build(), nil
}

// Presets lists the preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
