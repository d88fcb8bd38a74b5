package vecbridge

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/vecbridge/v1/docclean"
)

func newCleanCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Strip boilerplate from combined markdown, optionally splitting it in two",
		Example: `  vecbridge clean --preset dlt -i docs_dlt.md -o docs_dlt_cleaned_part1.md --split-out2 docs_dlt_cleaned_part2.md
  vecbridge clean --preset qdrant -i docs_qdrant.md -o docs_qdrant_cleaned.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cleaner, err := docclean.NewPresetCleaner(o.v.GetString("preset"))
			if err != nil {
				return err
			}

			input := o.v.GetString("input")
			if input == "" {
				return fmt.Errorf("--input is required")
			}
			raw, err := os.ReadFile(input)
			if err != nil {
				return err
			}

			cleaned, report := cleaner.CleanWithReport(string(raw))
			for name, n := range report {
				if n > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: removed %d\n", name, n)
				}
			}

			out2 := o.v.GetString("split-out2")
			if out2 == "" {
				return withOutput(cmd, o.v.GetString("output"), func(w io.Writer) error {
					_, err := io.WriteString(w, cleaned)
					return err
				})
			}

			if o.v.GetString("output") == "" {
				return fmt.Errorf("--split-out2 needs -o for the first part")
			}
			first, second := docclean.SplitAtPageBoundary(cleaned)
			if err := os.WriteFile(o.v.GetString("output"), []byte(first), 0o644); err != nil {
				return err
			}
			if err := os.WriteFile(out2, []byte(second), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "first part: %d characters, second part: %d characters\n",
				len([]rune(first)), len([]rune(second)))
			return nil
		},
	}

	cmd.Flags().String("preset", docclean.PresetDLT, "Cleaning preset: "+strings.Join(docclean.Presets(), ", "))
	cmd.Flags().StringP("input", "i", "", "Input markdown file")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	cmd.Flags().String("split-out2", "", "Split at a page boundary near the middle and write the second part here")
	return cmd
}

func newExtractCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract pages and their subpages from combined markdown files",
		Example: `  vecbridge extract -i part1.md -i part2.md \
    --main-url https://dlthub.com/docs/general-usage/resource \
    --main-url https://dlthub.com/docs/general-usage/source -o docs_dlt_some_pages.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mainURLs := o.v.GetStringSlice("main-url")
			if len(mainURLs) == 0 {
				return fmt.Errorf("at least one --main-url is required")
			}

			inputs := o.v.GetStringSlice("input")
			if len(inputs) == 0 {
				return fmt.Errorf("at least one --input is required")
			}

			var all strings.Builder
			for _, path := range inputs {
				b, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				all.Write(b)
				all.WriteString("\n\n")
			}

			pages := docclean.ParsePages(all.String())
			selected := docclean.SelectPages(pages, mainURLs)
			fmt.Fprintf(cmd.ErrOrStderr(), "found %d pages, extracting %d\n", len(pages), len(selected))

			return withOutput(cmd, o.v.GetString("output"), func(w io.Writer) error {
				_, err := io.WriteString(w, docclean.ExtractPages(all.String(), mainURLs))
				return err
			})
		},
	}

	cmd.Flags().StringSliceP("input", "i", nil, "Input markdown file (repeatable, read in order)")
	cmd.Flags().StringSlice("main-url", nil, "Page URL to keep together with its subpages (repeatable)")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	return cmd
}
