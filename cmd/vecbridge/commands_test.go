package vecbridge

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

const crawled = "----- https://qdrant.tech/documentation/ -----\n\n" +
	"# Docs\n\n## Privacy Preference Center\nconsent\n" +
	"----- https://qdrant.tech/documentation/concepts/ -----\n\n# Concepts\n\n\n\nVectors\n\n" +
	"----- https://qdrant.tech/documentation/concepts/points/ -----\n\n# Points\n\n### Cookie List\nx\n"

func TestCleanCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "docs.md", crawled)
	out := filepath.Join(dir, "clean.md")

	_, err := execute(t, "clean", "--preset", "qdrant", "-i", in, "-o", out)
	require.NoError(t, err)

	cleaned := readFile(t, out)
	assert.NotContains(t, cleaned, "Privacy Preference Center")
	assert.NotContains(t, cleaned, "Cookie List")
	assert.NotContains(t, cleaned, "\n\n\n")
	assert.Contains(t, cleaned, "# Concepts\n\nVectors")
}

func TestCleanCommandSplit(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "docs.md", crawled)
	out1, out2 := filepath.Join(dir, "p1.md"), filepath.Join(dir, "p2.md")

	_, err := execute(t, "clean", "--preset", "qdrant", "-i", in, "-o", out1, "--split-out2", out2)
	require.NoError(t, err)

	assert.Contains(t, readFile(t, out1), "https://qdrant.tech/documentation/ -----")
	assert.Contains(t, readFile(t, out2), "https://qdrant.tech/documentation/concepts/points/ -----")

	_, err = execute(t, "clean", "--preset", "qdrant", "-i", in, "--split-out2", out2)
	assert.Error(t, err, "split needs an explicit first output")
}

func TestCleanCommandErrors(t *testing.T) {
	_, err := execute(t, "clean", "--preset", "nope", "-i", "x.md")
	assert.ErrorContains(t, err, "unknown preset")

	_, err = execute(t, "clean")
	assert.ErrorContains(t, err, "--input is required")
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "p1.md", "----- https://dlthub.com/docs/a -----\n\nA\n")
	p2 := writeFile(t, dir, "p2.md", "----- https://dlthub.com/docs/b -----\n\nB\n----- https://dlthub.com/docs/b/sub -----\n\nSub\n")

	stdout, err := execute(t, "extract", "-i", p1, "-i", p2, "--main-url", "https://dlthub.com/docs/b")
	require.NoError(t, err)
	assert.Equal(t,
		"----- https://dlthub.com/docs/b -----\n\nB\n\n----- https://dlthub.com/docs/b/sub -----\n\nSub",
		stdout)

	_, err = execute(t, "extract", "-i", p1)
	assert.ErrorContains(t, err, "--main-url")
}

func TestScrapeCommand(t *testing.T) {
	firecrawl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL string `json:"url"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.URL == "https://broken.example" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"markdown": "# " + req.URL},
		})
	}))
	defer firecrawl.Close()

	dir := t.TempDir()
	list := writeFile(t, dir, "urls.txt", "# docs\nhttps://b.example\n\nhttps://broken.example\n")
	out := filepath.Join(dir, "extra.md")

	t.Setenv("VECBRIDGE_FIRECRAWL_API_KEY", "fc-test")
	_, err := execute(t, "scrape",
		"--firecrawl-endpoint", firecrawl.URL,
		"--url", "https://a.example",
		"--urls-file", list,
		"-o", out)
	require.NoError(t, err)

	assert.Equal(t,
		"----- https://a.example -----\n\n# https://a.example\n\n"+
			"----- https://b.example -----\n\n# https://b.example\n\n",
		readFile(t, out))
}

func TestScrapeCommandNeedsKeyAndURLs(t *testing.T) {
	t.Setenv("VECBRIDGE_FIRECRAWL_API_KEY", "")

	_, err := execute(t, "scrape")
	assert.ErrorContains(t, err, "no URLs")

	_, err = execute(t, "scrape", "--url", "https://a.example")
	assert.ErrorContains(t, err, "api key")

	_, err = execute(t, "crawl")
	assert.ErrorContains(t, err, "--start-url")
}

func TestVectorProviders(t *testing.T) {
	stdout, err := execute(t, "vector", "providers")
	require.NoError(t, err)
	assert.Equal(t, "azureaisearch\nqdrant\nredis\n", stdout)
}

func TestVectorCommandValidation(t *testing.T) {
	_, err := execute(t, "vector", "search", "--provider", "milvus", "--query", "x")
	assert.ErrorIs(t, err, vectordb.ErrInitialization)

	_, err = execute(t, "vector", "prune", "--provider", "qdrant")
	assert.ErrorContains(t, err, "--yes")

	_, err = execute(t, "vector", "search", "--collection", "docs")
	assert.ErrorContains(t, err, "--query")

	_, err = execute(t, "vector", "create", "--provider", "azureaisearch", "--collection", "docs")
	assert.Error(t, err, "azure needs an endpoint and a key")
}

func TestPointsFromMarkdown(t *testing.T) {
	points := pointsFromMarkdown(crawled, "docs.md")
	require.Len(t, points, 3)
	assert.Equal(t, "https://qdrant.tech/documentation/concepts/", points[1].Payload["url"])
	assert.Equal(t, "docs.md", points[1].Payload["source"])
	assert.Contains(t, points[1].EmbeddableText(), "# Concepts")

	again := pointsFromMarkdown(crawled, "other.md")
	assert.Equal(t, points[0].ID, again[0].ID, "ids depend on the page URL only")
	assert.NotEqual(t, points[0].ID, points[1].ID)

	single := pointsFromMarkdown("plain text", "notes.md")
	require.Len(t, single, 1)
	assert.Equal(t, "plain text", single[0].Payload["text"])
}
