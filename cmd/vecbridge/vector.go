package vecbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/Aleph-Alpha/vecbridge/v1/azuresearch"
	"github.com/Aleph-Alpha/vecbridge/v1/docclean"
	"github.com/Aleph-Alpha/vecbridge/v1/embedding"
	"github.com/Aleph-Alpha/vecbridge/v1/logger"
	"github.com/Aleph-Alpha/vecbridge/v1/metrics"
	"github.com/Aleph-Alpha/vecbridge/v1/qdrant"
	"github.com/Aleph-Alpha/vecbridge/v1/redis"
	"github.com/Aleph-Alpha/vecbridge/v1/tracer"
	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
)

func newVectorCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vector",
		Short: "Manage collections in a vector database",
		Long: `Manage collections through one of the registered adapters.

The embedding engine is configured from the environment:
  VECBRIDGE_EMBEDDING_ENDPOINT, VECBRIDGE_EMBEDDING_API_KEY,
  VECBRIDGE_EMBEDDING_MODEL, VECBRIDGE_EMBEDDING_DIMENSIONS`,
	}

	pf := cmd.PersistentFlags()
	pf.String("provider", qdrant.ProviderName, "Vector database: "+strings.Join(vectordb.Providers(), ", "))
	pf.String("url", "", "Database URL, e.g. http://localhost:6334, redis://localhost:6379 or https://<service>.search.windows.net")
	pf.String("api-key", "", "Database API key (Redis: password)")

	cmd.AddCommand(
		newVectorCreateCmd(o),
		newVectorSearchCmd(o),
		newVectorRetrieveCmd(o),
		newVectorDeleteCmd(o),
		newVectorPruneCmd(o),
		newVectorProvidersCmd(),
	)
	return cmd
}

// providerModule selects the fx module and connection config for --provider.
func (o *options) providerModule() (fx.Option, error) {
	url, key := o.v.GetString("url"), o.v.GetString("api-key")

	switch provider := o.v.GetString("provider"); provider {
	case qdrant.ProviderName:
		cfg, err := qdrant.ConfigFromURL(url, key)
		if err != nil {
			return nil, err
		}
		return fx.Options(fx.Supply(cfg), qdrant.FXModule), nil
	case redis.ProviderName:
		cfg, err := redis.ConfigFromURL(url)
		if err != nil {
			return nil, err
		}
		if cfg.Password == "" {
			cfg.Password = key
		}
		return fx.Options(fx.Supply(cfg), redis.FXModule), nil
	case azuresearch.ProviderName:
		cfg := azuresearch.DefaultConfig(url, key)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return fx.Options(fx.Supply(cfg), azuresearch.FXModule), nil
	default:
		return nil, fmt.Errorf("%w: unknown vector db provider %q (known: %v)",
			vectordb.ErrInitialization, provider, vectordb.Providers())
	}
}

// withAdapter starts an fx application around the selected adapter, runs
// fn and stops the application again.
func (o *options) withAdapter(ctx context.Context, fn func(context.Context, vectordb.Adapter, *tracer.Tracer) error) error {
	provider, err := o.providerModule()
	if err != nil {
		return err
	}

	var (
		adapter vectordb.Adapter
		tr      *tracer.Tracer
	)
	opts := []fx.Option{
		fx.Supply(o.loggerConfig(), o.tracerConfig()),
		logger.FXModule,
		tracer.FXModule,
		fx.WithLogger(func(l *logger.Logger) fxevent.Logger {
			zl := &fxevent.ZapLogger{Logger: l.Zap}
			zl.UseLogLevel(zapcore.DebugLevel)
			return zl
		}),
		fx.Provide(func(l *logger.Logger) vectordb.Logger { return l }),
		embedding.FXModule,
		provider,
		fx.Populate(&adapter, &tr),
	}
	if cfg, ok := o.metricsConfig(); ok {
		opts = append(opts, fx.Supply(cfg), metrics.FXModule)
	}

	app := fx.New(opts...)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()

	return fn(ctx, adapter, tr)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// pointsFromMarkdown turns a combined markdown file into data points, one per
// page. Point ids are name-based UUIDs of the page URL, so re-ingesting a file
// overwrites instead of duplicating. A file without page headers becomes a
// single point keyed by its path.
func pointsFromMarkdown(content, source string) []vectordb.DataPoint {
	pages := docclean.ParsePages(content)
	if len(pages) == 0 {
		return []vectordb.DataPoint{{
			ID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte(source)).String(),
			Payload: map[string]any{"text": content, "source": source},
		}}
	}

	points := make([]vectordb.DataPoint, 0, len(pages))
	for _, p := range pages {
		points = append(points, vectordb.DataPoint{
			ID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte(p.URL)).String(),
			Payload: map[string]any{"text": p.Content, "url": p.URL, "source": source},
		})
	}
	return points
}

func newVectorCreateCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a collection and optionally ingest a combined markdown file",
		Example: `  vecbridge vector create --provider qdrant --url http://localhost:6334 --collection docs
  vecbridge vector create --provider redis --url redis://localhost:6379 --collection docs --input docs.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			collection := o.v.GetString("collection")
			var points []vectordb.DataPoint
			if input := o.v.GetString("input"); input != "" {
				raw, err := os.ReadFile(input)
				if err != nil {
					return err
				}
				points = pointsFromMarkdown(string(raw), filepath.Base(input))
			}

			return o.withAdapter(cmd.Context(), func(ctx context.Context, a vectordb.Adapter, tr *tracer.Tracer) error {
				ctx, span := tr.StartSpan(ctx, "vector.create")
				defer span.End()
				tr.SetAttributes(span, map[string]interface{}{
					"provider":   a.Name(),
					"collection": collection,
					"points":     len(points),
				})

				if err := a.CreateCollection(ctx, collection); err != nil {
					tr.RecordErrorOnSpan(span, err)
					return err
				}
				if len(points) > 0 {
					if err := a.CreateDataPoints(ctx, collection, points); err != nil {
						tr.RecordErrorOnSpan(span, err)
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "collection %q ready on %s, %d points written\n", collection, a.Name(), len(points))
				return nil
			})
		},
	}
	cmd.Flags().String("collection", "", "Collection name")
	cmd.Flags().StringP("input", "i", "", "Combined markdown file to ingest, one point per page")
	return cmd
}

func newVectorSearchCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search a collection; several --query flags run as one batch",
		Example: `  vecbridge vector search --collection docs --query "incremental loading" --limit 5
  vecbridge vector search --collection docs --query "cursor" --query "lag" --limit 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			collection := o.v.GetString("collection")
			queries := o.v.GetStringSlice("query")
			if len(queries) == 0 {
				return fmt.Errorf("at least one --query is required")
			}
			limit := o.v.GetInt("limit")

			return o.withAdapter(cmd.Context(), func(ctx context.Context, a vectordb.Adapter, tr *tracer.Tracer) error {
				ctx, span := tr.StartSpan(ctx, "vector.search")
				defer span.End()

				if len(queries) > 1 {
					results, err := a.BatchSearch(ctx, collection, queries, limit, o.v.GetBool("with-vector"))
					if err != nil {
						tr.RecordErrorOnSpan(span, err)
						return err
					}
					return printJSON(cmd, results)
				}

				results, err := a.Search(ctx, vectordb.SearchQuery{
					CollectionName: collection,
					QueryText:      queries[0],
					Limit:          limit,
					WithVector:     o.v.GetBool("with-vector"),
					RawScore:       o.v.GetBool("raw-score"),
				})
				if err != nil {
					tr.RecordErrorOnSpan(span, err)
					return err
				}
				return printJSON(cmd, results)
			})
		},
	}
	cmd.Flags().String("collection", "", "Collection name")
	cmd.Flags().StringSlice("query", nil, "Query text (repeatable)")
	cmd.Flags().Int("limit", vectordb.DefaultSearchLimit, "Maximum results per query")
	cmd.Flags().Bool("with-vector", false, "Include stored vectors in the output")
	cmd.Flags().Bool("raw-score", false, "Report the backend's native score instead of a distance")
	return cmd
}

func newVectorRetrieveCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Fetch points by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			collection, ids := o.v.GetString("collection"), o.v.GetStringSlice("id")
			return o.withAdapter(cmd.Context(), func(ctx context.Context, a vectordb.Adapter, _ *tracer.Tracer) error {
				results, err := a.Retrieve(ctx, collection, ids)
				if err != nil {
					return err
				}
				return printJSON(cmd, results)
			})
		},
	}
	cmd.Flags().String("collection", "", "Collection name")
	cmd.Flags().StringSlice("id", nil, "Point id (repeatable)")
	return cmd
}

func newVectorDeleteCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete points by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			collection, ids := o.v.GetString("collection"), o.v.GetStringSlice("id")
			if len(ids) == 0 {
				return fmt.Errorf("at least one --id is required")
			}
			return o.withAdapter(cmd.Context(), func(ctx context.Context, a vectordb.Adapter, _ *tracer.Tracer) error {
				if err := a.DeleteDataPoints(ctx, collection, ids); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d points from %q\n", len(ids), collection)
				return nil
			})
		},
	}
	cmd.Flags().String("collection", "", "Collection name")
	cmd.Flags().StringSlice("id", nil, "Point id (repeatable)")
	return cmd
}

func newVectorPruneCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop every collection in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !o.v.GetBool("yes") {
				return fmt.Errorf("prune drops every collection; pass --yes to confirm")
			}
			return o.withAdapter(cmd.Context(), func(ctx context.Context, a vectordb.Adapter, _ *tracer.Tracer) error {
				if err := a.Prune(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %s\n", a.Name())
				return nil
			})
		},
	}
	cmd.Flags().Bool("yes", false, "Confirm dropping all collections")
	return cmd
}

func newVectorProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the registered vector database providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range vectordb.Providers() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
