package testintegration

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-openapi/testify/v2/require"

	"github.com/vizkit/plotspec/internal/pkg/config"
	"github.com/vizkit/plotspec/internal/pkg/ingest"
	"github.com/vizkit/plotspec/internal/pkg/render"
	"github.com/vizkit/plotspec/internal/pkg/spec"
)

func TestPlotspec(t *testing.T) {
	t.Run("with latency example", func(t *testing.T) {
		fixtureDir := filepath.Join("..", "..", "..", "examples", "latency")
		t.Run("should load config", func(t *testing.T) {
			cfg, err := config.Load(filepath.Join(fixtureDir, "plotspec.yaml"))
			require.NoError(t, err)
			require.NotNil(t, cfg)
			require.Len(t, cfg.Charts, 3)

			writeData(t, "test_config.json", cfg)

			t.Run("should ingest input data", func(t *testing.T) {
				reader := ingest.New(ingest.WithFormat(ingest.Format(cfg.Input.Format)))
				frame, err := reader.ReadFile(filepath.Join(fixtureDir, "data.csv"))
				require.NoError(t, err)
				require.Equal(t, 10, frame.Rows())

				t.Run("should build chart specs", func(t *testing.T) {
					specs := make([]*spec.ChartSpec, 0, len(cfg.Charts))
					for _, chart := range cfg.Charts {
						s, err := spec.Build(frame, chart.SpecConfig(cfg.Render.Legend))
						require.NoError(t, err)
						require.NotEmpty(t, s.Traces)
						specs = append(specs, s)
					}

					writeData(t, "test_specs.json", specs)

					t.Run("should render page", func(t *testing.T) {
						page := render.NewPage(cfg.Name)
						renderer := render.New(render.WithTheme(cfg.Render.Theme))
						for _, s := range specs {
							require.NoError(t, page.AddSpec(renderer, s))
						}

						var buf bytes.Buffer
						require.NoError(t, page.Render(&buf))
						require.NotZero(t, buf.Len())

						writeResult(t, "test_html.html", &buf)
					})
				})
			})
		})
	})
}

func writeData(t *testing.T, name string, data any) {
	t.Helper()

	buf, err := json.MarshalIndent(data, "", "  ")
	require.NoError(t, err)

	rdr := bytes.NewReader(buf)
	writeResult(t, name, rdr)
}

func writeResult(t *testing.T, name string, rdr io.Reader) {
	t.Helper()

	file, err := os.Create(name)
	require.NoError(t, err)

	_, err = io.Copy(file, rdr)
	require.NoError(t, err)
}
