package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yumyai/keggmap/pkg/cache"
	"github.com/yumyai/keggmap/pkg/db"
	"github.com/yumyai/keggmap/pkg/fetch"
	"github.com/yumyai/keggmap/pkg/handler/types"
	"github.com/yumyai/keggmap/pkg/imageutil"
	"github.com/yumyai/keggmap/pkg/middle"
	"github.com/yumyai/keggmap/pkg/wizard"
)

const koConf = "rect (332,725) (378,742)\t/dbget-bin/www_bget?K00832+K00838\tK00832, K00838\n" +
	"circle (246,236) 4\t/dbget-bin/www_bget?C00082+C99999\tL-Tyrosine\n"

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func newTestStore(t *testing.T) *db.KeggDB {
	t.Helper()
	ctx := context.Background()

	store, err := db.Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Maps.EnsureLayout("ko"))

	rest := map[string]string{
		"path":     "path:map00400\tPhenylalanine, tyrosine and tryptophan biosynthesis\npath:map00010\tGlycolysis / Gluconeogenesis\n",
		"ko":       "K00832\ttyrB; aromatic-amino-acid transaminase\nK00838\tARO8; aromatic amino acid aminotransferase I\n",
		"compound": "C00082\tL-Tyrosine <aromatic>\n",
	}
	for file, content := range rest {
		_, err := store.Rest.Import(ctx, file, strings.NewReader(content))
		require.NoError(t, err)
	}

	require.NoError(t, os.WriteFile(store.Maps.ConfPath("ko", "00400"), []byte(koConf), 0o644))
	pngPath := store.Maps.PNGPath("00400")
	require.NoError(t, os.WriteFile(pngPath, pngBytes(t), 0o644))
	_, err = imageutil.ConvertFile(pngPath)
	require.NoError(t, err)
	return store
}

func newTestApp(t *testing.T, svgCache *cache.Loader) (*App, *db.KeggDB) {
	t.Helper()
	store := newTestStore(t)
	w, err := wizard.New(context.Background(), []string{"ko"}, store)
	require.NoError(t, err)
	metrics := middle.NewMetrics()
	w.Warnings = metrics.Warnings
	return NewApp(w, svgCache, nil, metrics), store
}

func serve(t *testing.T, app *App, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewRouter(app).ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := serve(t, app, http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Health)
	assert.Equal(t, "ko", resp.Orgs)
}

func TestMapSVG(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := serve(t, app, http.MethodGet, "/map/00400", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "data:image/png;base64,")
	assert.Contains(t, body, "K00832")
}

func TestMapSVGErrors(t *testing.T) {
	app, _ := newTestApp(t, nil)

	tests := []struct {
		target string
		status int
	}{
		{"/map/400", http.StatusBadRequest},
		{"/map/abcde", http.StatusBadRequest},
		{"/map/99999", http.StatusNotFound},
		{"/map/00010", http.StatusNotFound}, // known title, no config
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := serve(t, app, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.status, rec.Code)
			resp := decode[types.ErrorResponse](t, rec)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestMapSVGCached(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisCache, err := cache.NewRedisCache(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)

	app, store := newTestApp(t, cache.NewLoader(redisCache, time.Minute))
	t.Cleanup(func() { app.SVGCache.Close() })

	first := serve(t, app, http.MethodGet, "/map/00400", "")
	require.Equal(t, http.StatusOK, first.Code)

	// served from redis once the config is gone
	require.NoError(t, os.Remove(store.Maps.ConfPath("ko", "00400")))
	second := serve(t, app, http.MethodGet, "/map/00400", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	// random colors are never cached
	third := serve(t, app, http.MethodGet, "/map/00400?color_by=random", "")
	assert.Equal(t, http.StatusNotFound, third.Code)

	// neither is another color mode
	fourth := serve(t, app, http.MethodGet, "/map/00400?color_by=count", "")
	assert.Equal(t, http.StatusNotFound, fourth.Code)
}

func TestMapJSON(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := serve(t, app, http.MethodGet, "/api/v1/map/00400", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[types.MapResponse](t, rec)
	assert.Equal(t, "00400", resp.MapID)
	assert.Equal(t, "Phenylalanine, tyrosine and tryptophan biosynthesis", resp.Title)
	assert.Equal(t, []string{"ko"}, resp.Orgs)
	require.Len(t, resp.Shapes, 2)
	assert.Equal(t, "rect (332,725) (378,742)", resp.Shapes[0].RawPosition)
	assert.Len(t, resp.Shapes[0].Annotations, 2)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "C99999", resp.Warnings[0].Token)
}

func TestListMapsAndIndex(t *testing.T) {
	app, _ := newTestApp(t, nil)

	rec := serve(t, app, http.MethodGet, "/api/v1/maps", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[types.MapListResponse](t, rec)
	assert.Equal(t, []string{"ko"}, resp.Orgs)
	require.Len(t, resp.Maps, 1)
	assert.Equal(t, "00400", resp.Maps[0].MapID)

	rec = serve(t, app, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/map/00400"`)
	assert.Contains(t, rec.Body.String(), "Phenylalanine, tyrosine and tryptophan biosynthesis")
}

func TestAnnotations(t *testing.T) {
	app, _ := newTestApp(t, nil)

	rec := serve(t, app, http.MethodGet, "/api/v1/annotations?url=/dbget-bin/www_bget%3FC00082%2Bbogus", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[types.AnnotationsResponse](t, rec)
	assert.Equal(t, "ko", resp.Org)
	require.Len(t, resp.Annotations, 1)
	assert.Equal(t, "C00082", resp.Annotations[0].Name)
	assert.Equal(t, "L-Tyrosine%20%3Caromatic%3E", resp.Annotations[0].Description)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "bogus", resp.Warnings[0].Token)

	assert.Equal(t, http.StatusBadRequest, serve(t, app, http.MethodGet, "/api/v1/annotations", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, app, http.MethodGet, "/api/v1/annotations?url=C00082", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, app, http.MethodGet, "/api/v1/annotations?url=/dbget-bin/www_bget%3Fdr:D1234", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, app, http.MethodGet, "/api/v1/annotations?url=/dbget-bin/www_bget%3FC00082&org=hsa", "").Code)
}

func TestDownloadDisabled(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := serve(t, app, http.MethodPost, "/api/v1/maps/00010/download", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDownloadMap(t *testing.T) {
	png := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /get/ko00010/conf", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("circle (20,20) 4\t/dbget-bin/www_bget?C00082\tL-Tyrosine\n"))
	})
	mux.HandleFunc("GET /map/map00010.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(png)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	app, store := newTestApp(t, nil)
	d := fetch.NewDownloader(store)
	d.Client = srv.Client()
	d.RestURL = srv.URL
	d.PNGURL = srv.URL + "/map"
	app.Downloader = d

	assert.Equal(t, http.StatusNotFound, serve(t, app, http.MethodPost, "/api/v1/maps/99999/download", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, app, http.MethodPost, "/api/v1/maps/00010/download", "{").Code)

	rec := serve(t, app, http.MethodPost, "/api/v1/maps/00010/download", `{"reload": false}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	job := decode[types.JobResponse](t, rec)
	assert.Equal(t, "00010", job.MapID)

	require.Eventually(t, func() bool {
		rec := serve(t, app, http.MethodGet, "/api/v1/jobs/"+job.ID, "")
		return decode[types.JobResponse](t, rec).Status == string(DownloadJobCompleted)
	}, 5*time.Second, 10*time.Millisecond)

	rec = serve(t, app, http.MethodGet, "/api/v1/map/00010", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[types.MapResponse](t, rec).Shapes, 1)

	assert.Equal(t, http.StatusNotFound, serve(t, app, http.MethodGet, "/api/v1/jobs/nope", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newTestApp(t, nil)
	serve(t, app, http.MethodGet, "/api/v1/map/00400", "")

	rec := serve(t, app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `keggmap_http_requests_total{method="GET",route="map_json",status="200"} 1`)
	assert.Contains(t, body, "keggmap_maps_built_total 1")
	assert.Contains(t, body, `keggmap_annotation_warnings_total{reason="no description found"} 1`)
}
