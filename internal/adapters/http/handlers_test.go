package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/routeguide/internal/adapters/http"
	"github.com/samirrijal/routeguide/internal/core/domain"
	"github.com/samirrijal/routeguide/internal/core/usecases"
)

// ---- Mock cache ----

type mockCache struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	sets  map[string][]byte
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	if v, ok := m.sets[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	if m.sets == nil {
		m.sets = make(map[string][]byte)
	}
	m.sets[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.sets, key)
	return nil
}

// ---- Test helpers ----

func pt(lat, lng int32) *domain.Point {
	return &domain.Point{Latitude: lat, Longitude: lng}
}

func testFeatures() []domain.Feature {
	return []domain.Feature{
		{Name: "Patriots Path, Mendham, NJ 07945, USA", Location: pt(407838351, -746143763)},
		{Name: "101 New Jersey 10, Whippany, NJ 07981, USA", Location: pt(408122808, -743999179)},
		{Name: "", Location: pt(413628156, -749015468)},
		{Name: "no location"},
		{Name: "U.S. 6, Shohola, PA 18458, USA", Location: pt(414008389, -743951297)},
	}
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	catalog := usecases.NewFeatureCatalog(testFeatures())
	d := &handler.Dependencies{
		RouteGuide: usecases.NewRouteGuideService(catalog, usecases.NewNoteHub(), nil),
		Features:   usecases.NewFeatureService(catalog, nil),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func decodeAPIError(t *testing.T, body io.Reader) string {
	t.Helper()
	var apiErr struct {
		Status int    `json:"status"`
		Code   string `json:"code"`
	}
	if err := json.NewDecoder(body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return apiErr.Code
}

// ---- Feature lookup ----

func TestGetFeature_Found(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/features/at?latitude=409146138&longitude=-746188906", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var miss struct {
		Name  string `json:"name"`
		Found bool   `json:"found"`
	}
	json.NewDecoder(resp.Body).Decode(&miss)
	if miss.Found {
		t.Fatal("expected no feature at an uncataloged point")
	}

	req = httptest.NewRequest("GET", "/v1/features/at?latitude=407838351&longitude=-746143763", nil)
	resp, _ = app.Test(req, -1)

	var hit struct {
		Name     string        `json:"name"`
		Location *domain.Point `json:"location"`
		Found    bool          `json:"found"`
	}
	json.NewDecoder(resp.Body).Decode(&hit)
	if !hit.Found {
		t.Fatal("expected feature to be found")
	}
	if hit.Name != "Patriots Path, Mendham, NJ 07945, USA" {
		t.Errorf("unexpected name %q", hit.Name)
	}
	if hit.Location == nil || hit.Location.Latitude != 407838351 {
		t.Errorf("unexpected location %+v", hit.Location)
	}
}

func TestGetFeature_UnnamedFeatureIsFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/features/at?latitude=413628156&longitude=-749015468", nil)
	resp, _ := app.Test(req, -1)

	var result struct {
		Name  string `json:"name"`
		Found bool   `json:"found"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if !result.Found || result.Name != "" {
		t.Errorf("expected found unnamed feature, got %+v", result)
	}
}

func TestGetFeature_BadParams(t *testing.T) {
	app := setupApp(makeDeps())

	for _, target := range []string{
		"/v1/features/at",
		"/v1/features/at?latitude=1",
		"/v1/features/at?latitude=abc&longitude=1",
		"/v1/features/at?latitude=99999999999&longitude=1",
	} {
		resp, _ := app.Test(httptest.NewRequest("GET", target, nil), -1)
		if resp.StatusCode != 400 {
			t.Errorf("%s: expected 400, got %d", target, resp.StatusCode)
			continue
		}
		if code := decodeAPIError(t, resp.Body); code != "bad_request" {
			t.Errorf("%s: expected bad_request, got %s", target, code)
		}
	}
}

// ---- Catalog listing ----

func TestListFeatures_PastTheEndIsEmptyArray(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/features?offset=50", nil), -1)
	body := string(readBody(t, resp.Body))
	if !strings.Contains(body, `"data":[]`) {
		t.Errorf("expected an empty data array, got %s", body)
	}
	if link := resp.Header.Get("Link"); strings.Contains(link, `rel="next"`) {
		t.Errorf("unexpected next link %q", link)
	}
}

func TestListFeatures_LinksKeepOtherQueryParams(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/features?fields=name&offset=2&limit=2", nil), -1)
	link := resp.Header.Get("Link")
	for _, want := range []string{
		`offset=0&limit=2>; rel="first"`,
		`offset=0&limit=2>; rel="prev"`,
		`offset=4&limit=2>; rel="next"`,
		`offset=3&limit=2>; rel="last"`,
	} {
		if !strings.Contains(link, want) {
			t.Errorf("Link %q missing %q", link, want)
		}
	}
	if strings.Count(link, "fields=name") != 4 {
		t.Errorf("expected fields=name on every link, got %q", link)
	}
}

func TestListFeatures_Pagination(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/features?offset=1&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Feature `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Limit  int `json:"limit"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Fatalf("expected 2 features in page, got %d", len(result.Data))
	}
	if result.Data[0].Name != "101 New Jersey 10, Whippany, NJ 07981, USA" {
		t.Errorf("unexpected first feature %q", result.Data[0].Name)
	}
	if link := resp.Header.Get("Link"); !strings.Contains(link, `rel="next"`) {
		t.Errorf("expected next link, got %q", link)
	}
}

// ---- Range stream ----

func TestListFeaturesInRange_StreamsNDJSON(t *testing.T) {
	app := setupApp(makeDeps())

	// Corners given hi-first; the box still covers the three NJ/PA points
	// north of 40.8.
	req := httptest.NewRequest("GET",
		"/v1/features/range?lo_latitude=420000000&lo_longitude=-740000000&hi_latitude=408000000&hi_longitude=-750000000", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("unexpected content type %q", ct)
	}

	var names []string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		var f domain.Feature
		if err := json.Unmarshal(sc.Bytes(), &f); err != nil {
			t.Fatalf("decode line %q: %v", sc.Text(), err)
		}
		names = append(names, f.Name)
	}

	want := []string{"101 New Jersey 10, Whippany, NJ 07981, USA", "", "U.S. 6, Shohola, PA 18458, USA"}
	if len(names) != len(want) {
		t.Fatalf("expected %d features, got %d (%v)", len(want), len(names), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("feature %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}

func TestListFeaturesInRange_MissingCorner(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/features/range?lo_latitude=1&lo_longitude=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Nearby ----

func TestNearbyFeatures_SortedAndCached(t *testing.T) {
	cache := &mockCache{}
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Features = usecases.NewFeatureService(d.RouteGuide.Catalog(), cache)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/features/nearby?lat=40.79&lon=-74.5&radius=20000", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var nearby []domain.NearbyFeature
	json.NewDecoder(resp.Body).Decode(&nearby)
	if len(nearby) != 2 {
		t.Fatalf("expected 2 nearby features, got %d", len(nearby))
	}
	if nearby[0].Distance > nearby[1].Distance {
		t.Errorf("expected ascending distance, got %d then %d", nearby[0].Distance, nearby[1].Distance)
	}
	if len(cache.sets) != 1 {
		t.Errorf("expected result to be cached, got %d entries", len(cache.sets))
	}
}

func TestNearbyFeatures_Validation(t *testing.T) {
	app := setupApp(makeDeps())

	for _, target := range []string{
		"/v1/features/nearby",
		"/v1/features/nearby?lat=91&lon=0",
		"/v1/features/nearby?lat=40&lon=-74&radius=0",
		"/v1/features/nearby?lat=40&lon=-74&radius=200000",
	} {
		resp, _ := app.Test(httptest.NewRequest("GET", target, nil), -1)
		if resp.StatusCode != 400 {
			t.Errorf("%s: expected 400, got %d", target, resp.StatusCode)
		}
	}
}

// ---- Route recording ----

func TestRecordRoute_Summary(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"points":[
		{"latitude":407838351,"longitude":-746143763},
		{"latitude":407838351,"longitude":-746143763},
		{"latitude":0,"longitude":0}
	]}`
	req := httptest.NewRequest("POST", "/v1/routes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var summary domain.RouteSummary
	json.NewDecoder(resp.Body).Decode(&summary)
	if summary.PointCount != 3 {
		t.Errorf("expected 3 points, got %d", summary.PointCount)
	}
	if summary.FeatureCount != 2 {
		t.Errorf("expected 2 feature matches, got %d", summary.FeatureCount)
	}
	want := domain.Distance(*pt(407838351, -746143763), domain.Point{})
	if summary.Distance != want {
		t.Errorf("expected distance %d, got %d", want, summary.Distance)
	}
}

func TestRecordRoute_EmptyRoute(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/routes", strings.NewReader(`{"points":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)

	var summary domain.RouteSummary
	json.NewDecoder(resp.Body).Decode(&summary)
	if summary != (domain.RouteSummary{}) {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestRecordRoute_BadBody(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/routes", strings.NewReader(`{"points":`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Notes ----

func TestNotes_ReflectsHub(t *testing.T) {
	hub := usecases.NewNoteHub()
	loc := domain.Point{Latitude: 1, Longitude: 2}
	hub.RecordAndReplay(loc, domain.RouteNote{Location: &loc, Message: "first"})
	hub.RecordAndReplay(loc, domain.RouteNote{Location: &loc, Message: "second"})

	deps := makeDeps(func(d *handler.Dependencies) {
		d.RouteGuide = usecases.NewRouteGuideService(d.RouteGuide.Catalog(), hub, nil)
	})
	app := setupApp(deps)

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/notes?latitude=1&longitude=2", nil), -1)
	var notes []domain.RouteNote
	json.NewDecoder(resp.Body).Decode(&notes)
	if len(notes) != 2 || notes[0].Message != "first" || notes[1].Message != "second" {
		t.Fatalf("unexpected notes %+v", notes)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/v1/notes?latitude=3&longitude=4", nil), -1)
	if got := strings.TrimSpace(string(readBody(t, resp.Body))); got != "[]" {
		t.Errorf("expected empty list, got %s", got)
	}
}

// ---- GraphQL ----

func TestGraphQL_Feature(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"query":"{ feature(latitude: 407838351, longitude: -746143763) { name location { latitude longitude } } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Feature *struct {
				Name     string `json:"name"`
				Location struct {
					Latitude int32 `json:"latitude"`
				} `json:"location"`
			} `json:"feature"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
	if result.Data.Feature == nil || result.Data.Feature.Name != "Patriots Path, Mendham, NJ 07945, USA" {
		t.Fatalf("unexpected feature %+v", result.Data.Feature)
	}
}

func TestGraphQL_FeaturesInRange(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"query":"{ features(lo_latitude: 400000000, lo_longitude: -750000000, hi_latitude: 409000000, hi_longitude: -740000000) { name } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)

	var result struct {
		Data struct {
			Features []struct {
				Name string `json:"name"`
			} `json:"features"`
		} `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Data.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(result.Data.Features))
	}
}

// ---- Health ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/health", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result map[string]any
	json.NewDecoder(resp.Body).Decode(&result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy, got %v", result["status"])
	}
	if result["features"] != float64(5) {
		t.Errorf("expected 5 features, got %v", result["features"])
	}
}

func TestReady_EmptyCatalog(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.RouteGuide = usecases.NewRouteGuideService(usecases.NewFeatureCatalog(nil), usecases.NewNoteHub(), nil)
	})
	app := setupApp(deps)

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/ws/chat", nil), -1)
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("expected 426, got %d", resp.StatusCode)
	}
}

// ---- Docs ----

func TestDocs_ServesOpenAPIDocument(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.OpenAPIPath = "../../../api/openapi.yaml"
	}))

	resp, _ := app.Test(httptest.NewRequest("GET", "/docs/openapi.yaml", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body := string(readBody(t, resp.Body)); !strings.HasPrefix(body, "openapi: 3.0.3") {
		t.Errorf("unexpected document start %.40q", body)
	}
}

func TestDocs_MissingDocumentIs404(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.OpenAPIPath = "does/not/exist.yaml"
	}))

	resp, _ := app.Test(httptest.NewRequest("GET", "/docs/openapi.yaml", nil), -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if code := decodeAPIError(t, resp.Body); code != "not_found" {
		t.Errorf("expected not_found, got %q", code)
	}

	ui, _ := app.Test(httptest.NewRequest("GET", "/docs", nil), -1)
	if ui.StatusCode != 200 {
		t.Errorf("expected the UI to stay up, got %d", ui.StatusCode)
	}
}

// ---- Conditional requests ----

func TestETag_NotModifiedForListedTag(t *testing.T) {
	app := setupApp(makeDeps())

	first, _ := app.Test(httptest.NewRequest("GET", "/v1/features?limit=2", nil), -1)
	etag := first.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("expected a weak etag, got %q", etag)
	}

	req := httptest.NewRequest("GET", "/v1/features?limit=2", nil)
	req.Header.Set("If-None-Match", `"other", `+strings.TrimPrefix(etag, "W/"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 304 {
		t.Fatalf("expected 304, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp.Body); len(body) != 0 {
		t.Errorf("expected empty body, got %q", body)
	}
}

func TestETag_SkipsStreamedRange(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/features/range?lo_latitude=400000000&lo_longitude=-750000000&hi_latitude=420000000&hi_longitude=-730000000", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if etag := resp.Header.Get("ETag"); etag != "" {
		t.Errorf("streamed response should carry no etag, got %q", etag)
	}
}
