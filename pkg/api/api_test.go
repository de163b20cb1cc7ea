package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rubiojr/trialsearch/pkg/client"
	"github.com/rubiojr/trialsearch/pkg/trials"
)

func setupTestAPIServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	dataset, err := DefaultDataset()
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}
	srv := httptest.NewServer(NewServer(dataset, opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestDefaultDataset(t *testing.T) {
	dataset, err := DefaultDataset()
	if err != nil {
		t.Fatalf("DefaultDataset() error = %v", err)
	}
	if len(dataset.Trials) != 15 {
		t.Errorf("Expected 15 trials, got %d", len(dataset.Trials))
	}
}

func TestLoadDatasetRejectsDuplicates(t *testing.T) {
	doc := `{"trials":[{"nct_id":"NCT1","brief_title":"a"},{"nct_id":"NCT1","brief_title":"b"}]}`
	if _, err := LoadDataset(strings.NewReader(doc)); err == nil {
		t.Error("Expected error for duplicate nct_id")
	}
	if _, err := LoadDataset(strings.NewReader(`{"trials":[{"brief_title":"a"}]}`)); err == nil {
		t.Error("Expected error for missing nct_id")
	}
}

func TestInterpret(t *testing.T) {
	dataset, err := DefaultDataset()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query         string
		phase         string
		condition     string
		status        string
		city          string
		sponsor       string
		ageGroup      string
		clarification bool
	}{
		{query: "Phase 3 lung cancer trials", phase: "PHASE3", condition: "lung cancer"},
		{query: "lupus", condition: "lupus"},
		{query: "phase 2/3 melanoma", phase: "PHASE2/PHASE3", condition: "melanoma"},
		{query: "recruiting asthma trials in Boston", status: "RECRUITING", condition: "asthma", city: "Boston"},
		{query: "pediatric leukemia", ageGroup: "child", condition: "leukemia"},
		{query: "diabetes sponsored by Novo Nordisk", condition: "diabetes", sponsor: "novo nordisk", clarification: true},
		{query: "not yet recruiting breast cancer", status: "NOT_YET_RECRUITING", condition: "breast cancer"},
		{query: "cancer", condition: "cancer", clarification: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			e := dataset.Interpret(tt.query)
			if got := trials.Value(e.Phase); got != tt.phase {
				t.Errorf("phase = %q, want %q", got, tt.phase)
			}
			if got := trials.Value(e.Condition); got != tt.condition {
				t.Errorf("condition = %q, want %q", got, tt.condition)
			}
			if got := trials.Value(e.Status); got != tt.status {
				t.Errorf("status = %q, want %q", got, tt.status)
			}
			var city string
			if e.Location != nil {
				city = trials.Value(e.Location.City)
			}
			if city != tt.city {
				t.Errorf("city = %q, want %q", city, tt.city)
			}
			if got := trials.Value(e.Sponsor); got != tt.sponsor {
				t.Errorf("sponsor = %q, want %q", got, tt.sponsor)
			}
			if got := trials.Value(e.AgeGroup); got != tt.ageGroup {
				t.Errorf("age group = %q, want %q", got, tt.ageGroup)
			}
			if got := e.Clarification != nil; got != tt.clarification {
				t.Errorf("clarification present = %v, want %v", got, tt.clarification)
			}
			if e.Confidence <= 0 || e.Confidence > 1 {
				t.Errorf("confidence = %v, want (0, 1]", e.Confidence)
			}
		})
	}
}

func TestSearchThroughClient(t *testing.T) {
	srv := setupTestAPIServer(t, Options{})
	c := client.New(srv.URL + "/api")

	resp, err := c.Search(context.Background(), "Phase 3 lung cancer", 1, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("Expected 3 results, got %d", resp.Total)
	}
	want := []string{"NCT04000001", "NCT04000002", "NCT04000003"}
	for i, r := range resp.Results {
		if r.NCTID != want[i] {
			t.Errorf("Result %d = %s, want %s", i, r.NCTID, want[i])
		}
	}
	if got := trials.Value(resp.QueryInterpretation.Phase); got != "PHASE3" {
		t.Errorf("Expected interpreted phase PHASE3, got %q", got)
	}
}

func TestSearchPagination(t *testing.T) {
	srv := setupTestAPIServer(t, Options{})
	c := client.New(srv.URL + "/api")

	resp, err := c.Search(context.Background(), "lung cancer", 2, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.Total != 5 || resp.Page != 2 || resp.PageSize != 2 {
		t.Fatalf("Unexpected paging: total=%d page=%d size=%d", resp.Total, resp.Page, resp.PageSize)
	}
	if len(resp.Results) != 2 || resp.Results[0].NCTID != "NCT04000003" {
		t.Errorf("Unexpected page 2 contents: %+v", resp.Results)
	}
	if resp.TotalPages() != 3 {
		t.Errorf("Expected 3 pages, got %d", resp.TotalPages())
	}

	past, err := c.Search(context.Background(), "lung cancer", 9, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(past.Results) != 0 || past.Total != 5 {
		t.Errorf("Expected empty page past the end, got %d results of %d", len(past.Results), past.Total)
	}
}

func TestSearchInvalidPagination(t *testing.T) {
	srv := setupTestAPIServer(t, Options{})

	for _, q := range []string{"page=0", "page=x", "page_size=0", "page_size=101"} {
		resp, err := http.Get(srv.URL + "/api/search/lupus?" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected 422, got %d", q, resp.StatusCode)
		}
	}
}

func TestSearchPageBeyondEnd(t *testing.T) {
	srv := setupTestAPIServer(t, Options{})
	c := client.New(srv.URL + "/api")

	for _, page := range []int{3, math.MaxInt} {
		resp, err := c.Search(context.Background(), "lung cancer", page, 2)
		if err != nil {
			t.Fatalf("page %d: Search() error = %v", page, err)
		}
		if page > 3 && len(resp.Results) != 0 {
			t.Errorf("page %d: expected no results, got %d", page, len(resp.Results))
		}
		if resp.Total != 5 || resp.Page != page {
			t.Errorf("page %d: total=%d page=%d", page, resp.Total, resp.Page)
		}
	}
}

func TestSearchFailure(t *testing.T) {
	srv := setupTestAPIServer(t, Options{FailOn: "boom"})
	c := client.New(srv.URL + "/api")

	_, err := c.Search(context.Background(), "boom", 1, 10)
	if !errors.Is(err, client.ErrRequestFailed) {
		t.Fatalf("Expected ErrRequestFailed, got %v", err)
	}
	if err.Error() != "Search failed: Internal Server Error" {
		t.Errorf("Unexpected error text %q", err.Error())
	}
}

func TestFilterThroughClient(t *testing.T) {
	srv := setupTestAPIServer(t, Options{})
	c := client.New(srv.URL + "/api")

	resp, err := c.SearchWithFilters(context.Background(), trials.ExtractedEntities{
		Status:   trials.Ptr("RECRUITING"),
		Location: &trials.LocationFilter{City: trials.Ptr("Houston")},
	}, 1, 10)
	if err != nil {
		t.Fatalf("SearchWithFilters() error = %v", err)
	}
	want := []string{"NCT04000001", "NCT04000012", "NCT04000014"}
	if resp.Total != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), resp.Total)
	}
	for i, r := range resp.Results {
		if r.NCTID != want[i] {
			t.Errorf("Result %d = %s, want %s", i, r.NCTID, want[i])
		}
	}
}

func TestFilterEnrollmentAndAge(t *testing.T) {
	srv := setupTestAPIServer(t, Options{})
	c := client.New(srv.URL + "/api")

	resp, err := c.SearchWithFilters(context.Background(), trials.ExtractedEntities{
		AgeGroup:      trials.Ptr("adolescent"),
		EnrollmentMin: trials.Ptr(100),
		EnrollmentMax: trials.Ptr(300),
	}, 1, 10)
	if err != nil {
		t.Fatalf("SearchWithFilters() error = %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("Expected 2 results, got %d", resp.Total)
	}
	if resp.Results[0].NCTID != "NCT04000008" || resp.Results[1].NCTID != "NCT04000013" {
		t.Errorf("Unexpected results %s, %s", resp.Results[0].NCTID, resp.Results[1].NCTID)
	}
}

func TestFilterInvalidParams(t *testing.T) {
	srv := setupTestAPIServer(t, Options{})

	for _, q := range []string{"enrollment_min=-1", "enrollment_max=abc", "location=notjson"} {
		resp, err := http.Get(srv.URL + "/api/filter?" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected 422, got %d", q, resp.StatusCode)
		}
	}
}

func TestDecodeEntitiesRoundTrip(t *testing.T) {
	in := trials.ExtractedEntities{
		Phase:         trials.Ptr("PHASE2"),
		Condition:     trials.Ptr("melanoma"),
		Location:      &trials.LocationFilter{Country: trials.Ptr("Canada")},
		EnrollmentMin: trials.Ptr(10),
		Confidence:    0.8,
	}
	params, err := client.EncodeEntities(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := DecodeEntities(params)
	if err != nil {
		t.Fatal(err)
	}
	if trials.Value(out.Phase) != "PHASE2" || trials.Value(out.Condition) != "melanoma" {
		t.Errorf("Unexpected scalar fields: %+v", out)
	}
	if out.Location == nil || trials.Value(out.Location.Country) != "Canada" || out.Location.City != nil {
		t.Errorf("Unexpected location: %+v", out.Location)
	}
	if out.EnrollmentMin == nil || *out.EnrollmentMin != 10 || out.EnrollmentMax != nil {
		t.Errorf("Unexpected enrollment bounds: %v %v", out.EnrollmentMin, out.EnrollmentMax)
	}
	if out.Confidence != 0 {
		t.Errorf("Confidence should not travel, got %v", out.Confidence)
	}
}

func TestSuggest(t *testing.T) {
	srv := setupTestAPIServer(t, Options{})
	c := client.New(srv.URL + "/api")

	got := c.Suggest(context.Background(), "lu")
	want := []string{"lung cancer", "lupus"}
	if len(got) != len(want) {
		t.Fatalf("Suggest(lu) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Suggest(lu)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	resp, err := http.Get(srv.URL + "/api/suggest?q=" + url.QueryEscape("zzz"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body SuggestionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Suggestions == nil || len(body.Suggestions) != 0 {
		t.Errorf("Expected an empty, non-null suggestion list, got %#v", body.Suggestions)
	}
}

func TestSummary(t *testing.T) {
	srv := setupTestAPIServer(t, Options{FailOn: "boom"})
	c := client.New(srv.URL + "/api")

	summary, ok := c.FetchSummary(context.Background(), "Phase 3 lung cancer")
	if !ok {
		t.Fatal("Expected a summary")
	}
	for _, marker := range []string{"[1]", "[2]", "[3]"} {
		if !strings.Contains(summary, marker) {
			t.Errorf("Summary missing %s: %s", marker, summary)
		}
	}
	if strings.Contains(summary, "[4]") {
		t.Errorf("Summary cites more than three results: %s", summary)
	}

	if _, ok := c.FetchSummary(context.Background(), "xylophone"); ok {
		t.Error("Expected no summary when nothing matches")
	}
	if _, ok := c.FetchSummary(context.Background(), "boom"); ok {
		t.Error("Expected summary failure to be swallowed")
	}
}

func TestHealthAndHeaders(t *testing.T) {
	srv := setupTestAPIServer(t, Options{})

	req, _ := http.NewRequest("GET", srv.URL+"/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if contentType := resp.Header.Get("Content-Type"); contentType != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", contentType)
	}
	if origin := resp.Header.Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("Expected CORS header, got %q", origin)
	}
}

func TestCorsPreflight(t *testing.T) {
	srv := setupTestAPIServer(t, Options{})

	req, _ := http.NewRequest("OPTIONS", srv.URL+"/api/filter", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected preflight status 200, got %d", resp.StatusCode)
	}
}
