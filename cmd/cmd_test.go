package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rubiojr/trialsearch/pkg/api"
	"github.com/rubiojr/trialsearch/pkg/client"
	"github.com/rubiojr/trialsearch/pkg/config"
	"github.com/rubiojr/trialsearch/pkg/filters"
	"github.com/rubiojr/trialsearch/pkg/trials"
	"github.com/urfave/cli/v3"
)

func setupStubClient(t *testing.T, opts api.Options) *client.Client {
	t.Helper()
	dataset, err := api.DefaultDataset()
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}
	srv := httptest.NewServer(api.NewServer(dataset, opts).Handler())
	t.Cleanup(srv.Close)
	return client.New(srv.URL + "/api")
}

func testOutputOptions() outputOptions {
	return outputOptions{Page: 1, PageSize: 10, Summary: true, Suggested: config.DefaultSuggestedQueries}
}

func TestSearchTrialsJSON(t *testing.T) {
	c := setupStubClient(t, api.Options{})
	opts := testOutputOptions()
	opts.JSON = true

	var buf bytes.Buffer
	if err := searchTrials(context.Background(), c, "Phase 3 lung cancer", opts, &buf); err != nil {
		t.Fatalf("searchTrials() error = %v", err)
	}

	var resp trials.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, buf.String())
	}
	if resp.Total != 3 {
		t.Errorf("Expected 3 results, got %d", resp.Total)
	}
	if resp.Summary == nil || !strings.Contains(*resp.Summary, "[1]") {
		t.Errorf("Expected summary with citations, got %v", resp.Summary)
	}
}

func TestSearchTrialsText(t *testing.T) {
	c := setupStubClient(t, api.Options{})

	var buf bytes.Buffer
	if err := searchTrials(context.Background(), c, "Phase 3 lung cancer", testOutputOptions(), &buf); err != nil {
		t.Fatalf("searchTrials() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Phase 3 lung cancer",
		"Showing 1-3 of 3 trials",
		"Osimertinib Versus Chemotherapy",
		"NCT04000002",
		"Found 3 trials",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestSearchTrialsSkipsSummaryAfterFirstPage(t *testing.T) {
	c := setupStubClient(t, api.Options{})
	opts := testOutputOptions()
	opts.JSON = true
	opts.Page = 2
	opts.PageSize = 2

	var buf bytes.Buffer
	if err := searchTrials(context.Background(), c, "lung cancer", opts, &buf); err != nil {
		t.Fatalf("searchTrials() error = %v", err)
	}
	var resp trials.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if resp.Summary != nil {
		t.Errorf("Expected no summary on page 2, got %q", *resp.Summary)
	}
	if len(resp.Results) == 0 || resp.Results[0].NCTID != "NCT04000003" {
		t.Errorf("Unexpected page 2 results: %+v", resp.Results)
	}
}

func TestSearchTrialsNoResults(t *testing.T) {
	c := setupStubClient(t, api.Options{})

	var buf bytes.Buffer
	if err := searchTrials(context.Background(), c, "xylophone", testOutputOptions(), &buf); err != nil {
		t.Fatalf("searchTrials() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, config.DefaultSuggestedQueries[0]) {
		t.Errorf("Expected suggested queries in output:\n%s", out)
	}
}

func TestSearchTrialsFailure(t *testing.T) {
	c := setupStubClient(t, api.Options{FailOn: "boom"})

	var buf bytes.Buffer
	err := searchTrials(context.Background(), c, "boom", testOutputOptions(), &buf)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output on failure, got %q", buf.String())
	}
}

func runFilterFlags(t *testing.T, args ...string) (filters.State, error) {
	t.Helper()
	var got filters.State
	fc := FilterCommand()
	fc.Action = func(ctx context.Context, c *cli.Command) error {
		s, err := filterStateFrom(c)
		got = s
		return err
	}
	err := fc.Run(context.Background(), append([]string{"filter"}, args...))
	return got, err
}

func TestFilterStateFromFlags(t *testing.T) {
	s, err := runFilterFlags(t, "--phase", "phase3", "--status", "recruiting", "--city", "Houston", "--age-group", "Adult", "--min-enrollment", "0")
	if err != nil {
		t.Fatalf("filterStateFrom() error = %v", err)
	}
	if trials.Value(s.Phase) != "PHASE3" {
		t.Errorf("Phase = %q, want PHASE3", trials.Value(s.Phase))
	}
	if trials.Value(s.Status) != "RECRUITING" {
		t.Errorf("Status = %q, want RECRUITING", trials.Value(s.Status))
	}
	if s.Location.City != "Houston" {
		t.Errorf("City = %q", s.Location.City)
	}
	if len(s.AgeGroups) != 1 || s.AgeGroups[0] != "adult" {
		t.Errorf("AgeGroups = %v", s.AgeGroups)
	}
	if s.EnrollmentMin == nil || *s.EnrollmentMin != 0 {
		t.Errorf("EnrollmentMin = %v, want explicit 0", s.EnrollmentMin)
	}
	if s.EnrollmentMax != nil {
		t.Errorf("EnrollmentMax = %v, want unset", *s.EnrollmentMax)
	}
}

func TestFilterStateFromFlagsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no filters", nil},
		{"unknown phase", []string{"--phase", "PHASE9"}},
		{"unknown status", []string{"--status", "PAUSED"}},
		{"unknown age group", []string{"--age-group", "teen"}},
		{"inverted enrollment", []string{"--min-enrollment", "500", "--max-enrollment", "100"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runFilterFlags(t, tt.args...); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestFilterTrials(t *testing.T) {
	c := setupStubClient(t, api.Options{})
	state := filters.State{
		Status:   trials.Ptr(trials.StatusRecruiting),
		Location: filters.Location{City: "Houston"},
	}
	opts := testOutputOptions()
	opts.JSON = true

	var buf bytes.Buffer
	if err := filterTrials(context.Background(), c, state, opts, &buf); err != nil {
		t.Fatalf("filterTrials() error = %v", err)
	}
	var resp trials.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	want := []string{"NCT04000001", "NCT04000012", "NCT04000014"}
	if len(resp.Results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(resp.Results))
	}
	for i, r := range resp.Results {
		if r.NCTID != want[i] {
			t.Errorf("Result %d = %s, want %s", i, r.NCTID, want[i])
		}
	}
	if resp.Summary != nil {
		t.Error("Filter searches should not carry a summary")
	}
}

func TestFilterTrialsText(t *testing.T) {
	c := setupStubClient(t, api.Options{})
	state := filters.State{Phase: trials.Ptr(trials.Phase4)}

	var buf bytes.Buffer
	if err := filterTrials(context.Background(), c, state, testOutputOptions(), &buf); err != nil {
		t.Fatalf("filterTrials() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Budesonide Inhaler Adherence") {
		t.Errorf("Expected the Phase 4 trial in output:\n%s", buf.String())
	}
}

func TestSuggestQueries(t *testing.T) {
	c := setupStubClient(t, api.Options{})

	var buf bytes.Buffer
	if err := suggestQueries(context.Background(), c, "lu", true, &buf); err != nil {
		t.Fatalf("suggestQueries() error = %v", err)
	}
	var got []string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if len(got) != 2 || got[0] != "lung cancer" || got[1] != "lupus" {
		t.Errorf("Suggestions = %v, want [lung cancer lupus]", got)
	}

	buf.Reset()
	if err := suggestQueries(context.Background(), c, "l", true, &buf); err != nil {
		t.Fatalf("suggestQueries() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Expected an empty array for a short prefix, got %s", buf.String())
	}
}

func TestSummarizeQuery(t *testing.T) {
	c := setupStubClient(t, api.Options{})

	var buf bytes.Buffer
	if err := summarizeQuery(context.Background(), c, "xylophone", true, &buf); err != nil {
		t.Fatalf("summarizeQuery() error = %v", err)
	}
	var out summaryOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if out.Summary != nil {
		t.Errorf("Expected null summary, got %q", *out.Summary)
	}

	buf.Reset()
	if err := summarizeQuery(context.Background(), c, "melanoma", false, &buf); err != nil {
		t.Fatalf("summarizeQuery() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Found 1 trial") {
		t.Errorf("Unexpected summary output:\n%s", buf.String())
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trialsearch", "config.toml")

	if err := initConfig(path, "http://trials.internal:9000/api/", false); err != nil {
		t.Fatalf("initConfig() error = %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIURL != "http://trials.internal:9000/api" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}

	if err := initConfig(path, "", false); err == nil {
		t.Error("Expected an error when the config already exists")
	}
	if err := initConfig(path, "", true); err != nil {
		t.Errorf("initConfig(force) error = %v", err)
	}
}

func TestLoadStubDataset(t *testing.T) {
	ds, err := loadStubDataset("")
	if err != nil {
		t.Fatalf("loadStubDataset() error = %v", err)
	}
	if len(ds.Trials) == 0 {
		t.Error("Expected the built-in fixtures")
	}

	path := filepath.Join(t.TempDir(), "trials.json")
	doc := `{"trials":[{"nct_id":"NCT1","brief_title":"Only trial"}]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	ds, err = loadStubDataset(path)
	if err != nil {
		t.Fatalf("loadStubDataset(%s) error = %v", path, err)
	}
	if len(ds.Trials) != 1 {
		t.Errorf("Expected 1 trial, got %d", len(ds.Trials))
	}

	if _, err := loadStubDataset(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected an error for a missing dataset")
	}
}

func TestServeStubShutsDown(t *testing.T) {
	ds, err := api.DefaultDataset()
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveStub(ctx, "127.0.0.1:0", ds, api.Options{}) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serveStub() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serveStub did not shut down")
	}
}
