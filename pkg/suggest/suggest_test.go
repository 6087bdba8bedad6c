package suggest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/minhlq/curmap/pkg/cache"
	"github.com/minhlq/curmap/pkg/dataset"
)

func testTaxonomy(t *testing.T) *Taxonomy {
	t.Helper()
	csv := "verb,level\n" +
		"Define,remember\n" +
		"Explain,Understand\n" +
		"Apply,Apply\n" +
		"Differentiate,Analyze\n" +
		"Critique,Evaluate\n" +
		"Design,Create\n"
	tax, err := LoadTaxonomy(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadTaxonomy: %v", err)
	}
	return tax
}

func TestPickVerbsByLevel(t *testing.T) {
	tax := testTaxonomy(t)

	tests := []struct {
		level dataset.Level
		want  []string
	}{
		{dataset.LevelIntroduce, []string{"Define", "Explain"}},
		{dataset.LevelReinforce, []string{"Apply", "Differentiate"}},
		{dataset.LevelMaster, []string{"Differentiate", "Critique"}},
		{dataset.LevelAssess, []string{"Critique", "Design"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			var got []string
			for _, v := range tax.PickVerbs(tt.level, 6) {
				got = append(got, v.Verb)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PickVerbs(%s) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestPickVerbsGenericFallback(t *testing.T) {
	empty := NewTaxonomy(nil)
	verbs := empty.PickVerbs(dataset.LevelIntroduce, 3)
	if len(verbs) != 3 || verbs[0].Verb != "Describe" || verbs[0].Level != "*" {
		t.Errorf("generic verbs = %v, want Describe/Explain/Apply with level *", verbs)
	}
}

func TestPickVerbsDeterministic(t *testing.T) {
	tax := testTaxonomy(t)
	a := tax.PickVerbs(dataset.LevelAssess, 2)
	b := tax.PickVerbs(dataset.LevelAssess, 2)
	if !reflect.DeepEqual(a, b) {
		t.Error("PickVerbs must be deterministic")
	}
}

func TestCanonLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"remember", "Remember"},
		{"APPLY", "Apply"},
		{"  create  ", "Create"},
		{"", "*"},
		{"áp dụng", "Áp dụng"},
		{"đánh giá", "Đánh giá"},
	}
	for _, tt := range tests {
		if got := canonLevel(tt.in); got != tt.want {
			t.Errorf("canonLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTaxonomyAccentedLevelLookup(t *testing.T) {
	tax := NewTaxonomy([]Verb{{Verb: "Vận dụng", Level: "áp dụng"}})
	verbs := tax.Verbs()
	if len(verbs) != 1 || verbs[0].Level != "Áp dụng" {
		t.Errorf("accented level not canonicalized: %+v", verbs)
	}
}

func TestFallbackSuggest(t *testing.T) {
	items := FallbackSuggest(testTaxonomy(t), "PLO1", "Intro", dataset.LevelIntroduce, 5)
	if len(items) != 2 {
		t.Fatalf("got %d items, want one per available verb", len(items))
	}
	if items[0] != "CLO1: Define Intro in support of PLO1 (Remember)." {
		t.Errorf("unexpected template: %q", items[0])
	}
}

func TestFallbackEvaluate(t *testing.T) {
	ev := FallbackEvaluate("Analyze and design software systems", "Design basic software modules")
	if ev.Score != 40 {
		t.Errorf("Score = %d, want 2 of 5 keywords = 40", ev.Score)
	}
	if ev.Verdict != "partial match" {
		t.Errorf("Verdict = %q", ev.Verdict)
	}
}

func TestFallbackEvaluateFoldsDiacritics(t *testing.T) {
	ev := FallbackEvaluate("Phân tích hệ thống", "phan tich")
	if ev.Score != 50 {
		t.Errorf("Score = %d, want folded overlap 2 of 4 = 50", ev.Score)
	}
}

func TestFallbackEvaluateEmptyOutcome(t *testing.T) {
	ev := FallbackEvaluate("", "anything at all")
	if ev.Score != 0 || ev.Verdict != "weak match" {
		t.Errorf("empty outcome should score 0, got %+v", ev)
	}
}

func TestClientSuggestRemote(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/suggest" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"items":["CLO1: remote"]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "secret"})
	items, remote := c.Suggest(context.Background(), Request{Outcome: "PLO1", Level: dataset.LevelIntroduce})
	if !remote || len(items) != 1 || items[0] != "CLO1: remote" {
		t.Errorf("Suggest = (%v, %v), want remote items", items, remote)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestClientSuggestFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Taxonomy: testTaxonomy(t)})
	items, remote := c.Suggest(context.Background(), Request{
		Outcome:     "PLO1",
		CourseLabel: "CS101",
		Level:       dataset.LevelAssess,
		Count:       2,
	})
	if remote {
		t.Error("a failing remote must report the fallback")
	}
	if len(items) != 2 || !strings.Contains(items[0], "Critique") {
		t.Errorf("fallback items = %v", items)
	}
}

func TestClientSuggestCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"items":["cached"]}`))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	c := NewClient(Config{BaseURL: srv.URL, Cache: fc})

	req := Request{Outcome: "PLO1", CourseLabel: "C1", Level: dataset.LevelIntroduce, Count: 3}
	c.Suggest(context.Background(), req)
	items, remote := c.Suggest(context.Background(), req)
	if calls != 1 {
		t.Errorf("remote called %d times, want cache hit on second call", calls)
	}
	if !remote || len(items) != 1 || items[0] != "cached" {
		t.Errorf("cached result = (%v, %v)", items, remote)
	}
}

func TestClientEvaluateRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/evaluate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"text":"Well aligned."}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	ev, remote := c.Evaluate(context.Background(), "PLO1", "Analyze systems", "Analyze data")
	if !remote || ev.Text != "Well aligned." {
		t.Errorf("Evaluate = (%+v, %v), want remote text", ev, remote)
	}
}

func TestClientEvaluateNoEndpoint(t *testing.T) {
	c := NewClient(Config{})
	ev, remote := c.Evaluate(context.Background(), "PLO1", "Analyze software systems quickly", "Analyze software")
	if remote {
		t.Error("no endpoint must use the fallback")
	}
	if ev.Score == 0 {
		t.Errorf("fallback evaluation missing: %+v", ev)
	}
}
