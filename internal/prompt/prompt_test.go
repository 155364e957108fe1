package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/seenimoa/newslens/pkg/models"
)

func okDoc(domain, text string) models.SourceDocument {
	return models.SourceDocument{
		URL:    "https://" + domain + "/story",
		Domain: domain,
		Text:   text,
		Status: models.FetchOK,
	}
}

func TestAssembleTwoSources(t *testing.T) {
	docs := []models.SourceDocument{
		okDoc("reuters.com", "Central bank raises rates by a quarter point."),
		okDoc("bbc.com", "Markets fell after the rate decision."),
	}

	p, err := Assemble(docs, models.TierStandard)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if !strings.Contains(p, "--- SOURCE 1: reuters.com ---") {
		t.Error("missing source 1 marker")
	}
	if !strings.Contains(p, "--- SOURCE 2: bbc.com ---") {
		t.Error("missing source 2 marker")
	}
	if !strings.Contains(p, "Central bank raises rates") || !strings.Contains(p, "Markets fell") {
		t.Error("document text not embedded")
	}
	if !strings.Contains(p, "300-400 words") {
		t.Error("missing Standard word target")
	}
	// The contract requests one credibility line per loaded source.
	if !strings.Contains(p, "SOURCE 2: <credibility") {
		t.Error("missing credibility request for source 2")
	}
	if strings.Contains(p, "SOURCE 3: <credibility") {
		t.Error("credibility requested for a source that does not exist")
	}
}

func TestAssembleLengthTiers(t *testing.T) {
	docs := []models.SourceDocument{okDoc("ap.org", "Some article text.")}

	cases := []struct {
		tier models.LengthTier
		want string
	}{
		{models.TierBrief, "150-200 words"},
		{models.TierStandard, "300-400 words"},
		{models.TierDetailed, "at least 500 words"},
	}
	for _, c := range cases {
		p, err := Assemble(docs, c.tier)
		if err != nil {
			t.Fatalf("Assemble(%s): %v", c.tier, err)
		}
		if !strings.Contains(p, c.want) {
			t.Errorf("tier %s: prompt missing %q", c.tier, c.want)
		}
	}
}

func TestAssembleSkipsFailedSources(t *testing.T) {
	docs := []models.SourceDocument{
		{URL: "https://dead.example/x", Domain: "dead.example", Status: models.FetchFailed, Error: "404"},
		okDoc("reuters.com", "The only loaded article."),
	}

	p, err := Assemble(docs, models.TierStandard)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if strings.Contains(p, "dead.example") {
		t.Error("failed source leaked into prompt")
	}
	// The remaining source is renumbered as 1.
	if !strings.Contains(p, "--- SOURCE 1: reuters.com ---") {
		t.Error("surviving source not numbered 1")
	}
	if strings.Contains(p, "--- SOURCE 2:") {
		t.Error("unexpected second source marker")
	}
}

func TestAssembleNoDocuments(t *testing.T) {
	docs := []models.SourceDocument{
		{URL: "https://a.example", Status: models.FetchFailed, Error: "timeout"},
	}
	if _, err := Assemble(docs, models.TierBrief); !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("got %v, want ErrNoDocuments", err)
	}
	if _, err := Assemble(nil, models.TierBrief); !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("nil docs: got %v, want ErrNoDocuments", err)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	docs := []models.SourceDocument{
		okDoc("reuters.com", "Alpha beta gamma."),
		okDoc("bbc.com", "Delta epsilon zeta."),
	}

	first, err := Assemble(docs, models.TierDetailed)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Assemble(docs, models.TierDetailed)
		if err != nil {
			t.Fatalf("Assemble: %v", err)
		}
		if again != first {
			t.Fatal("prompt differs between identical calls")
		}
	}
}

func TestAssembleIncludesContractLabels(t *testing.T) {
	p, err := Assemble([]models.SourceDocument{okDoc("bbc.com", "text")}, models.TierStandard)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for _, label := range []string{"SUMMARY:", "KEYWORDS:", "SENTIMENT:", "BIAS:", "TONE:", "ENTITIES:", "CREDIBILITY:", "TOPICS:"} {
		if !strings.Contains(p, label) {
			t.Errorf("contract missing label %q", label)
		}
	}
}
