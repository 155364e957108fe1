package parser

// DefaultCredibility is the prior score for domains not in the table.
const DefaultCredibility = 6.0

// domainCredibility holds prior credibility scores, on a 0-10 scale, for
// well-known news outlets. Used when the model does not score a source.
var domainCredibility = map[string]float64{
	"reuters.com":        9.5,
	"ap.org":             9.4,
	"bbc.com":            9.2,
	"npr.org":            9.0,
	"pbs.org":            8.8,
	"wsj.com":            8.7,
	"nytimes.com":        8.5,
	"washingtonpost.com": 8.3,
	"theguardian.com":    8.2,
	"economist.com":      8.0,
	"nbcnews.com":        7.8,
	"abcnews.go.com":     7.7,
	"cbsnews.com":        7.6,
	"cnn.com":            7.5,
	"usatoday.com":       7.2,
	"foxnews.com":        7.0,
}

// DomainCredibility returns the prior credibility score for a news domain.
func DomainCredibility(domain string) float64 {
	if score, ok := domainCredibility[domain]; ok {
		return score
	}
	return DefaultCredibility
}
