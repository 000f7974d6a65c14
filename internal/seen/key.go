package seen

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/jimezsa/internhunt/internal/models"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const keySeparator = "::"

var folder = cases.Fold()

// Normalize case-folds value, strips diacritics and collapses whitespace.
func Normalize(value string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		stripped = value
	}
	return strings.Join(strings.Fields(folder.String(stripped)), " ")
}

// Domain returns the registrable domain of link, so jobs.acme.com and
// careers.acme.com compare equal. Unparseable links yield "".
func Domain(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// Key builds the identity key title::company::domain for a posting.
// Postings without a title or company have no key.
func Key(job models.JobPosting) (string, bool) {
	title := Normalize(job.Title)
	company := Normalize(job.Company)
	if title == "" || company == "" {
		return "", false
	}
	return title + keySeparator + company + keySeparator + Domain(job.Link), true
}

// Dedupe keeps the first posting for every key, preserving order. Postings
// without a key are kept as they are.
func Dedupe(jobs []models.JobPosting) ([]models.JobPosting, int) {
	keys := keySet{}
	out := make([]models.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if valid, fresh := keys.add(job); valid && !fresh {
			continue
		}
		out = append(out, job)
	}
	return out, len(jobs) - len(out)
}
