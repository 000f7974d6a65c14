package scraper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/internhunt/internal/models"
)

// parseJSONLDPostings reads schema.org JobPosting blocks. Some boards embed
// them even when the visible cards are rendered client-side.
func parseJSONLDPostings(doc *goquery.Document, source string, base string) []models.JobPosting {
	var jobs []models.JobPosting

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		data, err := decodeJSONLD(raw)
		if err != nil {
			return
		}

		for _, job := range extractJSONLD(data, source) {
			job.Link = absoluteURL(base, job.Link)
			if job.Title == "" || job.Company == "" || !isAbsoluteHTTP(job.Link) {
				continue
			}
			jobs = append(jobs, job)
		}
	})

	return jobs
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "\u2028", "")
	raw = strings.ReplaceAll(raw, "\u2029", "")

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func extractJSONLD(data any, source string) []models.JobPosting {
	var jobs []models.JobPosting

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			jobs = append(jobs, extractJSONLD(item, source)...)
		}
	case map[string]any:
		switch strings.ToLower(stringValue(value["@type"], value["type"])) {
		case "jobposting":
			return append(jobs, models.JobPosting{
				Title:   cleanText(stringValue(value["title"], value["name"])),
				Company: cleanText(stringValue(value["hiringOrganization"])),
				Link:    stringValue(value["url"], value["@id"]),
				Source:  source,
			})
		case "itemlist":
			jobs = append(jobs, extractJSONLD(value["itemListElement"], source)...)
		case "listitem":
			jobs = append(jobs, extractJSONLD(value["item"], source)...)
		}
		if graph, ok := value["@graph"]; ok {
			jobs = append(jobs, extractJSONLD(graph, source)...)
		}
		if main, ok := value["mainEntity"]; ok {
			jobs = append(jobs, extractJSONLD(main, source)...)
		}
	}

	return jobs
}

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case map[string]any:
			if name := stringValue(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}
