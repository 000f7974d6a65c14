package scraper

import (
	"strings"

	"github.com/jimezsa/internhunt/internal/browser"
	"github.com/jimezsa/internhunt/internal/network"
	"github.com/rs/zerolog"
)

const (
	SiteLinkedIn    = "linkedin"
	SiteIndeed      = "indeed"
	SiteGlassdoor   = "glassdoor"
	SiteInternshala = "internshala"
	SiteGoogle      = "google"
)

// Source tags carried on every posting.
const (
	SourceLinkedIn    = "LinkedIn"
	SourceIndeed      = "Indeed"
	SourceGlassdoor   = "Glassdoor"
	SourceInternshala = "Internshala"
	SourceGoogle      = "Google Search"
)

// PrimaryOrder is the fixed priority in which primary results are joined.
var PrimaryOrder = []string{SiteLinkedIn, SiteIndeed, SiteGlassdoor, SiteInternshala}

type Deps struct {
	Client   network.Doer
	Renderer browser.Renderer
	LinkedIn Credentials
	Pause    browser.Pauser
	Delays   Delays
	Logger   zerolog.Logger
}

// Registry builds every adapter keyed by site name.
func Registry(deps Deps) map[string]Scraper {
	delays := deps.Delays
	if delays == (Delays{}) {
		delays = DefaultDelays
	}
	return map[string]Scraper{
		SiteLinkedIn:    NewLinkedIn(deps.Renderer, deps.LinkedIn, deps.Pause, delays, deps.Logger),
		SiteIndeed:      NewIndeed(deps.Renderer, deps.Client, deps.Pause, delays, deps.Logger),
		SiteGlassdoor:   NewGlassdoor(deps.Client, deps.Logger),
		SiteInternshala: NewInternshala(deps.Client, deps.Logger),
		SiteGoogle:      NewGoogle(deps.Client, deps.Logger),
	}
}

// Primary returns the primary adapters for sites in PrimaryOrder. An empty
// sites list selects all of them.
func Primary(registry map[string]Scraper, sites []string) []Scraper {
	wanted := map[string]bool{}
	for _, site := range NormalizeSites(sites) {
		wanted[site] = true
	}
	var out []Scraper
	for _, site := range PrimaryOrder {
		if len(wanted) > 0 && !wanted[site] {
			continue
		}
		if s, ok := registry[site]; ok {
			out = append(out, s)
		}
	}
	return out
}

func NormalizeSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		site = strings.ToLower(strings.TrimSpace(site))
		if site == "" {
			continue
		}
		site = strings.TrimPrefix(site, "www.")
		site = strings.TrimSuffix(site, ".com")
		out = append(out, site)
	}
	return out
}
