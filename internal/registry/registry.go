// Package registry holds the static catalog of feeds grouped by region.
package registry

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RegionGroup is one named region with its feed URLs.
type RegionGroup struct {
	Name  string   `yaml:"name"`
	Feeds []string `yaml:"feeds"`
}

// feedsFile is the YAML config structure:
//
// regions:
//   - name: Europe
//     feeds:
//       - https://...
// common:
//   - https://...
// fast:
//   - https://...
type feedsFile struct {
	Regions []RegionGroup `yaml:"regions"`
	Common  []string      `yaml:"common"`
	Fast    []string      `yaml:"fast"`
}

// Registry is the immutable feed catalog, loaded once at process start.
// Region order follows the config file; inference walks it top to bottom.
type Registry struct {
	regions []RegionGroup
	common  []string
	fast    []string
}

// Load reads the feed catalog from a YAML file.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feeds config: %w", err)
	}
	defer f.Close()

	var file feedsFile
	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse feeds config %s: %w", path, err)
	}
	return New(file.Regions, file.Common, file.Fast)
}

// New builds a Registry from already-parsed groups. Split out from Load so
// tests can construct small catalogs without a file.
func New(regions []RegionGroup, common, fast []string) (*Registry, error) {
	if len(regions) == 0 && len(common) == 0 {
		return nil, fmt.Errorf("feed catalog is empty")
	}
	for _, g := range regions {
		if g.Name == "" {
			return nil, fmt.Errorf("region with empty name in feed catalog")
		}
	}
	return &Registry{regions: regions, common: common, fast: fast}, nil
}

// Regions returns the region names in catalog order.
func (r *Registry) Regions() []string {
	names := make([]string, 0, len(r.regions))
	for _, g := range r.regions {
		names = append(names, g.Name)
	}
	return names
}

// FeedsFor resolves the feed set for one request. A named region yields that
// region's feeds plus the common bucket; an unknown region yields just the
// common bucket; empty region means every feed in the catalog.
func (r *Registry) FeedsFor(region string) []string {
	if region == "" {
		return r.AllFeeds()
	}
	var urls []string
	for _, g := range r.regions {
		if strings.EqualFold(g.Name, region) {
			urls = append(urls, g.Feeds...)
			break
		}
	}
	return append(urls, r.common...)
}

// FastFeeds returns the small ultra-reliable subset used for first-paint
// responses. A catalog without a fast bucket falls back to the common bucket.
func (r *Registry) FastFeeds() []string {
	if len(r.fast) > 0 {
		return r.fast
	}
	return r.common
}

// AllFeeds returns every catalog feed, regional groups first.
func (r *Registry) AllFeeds() []string {
	var urls []string
	for _, g := range r.regions {
		urls = append(urls, g.Feeds...)
	}
	return append(urls, r.common...)
}

// InferRegion maps a feed URL to a region by comparing hostnames against the
// regional groupings. First matching region in catalog order wins; the common
// bucket never matches. Returns "" when no region matches.
func (r *Registry) InferRegion(feedURL string) string {
	h := host(feedURL)
	if h == "" {
		return ""
	}
	for _, g := range r.regions {
		for _, u := range g.Feeds {
			if host(u) == h {
				return g.Name
			}
		}
	}
	return ""
}

func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
