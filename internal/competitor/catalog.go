package competitor

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/aeo-monitor/internal/model"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogEntry is one reference competitor from the embedded catalog.
type CatalogEntry struct {
	Name     string           `yaml:"name"`
	Domain   string           `yaml:"domain"`
	Strength string           `yaml:"strength"`
	Threat   model.ThreatTier `yaml:"threat"`
	Score    float64          `yaml:"score"`
}

// Catalog holds per-industry competitor rosters. Industry lookup is
// case-insensitive.
type Catalog struct {
	industries map[string][]CatalogEntry
}

type catalogFile struct {
	Industries map[string][]CatalogEntry `yaml:"industries"`
}

// LoadCatalog parses the embedded reference catalog.
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(catalogYAML)
}

func parseCatalog(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, eris.Wrap(err, "parse competitor catalog")
	}

	industries := make(map[string][]CatalogEntry, len(file.Industries))
	for industry, entries := range file.Industries {
		industries[strings.ToLower(strings.TrimSpace(industry))] = entries
	}
	return &Catalog{industries: industries}, nil
}

// Roster returns the entries for one industry, or nil when the industry is
// not cataloged. An unknown industry is a normal condition, not an error.
func (c *Catalog) Roster(industry string) []CatalogEntry {
	return c.industries[strings.ToLower(strings.TrimSpace(industry))]
}

// Industries lists every cataloged industry key.
func (c *Catalog) Industries() []string {
	keys := make([]string, 0, len(c.industries))
	for k := range c.industries {
		keys = append(keys, k)
	}
	return keys
}
