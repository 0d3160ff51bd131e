package route

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Handlers maps the handler names used in a registry file to functions.
type Handlers map[string]Handler

type registryFile struct {
	Sites []siteEntry `yaml:"sites"`
}

type siteEntry struct {
	Host   string      `yaml:"host"`
	Routes []ruleEntry `yaml:"routes"`
}

type ruleEntry struct {
	Pattern string `yaml:"pattern"`
	Match   string `yaml:"match"`
	Handler string `yaml:"handler"`
}

// LoadFile reads a YAML registry from path.
func LoadFile(path string, handlers Handlers) ([]Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening registry: %w", err)
	}
	defer f.Close()

	return Load(f, handlers)
}

// Load decodes a YAML registry and binds handler names. A name missing from
// handlers leaves the rule without a handler, which New reports; the rest of
// the registry still loads.
func Load(r io.Reader, handlers Handlers) ([]Site, error) {
	var doc registryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}

	sites := make([]Site, 0, len(doc.Sites))
	for _, se := range doc.Sites {
		site := Site{HostMatch: se.Host}
		for i, re := range se.Routes {
			kind, err := ParseMatchType(re.Match)
			if err != nil {
				return nil, fmt.Errorf("site %q route %d: %w", se.Host, i, err)
			}

			site.Routes = append(site.Routes, Rule{
				Pattern:     re.Pattern,
				Match:       kind,
				Handler:     handlers[re.Handler],
				HandlerName: re.Handler,
			})
		}
		sites = append(sites, site)
	}

	return sites, nil
}
