package venue

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed venues.yaml
var embeddedRegistry []byte

// Registry is the static venue list, looked up by id or by display name.
type Registry struct {
	venues    []Venue
	byID      map[string]int
	byName    map[string]int
	defaultID string
}

// LoadRegistry reads the registry from path, or the built-in one when path is empty.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return ParseRegistry(embeddedRegistry)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read venue registry: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry decodes and checks a YAML registry.
func ParseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}
	if len(file.Venues) == 0 {
		return nil, fmt.Errorf("%w: no venues", ErrInvalidRegistry)
	}

	r := &Registry{
		venues:    file.Venues,
		byID:      make(map[string]int, len(file.Venues)),
		byName:    make(map[string]int, len(file.Venues)),
		defaultID: file.Default,
	}
	for i, v := range file.Venues {
		if v.ID == "" || v.Name == "" || v.Address == "" {
			return nil, fmt.Errorf("%w: venue %d needs id, name and address", ErrInvalidRegistry, i)
		}
		if _, dup := r.byID[v.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidRegistry, v.ID)
		}
		if v.Coordinates != nil {
			if err := v.Coordinates.Validate(); err != nil {
				return nil, fmt.Errorf("%w: venue %q: %v", ErrInvalidRegistry, v.ID, err)
			}
		}
		r.byID[v.ID] = i
		for _, name := range append([]string{v.Name}, v.Aliases...) {
			key := nameKey(name)
			if _, dup := r.byName[key]; dup {
				return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidRegistry, name)
			}
			r.byName[key] = i
		}
	}
	if r.defaultID == "" {
		r.defaultID = file.Venues[0].ID
	}
	if _, ok := r.byID[r.defaultID]; !ok {
		return nil, fmt.Errorf("%w: default venue %q is not listed", ErrInvalidRegistry, r.defaultID)
	}
	return r, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// All returns the venues in file order.
func (r *Registry) All() []Venue {
	out := make([]Venue, len(r.venues))
	for i, v := range r.venues {
		out[i] = v.clone()
	}
	return out
}

func (r *Registry) ByID(id string) (Venue, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Venue{}, false
	}
	return r.venues[i].clone(), true
}

// ByName matches the display name or an alias, ignoring case.
func (r *Registry) ByName(name string) (Venue, bool) {
	i, ok := r.byName[nameKey(name)]
	if !ok {
		return Venue{}, false
	}
	return r.venues[i].clone(), true
}

func (r *Registry) Default() Venue {
	return r.venues[r.byID[r.defaultID]].clone()
}

// ImageFor returns the image of the named venue, or the default venue's image.
func (r *Registry) ImageFor(name string) string {
	if v, ok := r.ByName(name); ok && v.Image != "" {
		return v.Image
	}
	return r.Default().Image
}

func (v Venue) clone() Venue {
	cp := v
	cp.Aliases = append([]string(nil), v.Aliases...)
	if v.Coordinates != nil {
		c := *v.Coordinates
		cp.Coordinates = &c
	}
	return cp
}
