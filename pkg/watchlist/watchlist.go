package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Package watchlist loads the guilds the harvester tracks from a YAML/JSON
// file.

const defaultLookbackDays = 7

// Guild is one watched guild entry.
type Guild struct {
	ID           string `json:"id" yaml:"id"`
	Guild        string `json:"guild" yaml:"guild"`
	Server       string `json:"server" yaml:"server"`
	Region       string `json:"region" yaml:"region"`
	LookbackDays int    `json:"lookback_days" yaml:"lookback_days"`
}

// Lookback returns how far back report listings are requested for the guild.
func (g Guild) Lookback() time.Duration {
	days := g.LookbackDays
	if days <= 0 {
		days = defaultLookbackDays
	}
	return time.Duration(days) * 24 * time.Hour
}

type watchFile struct {
	Guilds []Guild `json:"guilds" yaml:"guilds"`
}

// Registry holds the loaded watchlist.
type Registry struct {
	mu     sync.RWMutex
	guilds []Guild
	idx    map[string]Guild
}

// Load reads the watchlist registry from a YAML/JSON file.
func Load(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("watchlist file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read watchlist file: %w", err)
	}

	parsed, err := parseWatchFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Guilds) == 0 {
		return nil, errors.New("watchlist file contains no guilds entries")
	}

	reg := &Registry{
		guilds: make([]Guild, len(parsed.Guilds)),
		idx:    make(map[string]Guild, len(parsed.Guilds)),
	}

	for i := range parsed.Guilds {
		g := sanitizeGuild(parsed.Guilds[i])
		if err := validateGuild(g); err != nil {
			return nil, fmt.Errorf("guilds[%d]: %w", i, err)
		}
		if _, exists := reg.idx[g.ID]; exists {
			return nil, fmt.Errorf("duplicate watchlist id %q", g.ID)
		}
		reg.guilds[i] = g
		reg.idx[g.ID] = g
	}

	return reg, nil
}

func parseWatchFile(data []byte, ext string) (watchFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed watchFile
		if err := d.fn(data, &parsed); err == nil {
			return parsed, nil
		}
	}

	return watchFile{}, errors.New("watchlist file format not recognized (expected YAML or JSON)")
}

func sanitizeGuild(g Guild) Guild {
	g.ID = strings.TrimSpace(g.ID)
	g.Guild = strings.TrimSpace(g.Guild)
	g.Server = strings.TrimSpace(g.Server)
	g.Region = strings.ToUpper(strings.TrimSpace(g.Region))
	if g.LookbackDays <= 0 {
		g.LookbackDays = defaultLookbackDays
	}
	return g
}

func validateGuild(g Guild) error {
	if g.ID == "" {
		return errors.New("id is required")
	}
	if g.Guild == "" {
		return fmt.Errorf("guild is required for entry %q", g.ID)
	}
	if g.Server == "" {
		return fmt.Errorf("server is required for entry %q", g.ID)
	}
	if g.Region == "" {
		return fmt.Errorf("region is required for entry %q", g.ID)
	}
	return nil
}

// All returns a copy of the watched guilds.
func (r *Registry) All() []Guild {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Guild, len(r.guilds))
	copy(out, r.guilds)
	return out
}

// ByID returns the entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Guild, bool) {
	if r == nil {
		return Guild{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Guild{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.idx[id]
	return g, ok
}
