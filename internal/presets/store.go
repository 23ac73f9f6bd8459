// Package presets implements the out-of-core HTTP preset store spec.md
// describes only via its interface: opaque JSON blobs persisted by
// id. Grounded on original_source/preset_server.py's PresetManager
// (id/name/rows/category/created/modified fields, default-preset
// auto-creation, atomic JSON-file persistence) with the list/save/
// delete routes of original_source/main_app.py's /api/presets/<name>
// folded in as the canonical REST shape, plus that file's /api/info
// diagnostics endpoint. Uses net/http's ServeMux directly: no package
// anywhere in the retrieved corpus wraps stdlib HTTP routing with a
// third-party router, so bare net/http + encoding/json is the
// deliberate, grounded choice here (documented in DESIGN.md).
package presets

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/vibrowolf/vibrowolf/internal/logging"
)

var log = logging.For("presets")

// Row mirrors the control plane's wire schema for a single row (see
// internal/control's rowJSON); presets carry rows opaquely, so this
// store never validates them beyond "is this valid JSON".
type Row = json.RawMessage

// Preset is one named, timestamped, opaque collection of rows.
type Preset struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Rows     json.RawMessage `json:"rows"`
	Created  time.Time       `json:"created"`
	Modified time.Time       `json:"modified"`
}

// Store persists presets as one JSON file per id under dir, the same
// shape original_source/preset_server.py's PresetManager uses.
type Store struct {
	dir string
}

// NewStore opens (creating if necessary) a preset directory, seeding
// a default preset the first time it's empty, matching
// PresetManager._ensure_default_preset.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("presets: creating %s: %w", dir, err)
	}
	s := &Store{dir: dir}
	if err := s.ensureDefault(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) ensureDefault() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("presets: reading %s: %w", s.dir, err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".json") {
			return nil
		}
	}
	now := time.Now()
	defaultRows, _ := json.Marshal(make([]struct{}, 0))
	p := Preset{
		ID:       "preset-default",
		Name:     "Default Treatment",
		Category: "basic",
		Rows:     defaultRows,
		Created:  now,
		Modified: now,
	}
	log.Info("seeding default preset")
	return s.Save(p)
}

// List returns every stored preset, sorted by name (case-insensitive),
// matching PresetManager.list_presets.
func (s *Store) List() ([]Preset, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("presets: reading %s: %w", s.dir, err)
	}
	var out []Preset
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".json") || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			log.Warn("skipping unreadable preset", "file", e.Name(), "err", err)
			continue
		}
		var p Preset
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn("skipping corrupt preset", "file", e.Name(), "err", err)
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Get loads one preset by id.
func (s *Store) Get(id string) (Preset, bool, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Preset{}, false, nil
		}
		return Preset{}, false, fmt.Errorf("presets: reading %s: %w", id, err)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return Preset{}, false, fmt.Errorf("presets: parsing %s: %w", id, err)
	}
	return p, true, nil
}

// Save writes p atomically (temp file + rename, as config.persist
// does for mix state), stamping Modified (and Created, if unset).
func (s *Store) Save(p Preset) error {
	now := time.Now()
	p.Modified = now
	if p.Created.IsZero() {
		p.Created = now
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("presets: marshaling %s: %w", p.ID, err)
	}
	tmp, err := os.CreateTemp(s.dir, ".preset-*.json.tmp")
	if err != nil {
		return fmt.Errorf("presets: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("presets: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("presets: closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(p.ID)); err != nil {
		return fmt.Errorf("presets: renaming temp file: %w", err)
	}
	log.Info("saved preset", "id", p.ID, "name", p.Name)
	return nil
}

// Delete removes a preset by id; deleting a nonexistent id is not an
// error, matching PresetManager.delete_preset's boolean-success style
// surfaced here as "no error either way".
func (s *Store) Delete(id string) error {
	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("presets: deleting %s: %w", id, err)
	}
	return nil
}

// Handler returns an http.Handler serving the preset REST API plus
// /api/info, suitable for mounting directly as an HTTP server.
func (s *Store) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/presets", s.handleCollection)
	mux.HandleFunc("/api/presets/", s.handleItem)
	mux.HandleFunc("/api/info", handleInfo)
	return mux
}

func (s *Store) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.List()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var p Preset
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if p.ID == "" || p.Name == "" {
			http.Error(w, "missing required fields: id, name", http.StatusBadRequest)
			return
		}
		if err := s.Save(p); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": p.ID})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Store) handleItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/presets/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, ok, err := s.Get(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "preset not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPost, http.MethodPut:
		var p Preset
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		p.ID = id
		if err := s.Save(p); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "preset": id})
	case http.MethodDelete:
		if err := s.Delete(id); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleInfo serves the same diagnostics shape as
// original_source/main_app.py's /api/info, using runtime.MemStats and
// os.Hostname rather than shelling out to hostname/uptime/free, since
// Go exposes this natively.
func handleInfo(w http.ResponseWriter, r *http.Request) {
	hostname, _ := os.Hostname()
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	writeJSON(w, http.StatusOK, map[string]any{
		"hostname": hostname,
		"memory":   fmt.Sprintf("%d MiB used", mem.Alloc/(1024*1024)),
		"status":   "Online and Ready",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
