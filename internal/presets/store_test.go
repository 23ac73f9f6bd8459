package presets

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_SeedsDefaultPreset(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "preset-default", list[0].ID)
}

func TestStore_SaveGetDeleteRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	p := Preset{ID: "warmup", Name: "Warmup", Rows: json.RawMessage(`[{"frequency":40}]`)}
	require.NoError(t, s.Save(p))

	got, ok, err := s.Get("warmup")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Warmup", got.Name)
	assert.False(t, got.Modified.IsZero())

	require.NoError(t, s.Delete("warmup"))
	_, ok, err = s.Get("warmup")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_DeleteMissingIsNotError(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, s.Delete("never-existed"))
}

func TestStore_ListSortedByNameCaseInsensitive(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Save(Preset{ID: "b", Name: "zebra"}))
	require.NoError(t, s.Save(Preset{ID: "c", Name: "Apple"}))

	list, err := s.List()
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"Apple", "Default Treatment", "zebra"}, names)
}

func TestHandler_CollectionGetAndPost(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	handler := s.Handler()

	body := bytes.NewBufferString(`{"id":"new-one","name":"New One","rows":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/presets", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/presets", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New One")
}

func TestHandler_ItemNotFound(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/presets/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Info(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/info", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Online and Ready")
}
