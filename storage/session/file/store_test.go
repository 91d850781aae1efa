package filesession

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_roundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	store := NewStore(path)

	assert.Empty(t, store.Load()) // nothing persisted yet

	store.Save("SECRET")
	assert.Equal(t, "SECRET", store.Load())

	store.Save("OTHER")
	assert.Equal(t, "OTHER", store.Load())

	store.Clear()
	assert.Empty(t, store.Load())
	store.Clear() // clearing twice is fine
}

func TestStore_trimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	if err := os.WriteFile(path, []byte("  SECRET\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "SECRET", NewStore(path).Load())
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath("Sabi Admin")
	assert.True(t, strings.HasSuffix(path, filepath.Join("sabi-admin", "session")), path)
}
