package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewLocalStore(dir, zap.NewNop())

	err := store.Save(context.Background(), "photo_abc.jpg", strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "photo_abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(got))
}

func TestLocalStore_RejectsPathNames(t *testing.T) {
	store := NewLocalStore(t.TempDir(), zap.NewNop())
	for _, name := range []string{"", "..", "../escape.jpg", `a\b.jpg`} {
		assert.Error(t, store.Save(context.Background(), name, strings.NewReader("x"), 1, "image/jpeg"), name)
	}
}
