package asset

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qwwn/capstone-sangar/internal/storage/memory"
	apperrors "github.com/Qwwn/capstone-sangar/pkg/errors"
)

func TestCoverManagerUpload(t *testing.T) {
	store := memory.New("https://storage.example.com/flowers")
	mgr := NewCoverManager(store)
	ctx := context.Background()

	url, err := mgr.Upload(ctx, &UploadInput{
		FlowerID:    "f-1",
		Filename:    "rose.jpg",
		ContentType: "image/jpeg",
		Size:        1024,
		Data:        strings.NewReader("fake image bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/flowers/f-1_rose.jpg", url)

	exists, err := store.Exists(ctx, "f-1_rose.jpg")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCoverManagerDelete(t *testing.T) {
	store := memory.New("https://storage.example.com/flowers")
	mgr := NewCoverManager(store)
	ctx := context.Background()

	url, err := mgr.Upload(ctx, &UploadInput{
		FlowerID: "f-1",
		Filename: "rose.jpg",
		Data:     strings.NewReader("x"),
	})
	require.NoError(t, err)

	require.NoError(t, mgr.Delete(ctx, url))

	exists, err := store.Exists(ctx, "f-1_rose.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCoverManagerDeleteMissingObject(t *testing.T) {
	store := memory.New("https://storage.example.com/flowers")
	mgr := NewCoverManager(store)

	err := mgr.Delete(context.Background(), "https://storage.example.com/flowers/gone.jpg")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://storage.example.com/flowers/f-1_rose.jpg", "f-1_rose.jpg"},
		{"f-1_rose.jpg", "f-1_rose.jpg"},
		{"https://storage.example.com/flowers/", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyFromURL(tt.url))
	}
}
