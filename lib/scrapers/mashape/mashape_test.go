package mashape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchCards(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cards", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("collectible"))
		require.Equal(t, "test-key", r.Header.Get("X-Mashape-Key"))

		w.Write([]byte(`{
			"Classic": [
				{"name": "Fireball", "cardSet": "Classic", "playerClass": "Mage", "rarity": "Common", "type": "Spell"}
			],
			"Hero Skins": [
				{"name": "Medivh", "cardSet": "Hero Skins", "playerClass": "Mage", "rarity": "Epic", "type": "Hero"}
			],
			"Credits": []
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL, ApiKey: "test-key"})
	catalog, err := client.FetchCards(context.Background())
	require.NoError(t, err)

	require.Len(t, catalog, 3)
	require.Equal(t, "Fireball", catalog["Classic"][0].Name)
	require.Equal(t, "Mage", catalog["Classic"][0].PlayerClass)
}

func TestFetchCardsUndecodable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(""))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL, ApiKey: "test-key"})
	_, err := client.FetchCards(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "undecodable catalog response")
}
