package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
	"github.com/ramonehamilton/pauper-combos/internal/cards/scryfall"
	"github.com/ramonehamilton/pauper-combos/internal/combos"
)

func TestFillKnownComboCards(t *testing.T) {
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cards/collection" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req scryfall.CollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}

		resp := scryfall.CollectionResponse{Object: "list"}
		for _, id := range req.Identifiers {
			requested = append(requested, id.Name)
			switch id.Name {
			case "Not A Card":
				resp.NotFound = append(resp.NotFound, id)
			case "Ivory Tower":
				resp.Data = append(resp.Data, scryfall.Card{Name: id.Name, Legalities: scryfall.Legalities{Pauper: "not_legal"}})
			default:
				resp.Data = append(resp.Data, scryfall.Card{
					Name:       id.Name,
					TypeLine:   "Creature",
					OracleText: "Whenever another creature enters the battlefield, you gain 1 life.",
					Legalities: scryfall.Legalities{Pauper: "legal"},
				})
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := scryfall.NewClient(scryfall.WithBaseURL(server.URL), scryfall.WithRateLimit(time.Millisecond))
	known := []combos.KnownCombo{
		{Cards: []string{"Soul Warden", "Ghostly Flicker"}},
		{Cards: []string{"Soul Warden", "Not A Card", "Ivory Tower"}},
	}
	records := []features.Record{{Name: "Ghostly Flicker"}}

	extra, missing, err := fillKnownComboCards(context.Background(), client, known, records)
	require.NoError(t, err)

	assert.Equal(t, []string{"Soul Warden", "Not A Card", "Ivory Tower"}, requested, "each absent name is requested once")
	require.Len(t, extra, 1)
	assert.Equal(t, "Soul Warden", extra[0].Name)
	assert.Equal(t, []string{"Not A Card", "Ivory Tower"}, missing)
}

func TestFillKnownComboCards_NothingMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	client := scryfall.NewClient(scryfall.WithBaseURL(server.URL), scryfall.WithRateLimit(time.Millisecond))
	known := []combos.KnownCombo{{Cards: []string{"Ghostly Flicker"}}}
	records := []features.Record{{Name: "Ghostly Flicker"}}

	extra, missing, err := fillKnownComboCards(context.Background(), client, known, records)
	require.NoError(t, err)
	assert.Empty(t, extra)
	assert.Empty(t, missing)
}

func TestFillKnownComboCards_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := scryfall.NewClient(scryfall.WithBaseURL(server.URL), scryfall.WithRateLimit(time.Millisecond))
	known := []combos.KnownCombo{{Cards: []string{"Soul Warden"}}}

	_, _, err := fillKnownComboCards(context.Background(), client, known, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
