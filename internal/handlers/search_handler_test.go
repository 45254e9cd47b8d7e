package handlers_test

import (
	"PassVault/internal/handlers"
	"PassVault/internal/model"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	e := newTestEnv(t)
	u := uuid.New()

	createRecord(t, e, u, `{"service":"GitHub","password":"p1","email":"a@b.c"}`)
	createRecord(t, e, u, `{"service":"gitlab","password":"p2","username":"octo"}`)
	createRecord(t, e, u, `{"key":"github-token","secret":"ghp"}`)
	createRecord(t, e, uuid.New(), `{"service":"github","password":"x","email":"z@z.z"}`)

	search := func(query string) []handlers.RecordResponse {
		t.Helper()
		rr := e.do(t, http.MethodGet, "/api/search"+query, "", u)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var out []handlers.RecordResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		return out
	}

	assert.Len(t, search(""), 3)
	assert.Len(t, search("?q=github"), 2)
	assert.Len(t, search("?q=git&type=password"), 2)

	got := search("?q=git&type=secret")
	require.Len(t, got, 1)
	assert.Equal(t, "ghp", *got[0].Secret)

	got = search("?service=LAB")
	require.Len(t, got, 1)
	assert.Equal(t, "p2", *got[0].Password)

	// limit=1, page=0 - ровно одна своя запись
	got = search("?limit=1&page=0")
	require.Len(t, got, 1)
	assert.Equal(t, u.String(), got[0].UserID)

	assert.Len(t, search("?limit=2&page=1"), 1)
	assert.Empty(t, search("?limit=2&page=5"))
}

func TestSearch_LegacySecretsAndBadParams(t *testing.T) {
	e := newTestEnv(t)
	u := uuid.New()

	enc, err := e.cipher.Encrypt("old-value")
	require.NoError(t, err)
	_, err = e.store.InsertLegacySecret(context.Background(), &model.LegacySecret{OwnerID: u, Key: "legacy-token", Secret: enc})
	require.NoError(t, err)

	rr := e.do(t, http.MethodGet, "/api/search?q=legacy", "", u)
	require.Equal(t, http.StatusOK, rr.Code)
	var out []handlers.RecordResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, model.RecordTypeSecret, out[0].RecordType)
	assert.Equal(t, "old-value", *out[0].Secret)

	for _, q := range []string{"?page=x", "?limit=1.5", "?type=note", "?page=-1"} {
		rr := e.do(t, http.MethodGet, "/api/search"+q, "", u)
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}
