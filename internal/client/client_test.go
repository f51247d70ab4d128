package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carwash-backend/config"
	"carwash-backend/internal/api/dto"
	"carwash-backend/internal/status"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	c, err := New(config.ClientConfig{BaseURL: server.URL + "/"}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestClient_ListOutlets(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/outlets", r.URL.Path)
		json.NewEncoder(w).Encode([]dto.Outlet{{ID: "outlet-9", Name: "Lekki", Prices: map[string]int64{"Basic": 5000}}})
	})

	outlets, err := c.ListOutlets(context.Background())
	require.NoError(t, err)
	require.Len(t, outlets, 1)
	assert.Equal(t, int64(5000), outlets[0].Prices["Basic"])
}

func TestClient_ListVehiclesSendsOwner(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-1", r.URL.Query().Get("owner_id"))
		json.NewEncoder(w).Encode([]dto.Vehicle{{ID: "v1", OwnerID: "user-1"}})
	})

	vehicles, err := c.ListVehicles(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "v1", vehicles[0].ID)
}

func TestClient_CreateWashRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dto.CreateWashRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Premium", req.WashType)
		assert.Equal(t, int64(8500), req.Price)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(dto.WashRequest{ID: "wr-1", Status: status.Pending, Price: req.Price})
	})

	wr, err := c.CreateWashRequest(context.Background(), dto.CreateWashRequest{
		VehicleID: "v1", OutletID: "outlet-9", WashType: "Premium", Date: "2025-03-01", Time: "10:00 am", Price: 8500,
	})
	require.NoError(t, err)
	assert.Equal(t, "wr-1", wr.ID)
	assert.Equal(t, status.Pending, wr.Status)
}

func TestClient_ErrorResponses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/wash-requests/missing":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "wash request missing: record not found"})
		default:
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "invalid status transition"})
		}
	})

	_, err := c.GetWashRequest(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.CancelWashRequest(context.Background(), "done")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "invalid status transition")
}

func TestClient_HonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListOutlets(ctx)
	assert.Error(t, err)
}
