// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/ar_navigator/internal/gps"
	"github.com/relabs-tech/ar_navigator/internal/navigation"
	"github.com/relabs-tech/ar_navigator/internal/orientation"
	"github.com/relabs-tech/ar_navigator/internal/places"
)

func snapshotPayload(t *testing.T, ticks int) []byte {
	t.Helper()
	cfg := navigation.DefaultConfig()
	cfg.Fuser.UseWorldAttitude = false // heading is the mean of the compass history
	nav := navigation.New(cfg)
	nav.SetPlaces([]places.Place{marina})
	nav.SetTrip(places.TripTo(marina))
	_, err := nav.UpdateFix(gps.Fix{Validity: "A", Latitude: home.Latitude, Longitude: home.Longitude})
	require.NoError(t, err)

	var s navigation.Snapshot
	for i := 0; i < ticks; i++ {
		s = nav.Tick(orientation.Sample{HasHeading: true, TrueHeading: 45, Elapsed: 0.05})
	}
	payload, err := json.Marshal(s)
	require.NoError(t, err)
	return payload
}

func newTestWebServer(t *testing.T) (*WebServer, *recordingPublisher, *httptest.Server) {
	t.Helper()
	pub := newRecordingPublisher()
	srv := NewWebServer(pub, "cmd", newCollector(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, pub, ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestWebServerBeforeData(t *testing.T) {
	_, _, ts := newTestWebServer(t)

	for _, path := range []string{"/api/navigation", "/api/orientation", "/api/places"} {
		resp, _ := get(t, ts.URL+path)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestWebServerServesLatest(t *testing.T) {
	srv, _, ts := newTestWebServer(t)
	require.Error(t, srv.Update([]byte("{")))
	require.NoError(t, srv.Update(snapshotPayload(t, 2)))

	resp, body := get(t, ts.URL+"/api/navigation")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var snap navigation.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, uint64(2), snap.Ticks)
	assert.Equal(t, marina.Location, snap.Target())

	resp, body = get(t, ts.URL+"/api/orientation")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pose orientation.Pose
	require.NoError(t, json.Unmarshal(body, &pose))
	assert.InDelta(t, snap.Pose.Yaw, pose.Yaw, 1e-9)

	resp, body = get(t, ts.URL+"/api/places")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), `"FeatureCollection"`)
	assert.Contains(t, string(body), `"Marina"`)
	assert.Contains(t, string(body), `"LineString"`)

	resp, body = get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ar_web_clients")
}

func TestWebServerCommand(t *testing.T) {
	_, pub, ts := newTestWebServer(t)

	resp, err := http.Post(ts.URL+"/api/command", "application/json", strings.NewReader(`{"action":"waypoint","place":"Marina"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	msgs := pub.messages("cmd")
	require.Len(t, msgs, 1)
	var cmd Command
	require.NoError(t, json.Unmarshal(msgs[0], &cmd))
	assert.Equal(t, Command{Action: ActionWaypoint, Place: "Marina"}, cmd)

	resp, err = http.Post(ts.URL+"/api/command", "application/json", strings.NewReader(`{"action":"reboot"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/api/command", "application/json", strings.NewReader(`nope`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Len(t, pub.messages("cmd"), 1)
}

func TestWebServerWebsocket(t *testing.T) {
	srv, pub, ts := newTestWebServer(t)
	require.NoError(t, srv.Update(snapshotPayload(t, 1)))

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	// latest frame on connect
	var snap navigation.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, uint64(1), snap.Ticks)

	require.NoError(t, conn.WriteJSON(Command{Action: ActionClearTrip}))
	var resp WSResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, WSResponse{Type: "ack", Action: ActionClearTrip}, resp)
	assert.Len(t, pub.messages("cmd"), 1)

	require.NoError(t, conn.WriteJSON(Command{Action: "reboot"}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Type)
	assert.Contains(t, resp.Message, "unknown command action")

	require.NoError(t, srv.Update(snapshotPayload(t, 3)))
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, uint64(3), snap.Ticks)
}

func TestWebServerReadOnly(t *testing.T) {
	srv := NewWebServer(nil, "", nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/command", "application/json", strings.NewReader(`{"action":"clear_trip"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
