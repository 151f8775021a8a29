// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	entrySlot    = `{"objectType":"KalturaBaseEntryListResponse","totalCount":1,"objects":[{"objectType":"KalturaMediaEntry","id":"1_w9zx2eti","name":"Sintel","duration":888}]}`
	contextSlot  = `{"objectType":"KalturaPlaybackContext","sources":[{"deliveryProfileId":911,"format":"applehttp","protocols":"https","flavorIds":"1_a"}],"actions":[],"messages":[]}`
	metadataSlot = `{"objectType":"KalturaMetadataListResponse","totalCount":0,"objects":[]}`
	sessionReply = `{"objectType":"KalturaStartWidgetSessionResponse","ks":"djJ8d2lkZ2V0","partnerId":2215841}`
)

// fakeBackend answers multirequest and session calls the way the OVP API does.
func fakeBackend(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/service/multirequest"):
			slots := []string{entrySlot, contextSlot, metadataSlot}
			if bytes.Contains(body, []byte("startWidgetSession")) {
				slots = append([]string{sessionReply}, slots...)
			}
			_, _ = io.WriteString(w, "["+strings.Join(slots, ",")+"]")
		case strings.HasSuffix(r.URL.Path, "/service/session/action/startWidgetSession"):
			_, _ = io.WriteString(w, sessionReply)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), paths...)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
	assert.Contains(t, out, "commit:")
}

func TestResolve_JSON(t *testing.T) {
	srv, paths := fakeBackend(t)

	out, err := run(t, "resolve", "--base-url", srv.URL, "--ks", "djJ8a3M", "--entry-id", "1_w9zx2eti")
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entry))
	assert.Equal(t, "1_w9zx2eti", entry["id"])
	assert.Equal(t, float64(888), entry["duration"])
	assert.Equal(t, []string{"/api_v3/service/multirequest"}, paths())
}

func TestResolve_YAMLToFile(t *testing.T) {
	srv, _ := fakeBackend(t)
	path := filepath.Join(t.TempDir(), "entry.yaml")

	out, err := run(t, "resolve", "--base-url", srv.URL, "--partner-id", "2215841",
		"--entry-id", "1_w9zx2eti", "--output", "yaml", "--out", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, yaml.Unmarshal(data, &entry))
	assert.Equal(t, "Sintel", entry["name"])
	sources, ok := entry["sources"].([]any)
	require.True(t, ok)
	require.Len(t, sources, 1)
	url, _ := sources[0].(map[string]any)["contentUrl"].(string)
	assert.Contains(t, url, "/p/2215841/sp/221584100/playManifest/entryId/1_w9zx2eti")
}

func TestResolve_RequiresEntryID(t *testing.T) {
	_, err := run(t, "resolve", "--base-url", "https://h", "--ks", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry-id")
}

func TestResolve_InvalidParam(t *testing.T) {
	_, err := run(t, "resolve", "--entry-id", "1_x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid input param: baseUrl")
}

func TestResolve_UnknownOutput(t *testing.T) {
	srv, _ := fakeBackend(t)
	_, err := run(t, "resolve", "--base-url", srv.URL, "--ks", "x", "--entry-id", "1_x", "--output", "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestSession(t *testing.T) {
	srv, paths := fakeBackend(t)
	t.Setenv("OVP_SESSION_CACHE", "none")

	out, err := run(t, "session", "--base-url", srv.URL, "--partner-id", "2215841")
	require.NoError(t, err)
	assert.Equal(t, "djJ8d2lkZ2V0\n", out)
	assert.Equal(t, []string{"/api_v3/service/session/action/startWidgetSession"}, paths())
}

func TestConfigFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ovp:\n  bogus: 1\n"), 0o600))

	_, err := run(t, "--config", path, "resolve", "--entry-id", "1_x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config field")
}
