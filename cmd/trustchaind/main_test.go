package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunServer_InitializationAndRequest(t *testing.T) {
	cfg := &config{
		SealedDir:  t.TempDir(),
		ListenAddr: ":0",
		MaxRepoID:  10,
		LogDir:     t.TempDir(),
		DebugLevel: "info",
	}

	srv, err := runServer(cfg)
	if err != nil {
		t.Fatalf("runServer() returned an error during initialization: %v", err)
	}
	if srv == nil {
		t.Fatal("runServer() returned a nil server without an error.")
	}

	req := httptest.NewRequest(http.MethodOptions, "/init-repo", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
