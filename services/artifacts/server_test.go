package artifacts

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArtifactServer(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "coupons.json"), []byte(`[{"code":"15001"}]`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(NewHandler(dir, nil))
	defer server.Close()

	res, err := http.Get(server.URL + "/coupons.json")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	require.JSONEq(t, `[{"code":"15001"}]`, string(body))

	res, err = http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(server.URL + "/menu.json")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestArtifactServerCors(t *testing.T) {
	server := httptest.NewServer(NewHandler(t.TempDir(), []string{"http://localhost:5173"}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "http://localhost:5173")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	require.Equal(t, "http://localhost:5173", res.Header.Get("Access-Control-Allow-Origin"))
}
