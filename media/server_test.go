package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleURL() {
	fmt.Println(URL("http://192.168.0.2:8000/media", "tts.mp3"))
	fmt.Println(URL("http://192.168.0.2:8000/media/", "morning news.mp3"))
	// Output:
	// http://192.168.0.2:8000/media/tts.mp3
	// http://192.168.0.2:8000/media/morning%20news.mp3
}

func serve(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	rec := serve(t, NewServer(t.TempDir(), ""), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "announcer is listening", rec.Body.String())
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tts.mp3"), []byte("ID3audio"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	srv := NewServer(dir, "")

	rec := serve(t, srv, "/media/tts.mp3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ID3audio", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "audio/")

	assert.Equal(t, http.StatusNotFound, serve(t, srv, "/media/missing.mp3").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, srv, "/media/sub").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, srv, "/media/.hidden").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, srv, "/media/a/b").Code)
}

func TestStartShutdown(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tts.mp3"), []byte("ID3audio"), 0644))

	srv := NewServer(dir, "127.0.0.1:0")
	require.NoError(t, srv.Start())
	defer srv.Shutdown(context.Background())

	resp, err := http.Get(URL("http://"+srv.Addr().String()+"/media", "tts.mp3"))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ID3audio", string(body))

	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestShutdownNotStarted(t *testing.T) {
	assert.NoError(t, NewServer("", "").Shutdown(context.Background()))
}
