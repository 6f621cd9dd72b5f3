// Package media serves the synthesised speech to the speaker.
//
// The endpoints are:
//
// http://host:port/ - health check
//
// http://host:port/media/{file} - a file from the media directory, e.g. /media/tts.mp3
package media

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	dir    string
	listen string
	srv    *http.Server
	addr   net.Addr
}

// NewServer serving dir on listen (e.g. ":8000").
func NewServer(dir, listen string) *Server {
	return &Server{dir: dir, listen: listen}
}

func index(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "announcer is listening")
}

func (self *Server) file(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(self.dir, name)
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// Router for the server's endpoints.
func (self *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Path("/").Methods(http.MethodGet, http.MethodHead).HandlerFunc(index)
	router.Path("/media/{file}").Methods(http.MethodGet, http.MethodHead).HandlerFunc(self.file)
	return router
}

type loggingHandler struct {
	Handler http.Handler
}

func (self loggingHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	log.Debug().Str("method", req.Method).Str("uri", req.RequestURI).Str("remote", req.RemoteAddr).Msg("media request")
	self.Handler.ServeHTTP(w, req)
}

// Start listening in the background.
func (self *Server) Start() error {
	ln, err := net.Listen("tcp", self.listen)
	if err != nil {
		return errors.Wrap(err, "media server")
	}
	self.addr = ln.Addr()
	self.srv = &http.Server{Handler: loggingHandler{Handler: self.Router()}}
	log.Info().Str("addr", self.addr.String()).Str("dir", self.dir).Msg("media server listening")
	go func() {
		if err := self.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("media server")
		}
	}()
	return nil
}

// Addr the server is listening on, nil before Start.
func (self *Server) Addr() net.Addr {
	return self.addr
}

func (self *Server) Shutdown(ctx context.Context) error {
	if self.srv == nil {
		return nil
	}
	return self.srv.Shutdown(ctx)
}

// URL the speaker fetches file from, given the base url of the media
// directory.
func URL(base, file string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + url.PathEscape(file)
}
