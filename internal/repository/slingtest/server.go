// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package slingtest provides an in-memory fake of the Sling HTTP API that
// the repository client speaks. It records every request it receives.
package slingtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin"

	operationField  = ":operation"
	operationDelete = "delete"
)

// Field is a string part of a multipart request.
type Field struct {
	Name  string
	Value string
}

// File is a file part of a multipart request.
type File struct {
	Name     string
	Filename string
	Content  []byte
}

// Request is a request received by the server.
type Request struct {
	Method      string
	Path        string
	ContentType string
	Username    string
	Password    string
	HasAuth     bool
	Fields      []Field
	Files       []File
	// Multipart is true when the body was parsed as multipart form data.
	Multipart bool
}

// Field returns the value of the first field named name.
func (r Request) Field(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return "", false
}

type requestKey struct{}

// Server is a fake Sling repository.
type Server struct {
	URL string

	username string
	password string

	mu       sync.Mutex
	tree     *tree
	requests []Request
	statuses map[string]int

	http   *httptest.Server
	router *mux.Router
}

type Opt func(*Server) *Server

// WithCredentials sets the credentials the server accepts.
func WithCredentials(username, password string) Opt {
	return func(s *Server) *Server {
		s.username = username
		s.password = password
		return s
	}
}

// NewServer starts a new fake server. Callers must Close it.
func NewServer(opts ...Opt) *Server {
	s := &Server{
		username: DefaultUsername,
		password: DefaultPassword,
		tree:     newTree(),
		requests: []Request{},
		statuses: map[string]int{},
	}

	for _, opt := range opts {
		s = opt(s)
	}

	s.router = mux.NewRouter()
	s.router.SkipClean(true)
	s.router.Use(s.record, s.forcedStatus, s.authenticate)
	s.router.Methods(http.MethodGet).PathPrefix("/").HandlerFunc(s.get)
	s.router.Methods(http.MethodPost).PathPrefix("/").HandlerFunc(s.post)

	s.http = httptest.NewServer(s.router)
	s.URL = s.http.URL

	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.http.Close()
}

// Username returns the accepted username.
func (s *Server) Username() string {
	return s.username
}

// Password returns the accepted password.
func (s *Server) Password() string {
	return s.password
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)

	return out
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return Request{}, false
	}

	return s.requests[len(s.requests)-1], true
}

// ForceStatus makes the server answer every request with method on path
// with code, without touching the repository. A zero code clears it.
func (s *Server) ForceStatus(method string, path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := method + " " + path
	if code == 0 {
		delete(s.statuses, key)
		return
	}
	s.statuses[key] = code
}

// Node returns a snapshot of the node at path.
func (s *Server) Node(path string) (Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.tree.get(path)
	if !ok {
		return Node{}, false
	}

	return n.snapshot(path), true
}

// Children returns the sorted names of the children of the node at path.
func (s *Server) Children(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.tree.get(path)
	if !ok {
		return nil
	}

	return n.childNames()
}

// Put creates a node with properties and content, replacing any existing
// node at path.
func (s *Server) Put(path string, properties map[string]string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.remove(path)
	n, _ := s.tree.ensure(path)
	for k, v := range properties {
		n.properties[k] = v
	}
	if content != nil {
		n.content = append([]byte{}, content...)
		n.properties[primaryTypeKey] = typeFile
	}
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Fields:      []Field{},
			Files:       []File{},
		}
		req.Username, req.Password, req.HasAuth = r.BasicAuth()

		if err := parseMultipart(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestKey{}, req)))
	})
}

func (s *Server) forcedStatus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		code, ok := s.statuses[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if ok {
			w.WriteHeader(code)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != s.username || password != s.password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Sling (Development)"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func parseMultipart(r *http.Request, req *Request) error {
	if r.Body == nil {
		return nil
	}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return nil
	}
	req.Multipart = true

	mr := multipart.NewReader(r.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading multipart body: %w", err)
		}

		content, err := io.ReadAll(part)
		if err != nil {
			return fmt.Errorf("reading part %s: %w", part.FormName(), err)
		}

		if part.FileName() != "" {
			req.Files = append(req.Files, File{
				Name:     part.FormName(),
				Filename: part.FileName(),
				Content:  content,
			})
			continue
		}

		req.Fields = append(req.Fields, Field{Name: part.FormName(), Value: string(content)})
	}
}

func recorded(r *http.Request) Request {
	req, _ := r.Context().Value(requestKey{}).(Request)
	return req
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	render := func(n *node) interface{} { return nil }

	switch {
	case strings.HasSuffix(path, ".1.json"):
		path = strings.TrimSuffix(path, ".1.json")
		render = func(n *node) interface{} { return n.withChildren() }
	case strings.HasSuffix(path, ".json"):
		path = strings.TrimSuffix(path, ".json")
		render = func(n *node) interface{} { return n.props() }
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.tree.get(path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if body := render(n); body != nil {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(n.content)
}

func (s *Server) post(w http.ResponseWriter, r *http.Request) {
	req := recorded(r)
	path := r.URL.Path

	s.mu.Lock()
	defer s.mu.Unlock()

	if op, ok := req.Field(operationField); ok {
		if op != operationDelete {
			http.Error(w, "unsupported operation "+op, http.StatusBadRequest)
			return
		}

		if !s.tree.remove(path) {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	n, created := s.tree.ensure(path)
	for _, f := range req.Fields {
		if strings.HasPrefix(f.Name, ":") {
			continue
		}
		n.properties[f.Name] = f.Value
	}

	for _, f := range req.Files {
		child, ok := n.children[f.Name]
		if !ok {
			child = newNode(typeFile)
			n.children[f.Name] = child
			created = true
		}
		child.properties[primaryTypeKey] = typeFile
		child.content = f.Content
	}

	if created {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusOK)
}
