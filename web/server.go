package web

import (
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/pad_texture_tool/extractor"
	"github.com/mogaika/pad_texture_tool/status"
	"github.com/mogaika/pad_texture_tool/tex"
	"github.com/mogaika/pad_texture_tool/vfs"
)

// Server browses extraction results of a fixed set of inputs.
// Inputs are extracted on first request and cached.
type Server struct {
	inputs []vfs.Input
	opts   []tex.Option
	status *status.Hub

	mu      sync.Mutex
	results map[int]*extractor.Result
}

func NewServer(inputs []vfs.Input, opts ...tex.Option) *Server {
	return &Server{
		inputs:  inputs,
		opts:    opts,
		status:  status.NewHub(),
		results: make(map[int]*extractor.Result),
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/inputs", s.HandlerAjaxInputs)
	r.HandleFunc("/json/input/{input:[0-9]+}", s.HandlerAjaxInput)
	r.HandleFunc("/image/{input:[0-9]+}/{image:[0-9]+}", s.HandlerImage)
	r.HandleFunc("/dump/input/{input:[0-9]+}", s.HandlerDumpInput)
	r.HandleFunc("/report/input/{input:[0-9]+}", s.HandlerReportFile)
	r.Handle("/ws/status", s.status)
	return r
}

func (s *Server) Handler() http.Handler {
	return handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(s.Router()))
}

func StartServer(addr string, inputs []vfs.Input, opts ...tex.Option) error {
	s := NewServer(inputs, opts...)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, s.Handler())
}
