package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/anthonynsimon/bild/transform"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/pad_texture_tool/extractor"
	"github.com/mogaika/pad_texture_tool/utils"
	"github.com/mogaika/pad_texture_tool/webutils"
)

var errNotFound = errors.New("not found")

type InputInfo struct {
	Id   int
	Name string
	Size int64
}

type ImageInfo struct {
	Id       int
	Name     string
	Width    int
	Height   int
	Records  []int
	Warnings []string `json:",omitempty"`
}

type InputResponse struct {
	Report *extractor.Report
	Images []ImageInfo
}

func (s *Server) result(ctx context.Context, id int) (*extractor.Result, error) {
	if id < 0 || id >= len(s.inputs) {
		return nil, errors.Wrapf(errNotFound, "input %d", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if res, ok := s.results[id]; ok {
		return res, nil
	}

	in := s.inputs[id]
	s.status.Info("Reading %s...", in.Name())
	data, err := in.Read()
	if err != nil {
		s.status.Error("%s: %v", in.Name(), err)
		return nil, err
	}
	res, err := extractor.Extract(ctx, in.Name(), data, s.opts...)
	if err != nil {
		s.status.Error("%s: %v", in.Name(), err)
		return nil, err
	}
	extracted, skipped := res.Report.Summary()
	s.status.Progress(float32(len(s.results)+1)/float32(len(s.inputs)),
		"%s: %d extracted, %d skipped", in.Name(), extracted, skipped)
	// partial result of canceled request is not reused
	if ctx.Err() == nil {
		s.results[id] = res
	}
	return res, nil
}

func writeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotFound) {
		webutils.WriteErrorStatus(w, http.StatusNotFound, err)
	} else {
		webutils.WriteError(w, err)
	}
}

func varInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return -1
	}
	return v
}

func (s *Server) HandlerAjaxInputs(w http.ResponseWriter, r *http.Request) {
	list := make([]InputInfo, len(s.inputs))
	for i, in := range s.inputs {
		list[i] = InputInfo{Id: i, Name: in.Name(), Size: in.Size()}
	}
	webutils.WriteJson(w, list)
}

func (s *Server) HandlerAjaxInput(w http.ResponseWriter, r *http.Request) {
	res, err := s.result(r.Context(), varInt(r, "input"))
	if err != nil {
		writeErr(w, err)
		return
	}

	resp := InputResponse{Report: res.Report, Images: make([]ImageInfo, len(res.Images))}
	for i, img := range res.Images {
		info := ImageInfo{Id: i, Name: img.Name, Width: img.Buffer.Width, Height: img.Buffer.Height, Records: img.Records}
		for _, warn := range img.Warnings {
			info.Warnings = append(info.Warnings, warn.Error())
		}
		resp.Images[i] = info
	}
	webutils.WriteJson(w, resp)
}

// HandlerImage serves logical image as png, ?thumb=N scales it to fit N pixels
func (s *Server) HandlerImage(w http.ResponseWriter, r *http.Request) {
	res, err := s.result(r.Context(), varInt(r, "input"))
	if err != nil {
		writeErr(w, err)
		return
	}
	id := varInt(r, "image")
	if id < 0 || id >= len(res.Images) {
		writeErr(w, errors.Wrapf(errNotFound, "image %d", id))
		return
	}
	buf := res.Images[id].Buffer
	if buf.Width == 0 || buf.Height == 0 {
		writeErr(w, errors.Errorf("image %d has no pixels", id))
		return
	}

	if thumb, err := strconv.Atoi(r.URL.Query().Get("thumb")); err == nil && thumb > 0 {
		tw, th := fit(buf.Width, buf.Height, thumb)
		webutils.WritePng(w, transform.Resize(buf.Image(), tw, th, transform.Linear))
		return
	}
	webutils.WritePng(w, buf.Image())
}

func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

func (s *Server) HandlerDumpInput(w http.ResponseWriter, r *http.Request) {
	res, err := s.result(r.Context(), varInt(r, "input"))
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	webutils.WriteResult(w, []byte(utils.SDump(res.Table)))
}

func (s *Server) HandlerReportFile(w http.ResponseWriter, r *http.Request) {
	id := varInt(r, "input")
	res, err := s.result(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	webutils.WriteJsonFile(w, res.Report, "report_"+strconv.Itoa(id))
}
