package dashserver

import (
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/wordlens/wordlens/internal/engine"
	"github.com/wordlens/wordlens/internal/engine/analysis"
	"github.com/wordlens/wordlens/internal/engine/sources"
)

// corpusResponse is the common reply after loading a corpus.
type corpusResponse struct {
	Video     engine.VideoMeta     `json:"video"`
	Kind      engine.CorpusKind    `json:"kind"`
	ItemCount int                  `json:"item_count"`
	Ranked    []analysis.WordCount `json:"ranked"`
}

// archive records a completed analysis in the history DB when one is wired.
func archive(r *http.Request, video engine.VideoMeta, kind engine.CorpusKind, itemCount int, ranked []analysis.WordCount) {
	db := analysis.GetHistoryDB()
	if db == nil {
		return
	}
	if err := db.Record(r.Context(), video, kind, itemCount, ranked); err != nil {
		slog.Warn("history archive failed", slog.Any("err", err))
	}
}

func (s *Server) handleLoadComments(w http.ResponseWriter, r *http.Request) {
	videoID := sources.ExtractVideoID(r.URL.Query().Get("video"))
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid video parameter")
		return
	}
	max, _ := strconv.Atoi(r.URL.Query().Get("max"))

	items, err := sources.FetchComments(r.Context(), videoID, max)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch comments: "+err.Error())
		return
	}
	meta, err := sources.FetchVideoMeta(r.Context(), videoID)
	if err != nil {
		slog.Debug("video meta failed", slog.String("id", videoID), slog.Any("err", err))
		meta = engine.VideoMeta{ID: videoID, URL: "https://www.youtube.com/watch?v=" + videoID}
	}

	e := s.sessions.get(sessionID(r))
	e.mu.Lock()
	e.sess.LoadComments(items)
	e.video = meta
	ranked := e.sess.Ranked()
	e.mu.Unlock()

	archive(r, meta, engine.CorpusComments, len(items), ranked)
	writeJSON(w, http.StatusOK, corpusResponse{
		Video: meta, Kind: engine.CorpusComments, ItemCount: len(items), Ranked: ranked,
	})
}

func (s *Server) handleLoadSubtitles(w http.ResponseWriter, r *http.Request) {
	videoID := sources.ExtractVideoID(r.URL.Query().Get("video"))
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid video parameter")
		return
	}
	var langs []string
	if lang := r.URL.Query().Get("lang"); lang != "" {
		langs = []string{lang}
	}

	items, err := sources.FetchSubtitles(r.Context(), videoID, langs)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch subtitles: "+err.Error())
		return
	}
	meta, err := sources.FetchVideoMeta(r.Context(), videoID)
	if err != nil {
		meta = engine.VideoMeta{ID: videoID, URL: "https://www.youtube.com/watch?v=" + videoID}
	}

	e := s.sessions.get(sessionID(r))
	e.mu.Lock()
	e.sess.LoadSubtitles(items)
	e.video = meta
	ranked := e.sess.Ranked()
	e.mu.Unlock()

	archive(r, meta, engine.CorpusSubtitles, len(items), ranked)
	writeJSON(w, http.StatusOK, corpusResponse{
		Video: meta, Kind: engine.CorpusSubtitles, ItemCount: len(items), Ranked: ranked,
	})
}

func (s *Server) handleLoadPage(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" || (!strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://")) {
		writeError(w, http.StatusBadRequest, "missing or invalid url parameter")
		return
	}

	corpus, err := sources.FetchPage(r.Context(), pageURL)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch page: "+err.Error())
		return
	}

	e := s.sessions.get(sessionID(r))
	e.mu.Lock()
	e.sess.LoadComments(corpus.Items)
	e.video = corpus.Video
	ranked := e.sess.Ranked()
	e.mu.Unlock()

	archive(r, corpus.Video, engine.CorpusComments, len(corpus.Items), ranked)
	writeJSON(w, http.StatusOK, corpusResponse{
		Video: corpus.Video, Kind: engine.CorpusComments, ItemCount: len(corpus.Items), Ranked: ranked,
	})
}

func (s *Server) handleLoadVK(w http.ResponseWriter, r *http.Request) {
	if !sources.VKEnabled() {
		writeError(w, http.StatusServiceUnavailable, "VK source disabled: no service token configured")
		return
	}

	var ownerID, videoID int64
	var err error
	if ref := r.URL.Query().Get("ref"); ref != "" {
		ownerID, videoID, err = sources.ParseVKVideoRef(ref)
	} else {
		ownerID, err = strconv.ParseInt(r.URL.Query().Get("owner"), 10, 64)
		if err == nil {
			videoID, err = strconv.ParseInt(r.URL.Query().Get("video"), 10, 64)
		}
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid VK video reference")
		return
	}
	max, _ := strconv.Atoi(r.URL.Query().Get("max"))

	items, err := sources.FetchVKComments(r.Context(), ownerID, videoID, max)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch VK comments: "+err.Error())
		return
	}

	meta := engine.VideoMeta{
		ID:  "vk" + strconv.FormatInt(ownerID, 10) + "_" + strconv.FormatInt(videoID, 10),
		URL: "https://vk.com/video" + strconv.FormatInt(ownerID, 10) + "_" + strconv.FormatInt(videoID, 10),
	}

	e := s.sessions.get(sessionID(r))
	e.mu.Lock()
	e.sess.LoadComments(items)
	e.video = meta
	ranked := e.sess.Ranked()
	e.mu.Unlock()

	archive(r, meta, engine.CorpusComments, len(items), ranked)
	writeJSON(w, http.StatusOK, corpusResponse{
		Video: meta, Kind: engine.CorpusComments, ItemCount: len(items), Ranked: ranked,
	})
}

func (s *Server) handleRanked(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.get(sessionID(r))
	e.mu.Lock()
	defer e.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"video":  e.video,
		"loaded": e.sess.Loaded(),
		"ranked": e.sess.Ranked(),
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	if word == "" {
		writeError(w, http.StatusBadRequest, "missing word parameter")
		return
	}
	search := r.URL.Query().Get("q")

	e := s.sessions.get(sessionID(r))
	e.mu.Lock()
	items := e.sess.Detail(word, search)
	e.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"word":  strings.ToLower(strings.TrimSpace(word)),
		"items": items,
		"count": len(items),
	})
}

// policyRequest is the PUT /api/policy body.
type policyRequest struct {
	Stopwords []string `json:"stopwords"`
	MinLen    int      `json:"min_len"`
	MaxLen    int      `json:"max_len"`
	Language  string   `json:"language"`
	TopN      int      `json:"top_n,omitempty"`
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	p := analysis.NewPolicy(req.Stopwords, req.MinLen, req.MaxLen, req.Language)

	e := s.sessions.get(sessionID(r))
	e.mu.Lock()
	err := e.sess.UpdatePolicy(p)
	if err == nil && req.TopN > 0 {
		e.sess.SetTopN(req.TopN)
	}
	ranked := e.sess.Ranked()
	topN := e.sess.TopN()
	e.mu.Unlock()

	if err != nil {
		if errors.Is(err, analysis.ErrInvalidPolicy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := analysis.SaveSettings(r.Context(), p, topN); err != nil {
		slog.Warn("persist settings failed", slog.Any("err", err))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"min_len":   p.MinLen,
		"max_len":   p.MaxLen,
		"language":  p.Language,
		"stopwords": len(p.Stopwords),
		"top_n":     topN,
		"ranked":    ranked,
	})
}

// excludeRequest carries either an explicit word or a bar index.
type excludeRequest struct {
	Word  string `json:"word,omitempty"`
	Index *int   `json:"index,omitempty"`
}

func (s *Server) handleExclude(w http.ResponseWriter, r *http.Request) {
	var req excludeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	e := s.sessions.get(sessionID(r))
	e.mu.Lock()
	word := strings.ToLower(strings.TrimSpace(req.Word))
	if word == "" && req.Index != nil {
		if ranked := e.sess.Ranked(); *req.Index >= 0 && *req.Index < len(ranked) {
			word = ranked[*req.Index].Word
		}
	}
	if word == "" {
		e.mu.Unlock()
		writeError(w, http.StatusBadRequest, "neither word nor a valid index given")
		return
	}
	err := e.sess.RemoveWord(word)
	ranked := e.sess.Ranked()
	e.mu.Unlock()

	switch {
	case err == nil:
		if serr := analysis.SaveStopword(r.Context(), word); serr != nil {
			slog.Warn("persist stopword failed", slog.String("word", word), slog.Any("err", serr))
		}
		writeJSON(w, http.StatusOK, map[string]any{"word": word, "excluded": true, "ranked": ranked})
	case errors.Is(err, analysis.ErrAlreadyExcluded):
		writeJSON(w, http.StatusOK, map[string]any{"word": word, "already_excluded": true})
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// chartEventRequest is a completed pointer gesture on a chart bar.
type chartEventRequest struct {
	Index           int     `json:"index"`
	DX              float64 `json:"dx"`
	DY              float64 `json:"dy"`
	OnExcludeTarget bool    `json:"on_exclude_target"`
}

func (s *Server) handleChartEvent(w http.ResponseWriter, r *http.Request) {
	var req chartEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	e := s.sessions.get(sessionID(r))
	e.mu.Lock()
	in := analysis.Interactor{Session: e.sess, Threshold: analysis.DefaultDragThreshold}
	result := in.BarGesture(req.Index, req.DX, req.DY, req.OnExcludeTarget)
	ranked := e.sess.Ranked()
	e.mu.Unlock()

	if result.Excluded {
		if err := analysis.SaveStopword(r.Context(), result.Word); err != nil {
			slog.Warn("persist stopword failed", slog.String("word", result.Word), slog.Any("err", err))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": result,
		"ranked": ranked,
	})
}

func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.get(sessionID(r))
	e.mu.Lock()
	items := e.sess.Items()
	e.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"language": analysis.SuggestLanguage(items),
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	engine.IncrExportOps()

	e := s.sessions.get(sessionID(r))
	e.mu.Lock()
	pairs := e.sess.Pairs()
	e.mu.Unlock()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="words.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"word", "count"})
	for _, pair := range pairs {
		_ = cw.Write([]string{pair[0], pair[1]})
	}
	cw.Flush()
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	videos, err := sources.FetchTrending(r.Context(), region, limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch trending: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"videos": videos})
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	id := NewSessionID()
	s.sessions.get(id)
	writeJSON(w, http.StatusOK, map[string]string{"session_id": id})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(engine.FormatMetrics()))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
