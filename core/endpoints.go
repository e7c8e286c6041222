package core

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	ex "github.com/s1de-walker/Pairs-Watch/data/extensions"
	dm "github.com/s1de-walker/Pairs-Watch/data/models"
	m "github.com/s1de-walker/Pairs-Watch/models"
)

const (
	DefaultAddr = ":8080"

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func GetHttpServer(sc ServiceContext, addr string) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/api/ping", ping)
	router.Get("/api/analysis/options", getAnalysisOptions)
	router.Post("/api/analysis", func(w http.ResponseWriter, r *http.Request) { postAnalysis(w, r, sc) })
	router.Get("/api/analysis/history", func(w http.ResponseWriter, r *http.Request) { getAnalysisHistory(w, r, sc) })
	router.Get("/charts", func(w http.ResponseWriter, r *http.Request) { getCharts(w, r, sc) })

	server := &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return server
}

func ping(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, map[string]string{"message": "pong"})
}

func getAnalysisOptions(w http.ResponseWriter, r *http.Request) {
	options := m.GetAnalysisOptionsResources()
	writeJson(w, http.StatusOK, m.GetServiceResponseOk(&options))
}

func postAnalysis(w http.ResponseWriter, r *http.Request, sc ServiceContext) {
	var req m.PairAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJson(w, http.StatusBadRequest, m.GetServiceResponseError("request body is not valid json: "+err.Error()))
		return
	}

	res, err := sc.RunPairAnalysis(req)
	if err != nil {
		writeJson(w, analysisErrorStatus(err), m.GetServiceResponseError(err.Error()))
		return
	}

	writeJson(w, http.StatusOK, m.GetServiceResponseOk(res))
}

func getAnalysisHistory(w http.ResponseWriter, r *http.Request, sc ServiceContext) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJson(w, http.StatusBadRequest, m.GetServiceResponseError("limit must be a positive integer"))
			return
		}
		limit = ex.Min(parsed, maxHistoryLimit)
	}

	runs, err := sc.PostgresConnection.GetRecentPairAnalysisRuns(sc.Context, limit)
	if err != nil {
		log.Printf("Error getting analysis history: %v", err)
		writeJson(w, http.StatusInternalServerError, m.GetServiceResponseError(err.Error()))
		return
	}

	records := make([]m.AnalysisRunRecord, len(runs))
	for i, run := range runs {
		records[i] = mapPairAnalysisRunToRecord(run)
	}

	writeJson(w, http.StatusOK, m.GetServiceResponseOk(&records))
}

// getCharts runs the analysis from query parameters and renders the result as
// an html page, defaults cover the common SPY/QQQ half year look
func getCharts(w http.ResponseWriter, r *http.Request, sc ServiceContext) {
	req, err := chartRequestFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := sc.RunPairAnalysis(req)
	if err != nil {
		http.Error(w, err.Error(), analysisErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderAnalysisPage(w, res); err != nil {
		log.Printf("Error rendering charts for pair %s/%s: %v", req.Ticker1, req.Ticker2, err)
	}
}

func chartRequestFromQuery(r *http.Request) (m.PairAnalysisRequest, error) {
	query := r.URL.Query()

	today := time.Now().UTC()
	req := m.PairAnalysisRequest{
		Ticker1:       "SPY",
		Ticker2:       "QQQ",
		StartDate:     ex.FmtShort(today.AddDate(0, 0, -m.DefaultLookbackDays)),
		EndDate:       ex.FmtShort(today),
		RollingWindow: m.DefaultRollingWindow,
		Percentile:    m.DefaultPercentile,
	}

	if v := query.Get("ticker1"); v != "" {
		req.Ticker1 = v
	}
	if v := query.Get("ticker2"); v != "" {
		req.Ticker2 = v
	}
	if v := query.Get("startDate"); v != "" {
		req.StartDate = v
	}
	if v := query.Get("endDate"); v != "" {
		req.EndDate = v
	}
	if v := query.Get("rollingWindow"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("rollingWindow must be an integer")
		}
		req.RollingWindow = parsed
	}
	if v := query.Get("percentile"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("percentile must be an integer")
		}
		req.Percentile = parsed
	}

	return req, nil
}

// analysisErrorStatus maps a failed analysis to a status code: bad input is
// the caller's fault, everything else surfaces as a bad gateway since the
// pipeline leans on yahoo and postgres.
func analysisErrorStatus(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func mapPairAnalysisRunToRecord(run *dm.PairAnalysisRun) m.AnalysisRunRecord {
	return m.AnalysisRunRecord{
		Id:            run.Id,
		Ticker1:       run.Ticker1,
		Ticker2:       run.Ticker2,
		StartDate:     ex.FmtShort(run.StartDate),
		EndDate:       ex.FmtShort(run.EndDate),
		RollingWindow: int(run.RollingWindow),
		Percentile:    int(run.Percentile),
		Succeeded:     !run.ErrorMessage.Valid,
		ErrorMessage:  run.ErrorMessage.ValueOrZero(),
		CreatedAt:     ex.FmtLong(run.CreatedAt),
	}
}

func writeJson(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error writing json response: %v", err)
	}
}
