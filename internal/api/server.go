// Package api exposes the engines over HTTP. It is a thin presentation
// layer: it enforces the claim window and translates outcomes to JSON, but
// all invariants live in the engines and the store.
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"clinic-shifts/internal/export"
	"clinic-shifts/internal/reconcile"
	"clinic-shifts/internal/registration"
	"clinic-shifts/internal/shifts"
)

// Server wires the engines into a chi router.
type Server struct {
	shifts    *shifts.Engine
	reconcile *reconcile.Engine
	export    *export.Engine
	reg       *registration.Service
	log       *zap.Logger
}

func NewServer(sh *shifts.Engine, rc *reconcile.Engine, ex *export.Engine, reg *registration.Service, log *zap.Logger) *Server {
	return &Server{shifts: sh, reconcile: rc, export: ex, reg: reg, log: log}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/shifts/free", s.handleListFree)
		r.Post("/shifts/{id}/claim", s.handleClaim)
		r.Post("/shifts/manual", s.handleManual)
		r.Post("/shifts/release", s.handleRelease)

		r.Get("/workers/unregistered", s.handleListUnregistered)
		r.Post("/workers/{id}/chat", s.handleSetChat)
		r.Post("/workers/{id}/photo", s.handleSetPhoto)

		r.Post("/sync", s.handleSync(func(r *http.Request) error {
			return s.reconcile.SyncAll(r.Context())
		}))
		r.Post("/sync/workers", s.handleSync(func(r *http.Request) error {
			_, err := s.reconcile.SyncWorkers(r.Context())
			return err
		}))
		r.Post("/sync/pairs", s.handleSync(func(r *http.Request) error {
			_, err := s.reconcile.SyncPairs(r.Context(), r.URL.Query().Get("date"))
			return err
		}))
		r.Post("/sync/surveys", s.handleSync(func(r *http.Request) error {
			_, err := s.reconcile.SyncSurveys(r.Context())
			return err
		}))
		r.Post("/sync/shifts", s.handleSync(func(r *http.Request) error {
			_, err := s.reconcile.SyncShifts(r.Context())
			return err
		}))

		r.Post("/export/answers", func(w http.ResponseWriter, r *http.Request) {
			if err := s.export.ExportAnswers(r.Context()); err != nil {
				writeError(w, http.StatusBadGateway, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "exported"})
		})
		r.Post("/export/shifts", func(w http.ResponseWriter, r *http.Request) {
			if err := s.export.ExportShifts(r.Context(), r.URL.Query().Get("date")); err != nil {
				writeError(w, http.StatusBadGateway, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "exported"})
		})
	})

	return r
}

// window resolves the request's date+type: explicit query params when
// given, otherwise the current claim window. The second return is false
// when "now" falls outside 08:00-20:00.
func (s *Server) window(r *http.Request) (shiftType, date string, ok bool) {
	shiftType = r.URL.Query().Get("type")
	date = r.URL.Query().Get("date")
	if shiftType != "" && date != "" {
		return shiftType, date, true
	}
	curType, curDate := s.shifts.CurrentWindow()
	if shiftType == "" {
		shiftType = curType
	}
	if date == "" {
		date = curDate
	}
	return shiftType, date, shiftType != ""
}

func (s *Server) handleListFree(w http.ResponseWriter, r *http.Request) {
	shiftType, date, ok := s.window(r)
	if !ok {
		writeError(w, http.StatusConflict, "shifts can be claimed between 08:00 and 20:00")
		return
	}
	slots, err := s.shifts.ListFreeShifts(r.Context(), date, shiftType, r.URL.Query().Get("preferred"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "type": shiftType, "slots": slots})
}

type claimRequest struct {
	WorkerID int64 `json:"worker_id"`
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	shiftID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shift id")
		return
	}
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The engine does not time-gate; the window is enforced here.
	curType, curDate := s.shifts.CurrentWindow()
	if curType == "" {
		writeError(w, http.StatusConflict, "shifts can be claimed between 08:00 and 20:00")
		return
	}

	worker, err := s.shifts.GetWorker(r.Context(), req.WorkerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if worker == nil {
		writeError(w, http.StatusNotFound, "worker not found")
		return
	}
	if !worker.IsActive {
		writeError(w, http.StatusForbidden, "worker is deactivated")
		return
	}

	sh, err := s.shifts.GetShift(r.Context(), shiftID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sh == nil || sh.Date != curDate || sh.Type != curType {
		writeError(w, http.StatusConflict, "shift is not available")
		return
	}

	claimed, err := s.shifts.ClaimShift(r.Context(), worker.ID, worker.FullName, shiftID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"claimed": claimed})
}

type manualRequest struct {
	WorkerID   int64  `json:"worker_id"`
	DoctorName string `json:"doctor_name"`
}

func (s *Server) handleManual(w http.ResponseWriter, r *http.Request) {
	var req manualRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.DoctorName == "" {
		writeError(w, http.StatusBadRequest, "doctor_name is required")
		return
	}

	curType, curDate := s.shifts.CurrentWindow()
	if curType == "" {
		writeError(w, http.StatusConflict, "shifts can be claimed between 08:00 and 20:00")
		return
	}

	worker, err := s.shifts.GetWorker(r.Context(), req.WorkerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if worker == nil || !worker.IsActive {
		writeError(w, http.StatusNotFound, "worker not found")
		return
	}

	created, err := s.shifts.AddManualShift(r.Context(), worker.ID, worker.FullName, req.DoctorName, curType, curDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"created": created})
}

type releaseRequest struct {
	WorkerID int64 `json:"worker_id"`
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	var req releaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	curType, curDate := s.shifts.CurrentWindow()
	if curType == "" {
		writeError(w, http.StatusConflict, "shifts can be claimed between 08:00 and 20:00")
		return
	}

	if err := s.shifts.RemoveAssistant(r.Context(), req.WorkerID, curDate, curType); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "released"})
}

func (s *Server) handleListUnregistered(w http.ResponseWriter, r *http.Request) {
	workers, err := s.reg.ListUnregistered(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workers": workers})
}

func (s *Server) handleSetChat(w http.ResponseWriter, r *http.Request) {
	workerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid worker id")
		return
	}
	var req struct {
		ChatID string `json:"chat_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.ChatID == "" {
		writeError(w, http.StatusBadRequest, "chat_id is required")
		return
	}
	ok, err := s.reg.SetChatID(r.Context(), workerID, req.ChatID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": ok})
}

func (s *Server) handleSetPhoto(w http.ResponseWriter, r *http.Request) {
	workerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid worker id")
		return
	}
	var req struct {
		FileID string `json:"file_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.FileID == "" {
		writeError(w, http.StatusBadRequest, "file_id is required")
		return
	}
	ok, err := s.reg.SetPhoto(r.Context(), workerID, req.FileID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": ok})
}

func (s *Server) handleSync(run func(*http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := run(r); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "synced"})
	}
}
