package auditoria

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/registrovecinal/api/internal/web"
)

// Handler expone la consulta de bitácora (solo ADMIN, gateado en el
// router).
type Handler struct {
	svc *Service
}

// NewHandler crea el handler de bitácora.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes monta la consulta de bitácora.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/logs", h.List)
	r.Get("/logs/humano", h.ListHumano)
}

// List responde las últimas entradas; acepta ?limit para acotar.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	logs, err := h.svc.List(r.Context(), limit)
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	if logs == nil {
		logs = []Log{}
	}
	web.WriteJSON(w, http.StatusOK, logs)
}

// ListHumano responde las mismas entradas como frases legibles.
func (h *Handler) ListHumano(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	frases, err := h.svc.ListHumano(r.Context(), limit)
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	if frases == nil {
		frases = []LogHumano{}
	}
	web.WriteJSON(w, http.StatusOK, frases)
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		web.WriteError(w, http.StatusBadRequest, "limit inválido")
		return 0, false
	}
	return parsed, true
}
