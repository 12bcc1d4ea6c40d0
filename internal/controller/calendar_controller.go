// internal/controller/calendar_controller.go
package controller

import (
    "encoding/json"
    "errors"
    "io"
    "net/http"

    "github.com/go-chi/chi/v5"
    "go.uber.org/zap"

    "github.com/unclebandit/outreach-scheduler/internal/calendar"
    appErrors "github.com/unclebandit/outreach-scheduler/internal/errors"
    "github.com/unclebandit/outreach-scheduler/internal/schedule"
    "github.com/unclebandit/outreach-scheduler/internal/service"
)

type CalendarController struct {
    Service *service.SchedulingService
    Log     *zap.Logger
}

// Routes mounts the calendar and inbox endpoints on r.
func (c *CalendarController) Routes(r chi.Router) {
    r.Get("/calendar", c.GetCalendar)
    r.Put("/calendar/view", c.SetView)
    r.Post("/calendar/swap", c.Swap)
    r.Post("/calendar/drag/{action}", c.Drag)
    r.Get("/calendar/status", c.Status)
    r.Post("/calendar/save", c.Save)
    r.Post("/calendar/reload", c.Reload)
    r.Get("/prospects/inbox", c.Inbox)
}

type nowMarker struct {
    Coord   calendar.GridCoordinate `json:"coord"`
    Visible bool                    `json:"visible"`
}

// GetCalendar renders the cells of the requested view, or the current
// view when the query is empty.
func (c *CalendarController) GetCalendar(w http.ResponseWriter, r *http.Request) {
    store := c.Service.Store
    view := store.View()
    if q := r.URL.Query().Get("view"); q != "" {
        v, err := calendar.ParseView(q)
        if err != nil {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        view = v
    }

    now := c.Service.Now()
    coord, visible := store.Projector().Now(now, view)
    hidden := store.HiddenFor(view, now)
    if hidden == nil {
        hidden = []string{}
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "view":       view,
        "week_start": store.Projector().WeekStart(now),
        "now":        nowMarker{Coord: coord, Visible: visible},
        "cells":      store.CellsFor(view, now),
        "hidden":     hidden,
        "state":      store.State(),
    })
}

func (c *CalendarController) SetView(w http.ResponseWriter, r *http.Request) {
    var body struct {
        View string `json:"view"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }
    v, err := calendar.ParseView(body.View)
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }
    c.Service.Store.SetView(v)
    writeJSON(w, http.StatusOK, map[string]interface{}{"view": v})
}

func (c *CalendarController) Swap(w http.ResponseWriter, r *http.Request) {
    var body struct {
        DraggedID string `json:"dragged_id"`
        TargetID  string `json:"target_id"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }
    if body.DraggedID == "" || body.TargetID == "" {
        http.Error(w, "dragged_id and target_id are required", http.StatusBadRequest)
        return
    }

    out, err := c.Service.Swap(body.DraggedID, body.TargetID)
    if err != nil {
        c.writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, out)
}

// Drag handles one step of the drag-and-drop state machine. The body is
// optional for leave and cancel.
func (c *CalendarController) Drag(w http.ResponseWriter, r *http.Request) {
    kind, err := schedule.ParseCommandKind(chi.URLParam(r, "action"))
    if err != nil {
        http.Error(w, err.Error(), http.StatusNotFound)
        return
    }

    var body struct {
        SendID string `json:"send_id"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }
    if kind == schedule.CmdDragStart && body.SendID == "" {
        http.Error(w, "send_id is required", http.StatusBadRequest)
        return
    }

    res, err := c.Service.Drag(schedule.Command{Kind: kind, SendID: body.SendID})
    if err != nil {
        c.writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, res)
}

func (c *CalendarController) Status(w http.ResponseWriter, r *http.Request) {
    store := c.Service.Store
    pending := store.PendingUpdates()
    if pending == nil {
        pending = []schedule.Update{}
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{
        "state":     store.State(),
        "dirty":     store.IsDirty(),
        "pending":   pending,
        "drag":      store.Drag(),
        "last_save": store.LastSave(),
    })
}

// Save responds 207 with the per-item report when some updates failed.
func (c *CalendarController) Save(w http.ResponseWriter, r *http.Request) {
    report, err := c.Service.Save(r.Context())
    var saveErr *appErrors.SaveError
    if errors.As(err, &saveErr) {
        writeJSON(w, http.StatusMultiStatus, report)
        return
    }
    if err != nil {
        c.writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, report)
}

func (c *CalendarController) Reload(w http.ResponseWriter, r *http.Request) {
    if err := c.Service.Reload(r.Context()); err != nil {
        c.writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{
        "state": c.Service.Store.State(),
        "sends": len(c.Service.Store.Working()),
    })
}

func (c *CalendarController) Inbox(w http.ResponseWriter, r *http.Request) {
    cols, err := c.Service.Inbox(r.Context())
    if err != nil {
        c.writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{"columns": cols})
}

func (c *CalendarController) writeError(w http.ResponseWriter, err error) {
    var ve *appErrors.ValidationError
    var conflict *appErrors.StateConflictError
    switch {
    case appErrors.IsReason(err, appErrors.ReasonNotFound), errors.Is(err, appErrors.ErrSendNotFound):
        writeJSON(w, http.StatusNotFound, errorBody(err))
    case errors.As(err, &ve):
        writeJSON(w, http.StatusConflict, errorBody(err))
    case errors.As(err, &conflict):
        writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error(), "send_id": conflict.SendID})
    case errors.Is(err, appErrors.ErrSaveInProgress), errors.Is(err, appErrors.ErrNotLoaded):
        writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
    default:
        if c.Log != nil {
            c.Log.Error("request failed", zap.Error(err))
        }
        http.Error(w, err.Error(), http.StatusInternalServerError)
    }
}

func errorBody(err error) map[string]string {
    body := map[string]string{"error": err.Error()}
    var ve *appErrors.ValidationError
    if errors.As(err, &ve) {
        body["reason"] = ve.Reason
        body["send_id"] = ve.SendID
    }
    return body
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(v)
}
