package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkarov/intelconsole/internal/assistant"
	"github.com/mkarov/intelconsole/internal/repository"
)

// AssistantHandler delegates analysis of a selected record to the
// external completion service. Each created session owns one bounded
// transcript; the registry keeps sessions across requests so follow-up
// questions share context with the opening analysis.
type AssistantHandler struct {
	Client    *assistant.Client
	Incidents *repository.IncidentRepo
	Datasets  *repository.DatasetRepo
	Tickets   *repository.TicketRepo

	mu       sync.Mutex
	sessions map[string]*assistant.Session
}

func NewAssistantHandler(client *assistant.Client, inc *repository.IncidentRepo,
	ds *repository.DatasetRepo, tk *repository.TicketRepo) *AssistantHandler {
	return &AssistantHandler{
		Client:    client,
		Incidents: inc,
		Datasets:  ds,
		Tickets:   tk,
		sessions:  make(map[string]*assistant.Session),
	}
}

type createSessionReq struct {
	Domain   string `json:"domain"` // incidents | datasets | tickets
	RecordID int64  `json:"record_id"`
}
type createSessionResp struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}
type messageReq struct {
	Message string `json:"message"`
}
type messageResp struct {
	Reply string `json:"reply"`
}

// CreateSession fetches the selected record, opens a session with the
// matching domain expert prompt and runs the opening analysis.
func (h *AssistantHandler) CreateSession(c echo.Context) error {
	var req createSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	var systemPrompt, analysisPrompt string
	var err error
	switch req.Domain {
	case "incidents":
		rec, e := h.Incidents.GetByID(ctx, req.RecordID)
		if e != nil {
			err = e
			break
		}
		systemPrompt = cyberExpertPrompt
		analysisPrompt = incidentAnalysisPrompt(rec)
	case "datasets":
		rec, e := h.Datasets.GetByID(ctx, req.RecordID)
		if e != nil {
			err = e
			break
		}
		systemPrompt = dataExpertPrompt
		analysisPrompt = datasetAnalysisPrompt(rec)
	case "tickets":
		rec, e := h.Tickets.GetByID(ctx, req.RecordID)
		if e != nil {
			err = e
			break
		}
		systemPrompt = opsExpertPrompt
		analysisPrompt = ticketAnalysisPrompt(rec)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown domain"})
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		log.Printf("assistant: record lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	sess := assistant.NewSession(h.Client, systemPrompt)
	reply, err := sess.Send(c.Request().Context(), analysisPrompt)
	if err != nil {
		log.Printf("assistant: opening analysis failed: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "analysis unavailable"})
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.sessions[id] = sess
	h.mu.Unlock()

	return c.JSON(http.StatusCreated, createSessionResp{SessionID: id, Reply: reply})
}

// SendMessage continues a session. With ?stream=true the reply is
// delivered as server-sent events; otherwise as one JSON body.
func (h *AssistantHandler) SendMessage(c echo.Context) error {
	sess, ok := h.session(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown session"})
	}
	var req messageReq
	if err := c.Bind(&req); err != nil || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message required"})
	}

	if c.QueryParam("stream") == "true" {
		return h.streamReply(c, sess, req.Message)
	}

	reply, err := sess.Send(c.Request().Context(), req.Message)
	if err != nil {
		log.Printf("assistant: send failed: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "analysis unavailable"})
	}
	return c.JSON(http.StatusOK, messageResp{Reply: reply})
}

// streamReply forwards reply fragments as SSE data events, terminated by
// a [DONE] event. On failure mid-stream an error event is emitted; the
// transcript keeps the user entry so the client may re-send.
func (h *AssistantHandler) streamReply(c echo.Context, sess *assistant.Session, message string) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	frags, errs := sess.SendStreaming(c.Request().Context(), message)
	for f := range frags {
		if _, err := fmt.Fprintf(res, "data: %s\n\n", f); err != nil {
			// Client went away. Keep draining so the session goroutine can
			// finish and settle the transcript.
			for range frags {
			}
			<-errs
			return nil
		}
		res.Flush()
	}
	if err := <-errs; err != nil {
		log.Printf("assistant: stream failed: %v", err)
		fmt.Fprint(res, "event: error\ndata: analysis unavailable\n\n")
		res.Flush()
		return nil
	}
	fmt.Fprint(res, "data: [DONE]\n\n")
	res.Flush()
	return nil
}

// GetTranscript returns the session's transcript including the system
// entry, in order.
func (h *AssistantHandler) GetTranscript(c echo.Context) error {
	sess, ok := h.session(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": sess.History()})
}

// ResetSession clears the transcript back to a single system entry. An
// optional body {"system_prompt": "..."} replaces the prompt.
func (h *AssistantHandler) ResetSession(c echo.Context) error {
	sess, ok := h.session(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown session"})
	}
	var req struct {
		SystemPrompt string `json:"system_prompt"`
	}
	_ = c.Bind(&req)
	sess.Reset(req.SystemPrompt)
	return c.NoContent(http.StatusNoContent)
}

// DeleteSession drops the session from the registry.
func (h *AssistantHandler) DeleteSession(c echo.Context) error {
	id := c.Param("id")
	h.mu.Lock()
	_, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown session"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AssistantHandler) session(id string) (*assistant.Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}
