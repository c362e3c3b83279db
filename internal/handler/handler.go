package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	"github.com/gin-gonic/gin"
)

// DefaultXSSIPrefix is stripped by AngularJS's $http before parsing JSON.
const DefaultXSSIPrefix = ")]}',\n"

// Browser runs the table operations behind the HTTP routes.
type Browser interface {
	List(ctx context.Context, p model.Payload) (*model.ListResponse, error)
	Read(ctx context.Context, p model.Payload) (*model.ReadResponse, error)
	Write(ctx context.Context, p model.Payload) (*model.WriteResponse, error)
	Tables(ctx context.Context, p model.Payload) (*model.TablesResponse, error)
	Ping(ctx context.Context, source string) error
}

type Handler struct {
	browser Browser
	prefix  string
}

// New returns a Handler writing prefix before every JSON body.
func New(b Browser, prefix string) *Handler {
	return &Handler{browser: b, prefix: prefix}
}

// Register mounts the routes on r. Every operation accepts GET query
// strings as well as POST forms and JSON bodies.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/ping", h.Ping)

	routes := map[string]gin.HandlerFunc{
		"/list":   serve(h, h.browser.List),
		"/read":   serve(h, h.browser.Read),
		"/write":  serve(h, h.browser.Write),
		"/tables": serve(h, h.browser.Tables),
	}
	for path, fn := range routes {
		r.GET(path, fn)
		r.POST(path, fn)
	}
}

func (h *Handler) Ping(c *gin.Context) {
	if source := c.Query("source"); source != "" {
		if err := h.browser.Ping(c.Request.Context(), source); err != nil {
			h.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

func serve[R any](h *Handler, op func(context.Context, model.Payload) (R, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := payloadFrom(c)
		if err != nil {
			h.fail(c, err)
			return
		}
		resp, err := op(c.Request.Context(), p)
		if err != nil {
			h.fail(c, err)
			return
		}
		h.render(c, http.StatusOK, resp)
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	e := apperr.As(err)
	log.Printf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, e.Kind, e)
	h.render(c, e.Status(), model.ErrorResponse{
		Error:   true,
		Code:    string(e.Kind),
		Message: e.Error(),
	})
}

func (h *Handler) render(c *gin.Context, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(model.ErrorResponse{
			Error:   true,
			Code:    string(apperr.KindInternal),
			Message: "encoding response: " + err.Error(),
		})
	}
	c.Data(status, "application/json; charset=utf-8", append([]byte(h.prefix), data...))
}
