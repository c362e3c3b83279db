package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	"github.com/gin-gonic/gin"
)

// payloadFrom flattens the query string and the request body into one
// payload. Body values win over query values.
func payloadFrom(c *gin.Context) (model.Payload, error) {
	p := model.Payload{}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}
	if c.Request.Method != http.MethodPost {
		return p, nil
	}

	if strings.Contains(c.ContentType(), "/json") {
		var body map[string]any
		if c.Request.Body != nil {
			// numbers stay decimal text so large ids survive
			dec := json.NewDecoder(c.Request.Body)
			dec.UseNumber()
			if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
				return nil, apperr.Validation("invalid JSON body: %v", err)
			}
		}
		for k, v := range body {
			if v == nil {
				continue
			}
			p[k] = stringify(v)
		}
		return p, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, apperr.Validation("invalid form body: %v", err)
	}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}
	return p, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return ""
	case map[string]any, []any:
		b, _ := json.Marshal(x)
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
