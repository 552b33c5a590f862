package middleware

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/sanitize"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

// DefaultMaxBodyBytes bounds request bodies read by SanitizeInput.
const DefaultMaxBodyBytes int64 = 1 << 20

type SanitizeOptions struct {
	// RichFields are JSON members that keep an allow-listed subset of HTML.
	RichFields []string
	// RawFields are JSON or form members passed through untouched, such as passwords.
	RawFields    []string
	MaxBodyBytes int64
	Logger       logger.Interface
}

// SanitizeInput rewrites query values, form values and JSON bodies before handlers see
// them. Leaves matching sanitize.Detect are logged for audit but never rejected.
func SanitizeInput(opts SanitizeOptions) gin.HandlerFunc {
	maxBytes := opts.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	fields := fieldPolicy{
		rich: toSet(opts.RichFields),
		raw:  toSet(opts.RawFields),
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return func(c *gin.Context) {
		audit := func(source, path, key, value string) {
			if sanitize.Detect(value) {
				log.Warnw("suspicious input sanitized",
					"source", source,
					"path", c.Request.URL.Path,
					"field", path,
					"key", key,
					"client_ip", c.ClientIP(),
				)
			}
		}

		if c.Request.URL.RawQuery != "" {
			query := c.Request.URL.Query()
			for key, values := range query {
				for i, v := range values {
					audit("query", key, key, v)
					values[i] = sanitize.Text(v)
				}
			}
			c.Request.URL.RawQuery = query.Encode()
		}

		if !hasBody(c.Request.Method) || c.Request.Body == nil {
			c.Next()
			return
		}

		// Handlers bind JSON whatever Content-Type says, so every body that is not a form
		// or multipart upload is treated as JSON.
		contentType := c.ContentType()
		switch {
		case contentType == "application/x-www-form-urlencoded":
			if err := sanitizeFormBody(c, maxBytes, fields, audit); err != nil {
				utils.AbortWithError(c, err)
				return
			}
		case strings.HasPrefix(contentType, "multipart/"):
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		default:
			if err := sanitizeJSONBody(c, maxBytes, fields, audit); err != nil {
				utils.AbortWithError(c, err)
				return
			}
		}

		c.Next()
	}
}

type auditFunc func(source, path, key, value string)

type fieldPolicy struct {
	rich map[string]struct{}
	raw  map[string]struct{}
}

func (p fieldPolicy) clean(key, value string) string {
	if _, ok := p.raw[key]; ok {
		return value
	}
	if _, ok := p.rich[key]; ok {
		return sanitize.RichText(value)
	}
	return sanitize.Text(value)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func sanitizeJSONBody(c *gin.Context, maxBytes int64, fields fieldPolicy, audit auditFunc) error {
	raw, err := readLimited(c, maxBytes)
	if err != nil {
		return err
	}

	// Decode the first value the way the JSON binder does. Numbers stay json.Number so
	// large integers survive the round trip; trailing data is dropped.
	var payload any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if len(bytes.TrimSpace(raw)) == 0 || dec.Decode(&payload) != nil {
		// Left for the binder to reject.
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		return nil
	}

	cleaned := sanitize.Walk(payload, func(path, key, value string) string {
		if _, ok := fields.raw[key]; !ok {
			audit("body", path, key, value)
		}
		return fields.clean(key, value)
	})

	out, err := json.Marshal(cleaned)
	if err != nil {
		return errors.NewInternalError("failed to re-encode request body")
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(out))
	c.Request.ContentLength = int64(len(out))
	return nil
}

func sanitizeFormBody(c *gin.Context, maxBytes int64, fields fieldPolicy, audit auditFunc) error {
	raw, err := readLimited(c, maxBytes)
	if err != nil {
		return err
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err := c.Request.ParseForm(); err != nil {
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		return nil
	}

	form := c.Request.PostForm
	for key, values := range form {
		for i, v := range values {
			if _, ok := fields.raw[key]; !ok {
				audit("form", key, key, v)
			}
			values[i] = fields.clean(key, v)
		}
	}

	encoded := form.Encode()
	c.Request.Body = io.NopCloser(strings.NewReader(encoded))
	c.Request.ContentLength = int64(len(encoded))
	// Force the binder to re-parse from the rewritten body.
	c.Request.PostForm = nil
	c.Request.Form = nil
	return nil
}

func readLimited(c *gin.Context, maxBytes int64) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.NewPayloadTooLargeError(maxBytes)
		}
		return nil, errors.NewBadRequestError("failed to read request body")
	}
	return raw, nil
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
