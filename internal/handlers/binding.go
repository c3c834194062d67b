package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat attempts to bind the request body to obj.
// It first checks if the body contains a nested object with the given key (e.g. {"data": {...}}).
// If so, it binds that nested object to obj.
// If not, or if the key is missing, it attempts to bind the entire body to obj (e.g. {...}).
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
	}
	// Restore body for future binding or subsequent reads
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var nestedMap map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &nestedMap); err == nil {
		if val, ok := nestedMap[key]; ok {
			return json.Unmarshal(val, obj)
		}
	}

	return json.Unmarshal(bodyBytes, obj)
}

// bindContent reads a content document body. Editors send either
// {"data": {...}, "status": false} or the document fields flat with an
// optional "status". Status defaults to published.
func bindContent(c *gin.Context) (json.RawMessage, bool, error) {
	var data json.RawMessage
	if err := BindNestedOrFlat(c, "data", &data); err != nil {
		return nil, false, err
	}

	var envelope struct {
		Status *bool `json:"status"`
	}
	body, _ := io.ReadAll(c.Request.Body)
	// A non-object body is rejected later by content validation
	_ = json.Unmarshal(body, &envelope)

	status := true
	if envelope.Status != nil {
		status = *envelope.Status
	}
	return data, status, nil
}
