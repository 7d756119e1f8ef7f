package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const headerActorID = "X-Actor-Id"

// actorID reads the optional X-Actor-Id header. Attribution only; a
// missing or malformed header simply means an anonymous actor.
func actorID(c *gin.Context) *int64 {
	raw := strings.TrimSpace(c.GetHeader(headerActorID))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func idParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
}

// queryInt64 parses an optional integer query parameter, nil when absent
// or malformed.
func queryInt64(c *gin.Context, name string) *int64 {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryString(c *gin.Context, name string) *string {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	return &raw
}
