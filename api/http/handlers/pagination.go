package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rkotari/benchtrack/pkg/candidate"
)

// parsePageRequest reads zero-based page/size query parameters with
// sane bounds.
func parsePageRequest(c *fiber.Ctx, defSize int) candidate.PageRequest {
	p := candidate.PageRequest{Page: 0, Size: defSize}
	if v := strings.TrimSpace(c.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Page = n
		}
	}
	if v := strings.TrimSpace(c.Query("size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			p.Size = n
		}
	}
	return p
}

func parseLimit(c *fiber.Ctx, def int) int {
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			return n
		}
	}
	return def
}
