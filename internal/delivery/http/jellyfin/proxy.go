package http_jellyfin

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	http_common "github.com/jellypick/core/internal/delivery/http/common"
)

const (
	headerJellyfinURL = "X-Jellyfin-Url"
	queryJellyfinURL  = "jellyfinUrl"
)

// hop-by-hop headers must not be forwarded in either direction.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Controller relays browser requests to the user's Jellyfin server so the
// web client is not blocked by CORS. The target base URL comes from the
// X-Jellyfin-Url header or the jellyfinUrl query parameter; the injected
// client is expected to refuse unsafe destinations.
type Controller struct {
	client *http.Client
	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(client *http.Client, opts ...ControllerOption) *Controller {
	c := &Controller{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.Any("/jellyfin-proxy/*proxyPath", c.proxy)
}

func (c *Controller) proxy(ctx *gin.Context) {
	base := ctx.GetHeader(headerJellyfinURL)
	if base == "" {
		base = ctx.Query(queryJellyfinURL)
	}
	if base == "" {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "missing Jellyfin server URL",
		})
		return
	}
	base = strings.TrimRight(base, "/")

	query := ctx.Request.URL.Query()
	query.Del(queryJellyfinURL)
	target := base + ctx.Param("proxyPath")
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx.Request.Context(), ctx.Request.Method, target, ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid proxy target",
		})
		return
	}

	req.Header = ctx.Request.Header.Clone()
	req.Header.Del(headerJellyfinURL)
	req.Header.Del("Host")
	for _, h := range hopHeaders {
		req.Header.Del(h)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("proxy request failed", "target", target, "error", err)
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "failed to proxy request to Jellyfin",
		})
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if isHopHeader(key) {
			continue
		}
		for _, v := range values {
			ctx.Writer.Header().Add(key, v)
		}
	}
	ctx.Status(resp.StatusCode)
	if _, err := io.Copy(ctx.Writer, resp.Body); err != nil {
		c.logger.Error("proxy response copy failed", "target", target, "error", err)
	}
}

func isHopHeader(key string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(h, key) {
			return true
		}
	}
	return false
}
