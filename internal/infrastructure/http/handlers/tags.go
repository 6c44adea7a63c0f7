package handlers

import (
	"net/http"
	"strings"

	"github.com/sawa-shop/storefront-service/internal/application/tags"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/http/response"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

type TagHandler struct {
	resolver *tags.Resolver
	log      *logger.Logger
}

func NewTagHandler(resolver *tags.Resolver, log *logger.Logger) *TagHandler {
	return &TagHandler{
		resolver: resolver,
		log:      log,
	}
}

// HandleGetTag resolves a single tag through the batching resolver, so
// bursts of concurrent requests collapse into one upstream call.
func (h *TagHandler) HandleGetTag(w http.ResponseWriter, r *http.Request) {
	tagID := strings.TrimPrefix(r.URL.Path, "/tags/")
	if tagID == "" || strings.Contains(tagID, "/") {
		http.NotFound(w, r)
		return
	}

	tag, err := h.resolver.Resolve(r.Context(), tagID)
	if err != nil {
		h.log.Error("Tag resolution failed", "tag_id", tagID, "error", err)
		response.WriteDomainError(w, err)
		return
	}

	if tag == nil {
		response.WriteError(w, http.StatusNotFound, response.StatusNotFound, "Tag not found")
		return
	}

	response.WriteSuccess(w, tag)
}
