package chat

import (
	"net/http"

	"shopkeeper/internal/modkit/httpkit"
)

// RegisterRoutes mounts the chat endpoint on the given router
func (s *Service) RegisterRoutes(r httpkit.Router) {
	httpkit.PostJSON(r, "/chat", func(req *http.Request, in AskInput) (any, error) {
		return s.Ask(req.Context(), in)
	})
}
