package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/store"
	"gitlab.com/dirk.krummacker/phonebook-service/pkg/model"
)

// abortWithError ends the request with the response for err. Every kind of store.Error has its
// own status; errors of other types are backend failures.
func (h *handler) abortWithError(c *gin.Context, err error) {
	switch store.KindOf(err) {
	case store.KindValidation:
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{Error: store.MessageOf(err)})
	case store.KindNotFound:
		if msg := store.MessageOf(err); msg != "" {
			c.AbortWithStatusJSON(http.StatusNotFound, model.ErrorResponse{Error: msg})
		} else {
			c.AbortWithStatus(http.StatusNotFound)
		}
	case store.KindMalformedID:
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{Error: store.ErrMalformedID.Message})
	case store.KindUnknownRoute:
		c.AbortWithStatusJSON(http.StatusNotFound, model.ErrorResponse{Error: store.ErrUnknownRoute.Message})
	case store.KindBackend:
		h.logger.ErrorContext(c.Request.Context(), "store operation failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
			"err", err,
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
