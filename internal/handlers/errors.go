package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/joinboard/join-api/internal/errors"
	"github.com/joinboard/join-api/internal/store"
)

// respondStoreError maps a failed document-store round trip to 502 and
// everything else to 500.
func respondStoreError(c *gin.Context, err error) {
	var statusErr *store.StatusError
	if errors.As(err, &statusErr) {
		apierrors.StoreUnavailable(c, "")
		return
	}
	apierrors.InternalError(c, "")
}
