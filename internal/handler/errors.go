package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/warung_api/internal/middleware"
	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
)

type errorMapping struct {
	status  int
	code    string
	message string
}

var errorMappings = []struct {
	err error
	errorMapping
}{
	{utils.ErrNotFound, errorMapping{http.StatusNotFound, "NOT_FOUND", "Resource not found"}},
	{utils.ErrForbiddenStore, errorMapping{http.StatusForbidden, "FORBIDDEN", "Store does not belong to this account"}},
	{utils.ErrInvalidCredentials, errorMapping{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}},
	{utils.ErrInvalidToken, errorMapping{http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired session"}},
	{utils.ErrEmailTaken, errorMapping{http.StatusConflict, "EMAIL_TAKEN", "Email already registered"}},
	{utils.ErrInvalidStatus, errorMapping{http.StatusBadRequest, "INVALID_STATUS", "Invalid status. Must be one of: pending, confirmed, completed, cancelled"}},
	{utils.ErrInvalidTransition, errorMapping{http.StatusConflict, "INVALID_TRANSITION", "Order cannot move to that status"}},
	{utils.ErrInvalidPayment, errorMapping{http.StatusBadRequest, "INVALID_PAYMENT_STATUS", "Payment status must be paid or unpaid"}},
	{utils.ErrInvalidQuantity, errorMapping{http.StatusBadRequest, "INVALID_QUANTITY", "Quantities and prices must be non-negative numbers"}},
	{utils.ErrWeakPassword, errorMapping{http.StatusBadRequest, "WEAK_PASSWORD", "Password must be at least 8 characters with upper and lower case letters, a number and a special character"}},
	{utils.ErrInvalidPhone, errorMapping{http.StatusBadRequest, "INVALID_PHONE", "Phone number must be 10 digits"}},
	{utils.ErrEmptyOrder, errorMapping{http.StatusBadRequest, "EMPTY_ORDER", "Order must contain at least one item"}},
	{utils.ErrInsufficientStock, errorMapping{http.StatusConflict, "INSUFFICIENT_STOCK", "Not enough stock for this order"}},
	{utils.ErrDuplicate, errorMapping{http.StatusConflict, "DUPLICATE", "Already exists"}},
	{utils.ErrInvalidInput, errorMapping{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}},
}

// respondError maps service errors to responses. Anything unknown is logged
// and answered with the generic failure.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			utils.Error(c, m.status, m.code, m.message)
			return
		}
	}
	log.Error().
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("path", c.FullPath()).
		Msg("request failed")
	utils.RequestFailed(c)
}

// bindError answers a binding failure, naming the phone and password rules
// when those were the failing checks.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Tag() {
			case "phone10":
				respondError(c, utils.ErrInvalidPhone)
				return
			case "strongpassword":
				respondError(c, utils.ErrWeakPassword)
				return
			}
		}
	}
	utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
}

func currentSession(c *gin.Context) models.Session {
	sess, _ := middleware.GetSession(c)
	return sess
}
