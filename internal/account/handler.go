package account

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Minister-Isaac/Vtu-Backend/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// GetAccount godoc
// @Summary      Get wallet account
// @Description  Returns the authenticated user's wallet balance and totals.
// @Tags         account
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Account
// @Failure      401  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /api/v1/account [get]
func (h *Handler) GetAccount(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	a, err := h.repo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
		return
	}

	c.JSON(http.StatusOK, a)
}

// ListTransactions godoc
// @Summary      List wallet transactions
// @Description  Returns the authenticated user's purchase history, newest first.
// @Tags         account
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "Page size"    default(50)
// @Param        offset  query  int  false  "Page offset"  default(0)
// @Success      200  {array}   Transaction
// @Failure      401  {object}  gin.H
// @Router       /api/v1/account/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.repo.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}
