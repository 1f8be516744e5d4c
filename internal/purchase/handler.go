package purchase

import (
	"errors"
	"net/http"

	"github.com/Minister-Isaac/Vtu-Backend/internal/account"
	"github.com/Minister-Isaac/Vtu-Backend/internal/api"
	"github.com/Minister-Isaac/Vtu-Backend/internal/auth"
	"github.com/Minister-Isaac/Vtu-Backend/internal/gateway"
	"github.com/Minister-Isaac/Vtu-Backend/internal/logger"
	"github.com/Minister-Isaac/Vtu-Backend/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// BuyData godoc
// @Summary      Buy data bundle
// @Description  Orders a data plan from the provider and debits the wallet at the discounted price.
// @Tags         purchase
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      DataPurchaseRequest  true  "Data purchase"
// @Success      200      {object}  object
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /api/v1/subscribe/data [post]
func (h *Handler) BuyData(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req DataPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	raw, err := h.service.BuyData(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// BuyAirtime godoc
// @Summary      Buy airtime
// @Tags         purchase
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      AirtimePurchaseRequest  true  "Airtime purchase"
// @Success      200      {object}  object
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/v1/subscribe/airtime [post]
func (h *Handler) BuyAirtime(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req AirtimePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	raw, err := h.service.BuyAirtime(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// PayElectricity godoc
// @Summary      Pay electricity bill
// @Tags         purchase
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ElectricityPurchaseRequest  true  "Electricity payment"
// @Success      200      {object}  object
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/v1/subscribe/electricity [post]
func (h *Handler) PayElectricity(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req ElectricityPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	raw, err := h.service.PayElectricity(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// BuyCable godoc
// @Summary      Pay cable TV subscription
// @Tags         purchase
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CablePurchaseRequest  true  "Cable subscription"
// @Success      200      {object}  object
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/v1/subscribe/cablesub [post]
func (h *Handler) BuyCable(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req CablePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	raw, err := h.service.BuyCable(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// DataHistory godoc
// @Summary      Provider data purchase history
// @Tags         purchase
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  object
// @Router       /api/v1/subscribe/data-history [get]
func (h *Handler) DataHistory(c *gin.Context) {
	raw, err := h.service.DataHistory(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// QueryData godoc
// @Summary      Query a data transaction
// @Tags         purchase
// @Security     BearerAuth
// @Produce      json
// @Param        transactionId  path      string  true  "Provider transaction id"
// @Success      200            {object}  object
// @Router       /api/v1/subscribe/query-data/{transactionId} [get]
func (h *Handler) QueryData(c *gin.Context) {
	raw, err := h.service.QueryData(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) QueryAirtime(c *gin.Context) {
	raw, err := h.service.QueryAirtime(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) QueryElectricity(c *gin.Context) {
	raw, err := h.service.QueryElectricity(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) QueryCable(c *gin.Context) {
	raw, err := h.service.QueryCable(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// ValidateIUC godoc
// @Summary      Validate a cable smart card number
// @Tags         purchase
// @Security     BearerAuth
// @Produce      json
// @Param        smartCardNumber  path      string  true  "Smart card number"
// @Param        cableName        path      string  true  "Cable operator"
// @Success      200              {object}  object
// @Router       /api/v1/subscribe/validate-iuc/{smartCardNumber}/{cableName} [get]
func (h *Handler) ValidateIUC(c *gin.Context) {
	raw, err := h.service.ValidateIUC(c.Request.Context(), c.Param("smartCardNumber"), c.Param("cableName"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// ValidateMeter godoc
// @Summary      Validate an electricity meter number
// @Tags         purchase
// @Security     BearerAuth
// @Produce      json
// @Param        meterNumber  path      string  true  "Meter number"
// @Param        discoName    path      string  true  "Distribution company"
// @Param        meterType    path      string  true  "prepaid or postpaid"
// @Success      200          {object}  object
// @Router       /api/v1/subscribe/validate-meter/{meterNumber}/{discoName}/{meterType} [get]
func (h *Handler) ValidateMeter(c *gin.Context) {
	raw, err := h.service.ValidateMeter(c.Request.Context(), c.Param("meterNumber"), c.Param("discoName"), c.Param("meterType"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// respondError maps service errors onto HTTP statuses. Provider errors keep
// their upstream status and body so the caller sees what the provider said.
func (h *Handler) respondError(c *gin.Context, err error) {
	var apiErr *gateway.APIError
	switch {
	case errors.As(err, &apiErr):
		if len(apiErr.Body) > 0 {
			c.Data(apiErr.StatusCode, "application/json", apiErr.Body)
		} else {
			c.JSON(apiErr.StatusCode, api.ErrorResponse{Error: "provider request failed"})
		}
	case errors.Is(err, account.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "insufficient wallet balance"})
	case errors.Is(err, account.ErrAccountNotFound), errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "account not found"})
	default:
		logger.Errorf("Purchase request failed: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}
