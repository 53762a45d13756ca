package handler

import (
	"log/slog"
	"net/http"
	"time"

	"shop/config"
	"shop/internal/delivery/http/middleware"
	"shop/internal/delivery/http/response"
	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Config  *config.Config
	Logger  *slog.Logger
}

// OrderHandler serves order placement, cancellation and history.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	shop    *config.ShopConfig
	logger  *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler.
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		shop:    params.Config.Shop,
		logger:  params.Logger,
	}
}

// OrderLineRequest is one line of an order request
type OrderLineRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1,max=9999"`
}

// PlaceOrderRequest orders either a single item or several lines
type PlaceOrderRequest struct {
	ItemID   uuid.UUID          `json:"item_id"`
	Quantity int                `json:"quantity" validate:"omitempty,min=1,max=9999"`
	Lines    []OrderLineRequest `json:"lines" validate:"omitempty,dive"`
}

// OrderHistoryResponse is one order in the history page
type OrderHistoryResponse struct {
	OrderID    string                     `json:"order_id"`
	OrderDate  time.Time                  `json:"order_date"`
	Status     string                     `json:"status"`
	TotalPrice int64                      `json:"total_price"`
	Lines      []OrderHistoryLineResponse `json:"lines"`
}

// OrderHistoryLineResponse is one line of an order in the history page
type OrderHistoryLineResponse struct {
	ItemID     string `json:"item_id"`
	ItemName   string `json:"item_name"`
	Quantity   int    `json:"quantity"`
	OrderPrice int64  `json:"order_price"`
	ImageURL   string `json:"image_url"`
}

func newOrderHistoryResponse(h *entity.OrderHistory) *OrderHistoryResponse {
	lines := make([]OrderHistoryLineResponse, 0, len(h.Lines))
	for _, l := range h.Lines {
		lines = append(lines, OrderHistoryLineResponse{
			ItemID:     l.ItemID.String(),
			ItemName:   l.ItemName,
			Quantity:   l.Quantity,
			OrderPrice: l.OrderPrice,
			ImageURL:   l.ImageURL,
		})
	}

	return &OrderHistoryResponse{
		OrderID:    h.OrderID.String(),
		OrderDate:  h.OrderDate,
		Status:     string(h.Status),
		TotalPrice: h.TotalPrice,
		Lines:      lines,
	}
}

// PlaceOrder places an order for the authenticated member.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	email, ok := middleware.GetEmail(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid member in token")
	}

	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid order input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	ctx := c.Request().Context()

	var (
		orderID uuid.UUID
		err     error
	)
	switch {
	case len(req.Lines) > 0:
		lines := make([]usecase.OrderLineInput, 0, len(req.Lines))
		for _, l := range req.Lines {
			lines = append(lines, usecase.OrderLineInput{ItemID: l.ItemID, Quantity: l.Quantity})
		}
		orderID, err = h.orderUC.PlaceOrders(ctx, &usecase.PlaceOrdersInput{Lines: lines, MemberEmail: email})
	case req.ItemID != uuid.Nil && req.Quantity > 0:
		orderID, err = h.orderUC.PlaceOrder(ctx, &usecase.PlaceOrderInput{
			ItemID:      req.ItemID,
			Quantity:    req.Quantity,
			MemberEmail: email,
		})
	default:
		return response.HandleAppError(c, domainerrors.ErrEmptyOrder)
	}
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"order_id": orderID.String()})
}

// CancelOrder cancels an order of the authenticated member.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	email, ok := middleware.GetEmail(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid member in token")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	ctx := c.Request().Context()

	// Admins may cancel any order; everyone else only their own.
	if !middleware.HasRole(c, entity.RoleAdmin) {
		owned, err := h.orderUC.ValidateOrderOwner(ctx, orderID, email)
		if err != nil {
			return response.HandleAppError(c, err)
		}
		if !owned {
			return response.Forbidden(c, domainerrors.ErrForbidden.ErrorCode(), "Order belongs to another member")
		}
	}

	if err := h.orderUC.CancelOrder(ctx, &usecase.CancelOrderInput{
		OrderID:     orderID,
		MemberEmail: email,
	}); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"order_id": orderID.String(), "status": string(entity.OrderStatusCancel)})
}

// History lists the member's orders, newest first.
func (h *OrderHandler) History(c echo.Context) error {
	email, ok := middleware.GetEmail(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid member in token")
	}

	var query PageQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return response.BindingError(c, "Invalid page query")
	}
	if err := c.Validate(&query); err != nil {
		return response.ValidationError(c, err)
	}

	result, err := h.orderUC.History(c.Request().Context(), email, query.toPage(h.shop))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toPageData(result, newOrderHistoryResponse))
}
