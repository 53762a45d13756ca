package handler

import (
	"log/slog"
	"net/http"
	"time"

	"shop/internal/delivery/http/middleware"
	"shop/internal/delivery/http/response"
	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	CartUC usecase.CartUsecase
	Logger *slog.Logger
}

// CartHandler serves the shopping cart of the authenticated member.
type CartHandler struct {
	cartUC usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler.
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC: params.CartUC,
		logger: params.Logger,
	}
}

// AddToCartRequest represents the request body for adding an item to the cart
type AddToCartRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1,max=9999"`
}

// UpdateCartItemRequest represents the request body for changing a cart line
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=9999"`
}

// OrderCartItemsRequest selects the cart lines to check out
type OrderCartItemsRequest struct {
	CartItemIDs []uuid.UUID `json:"cart_item_ids" validate:"required,min=1,unique"`
}

// CartItemResponse is a row of the cart page
type CartItemResponse struct {
	CartItemID string    `json:"cart_item_id"`
	ItemID     string    `json:"item_id"`
	ItemName   string    `json:"item_name"`
	Price      int64     `json:"price"`
	Quantity   int       `json:"quantity"`
	ImageURL   string    `json:"image_url"`
	AddedAt    time.Time `json:"added_at"`
}

func newCartItemResponse(d *entity.CartDetail) CartItemResponse {
	return CartItemResponse{
		CartItemID: d.CartItemID.String(),
		ItemID:     d.ItemID.String(),
		ItemName:   d.ItemName,
		Price:      d.Price,
		Quantity:   d.Quantity,
		ImageURL:   d.ImageURL,
		AddedAt:    d.AddedAt,
	}
}

// AddToCart adds an item to the cart, merging with an existing line.
func (h *CartHandler) AddToCart(c echo.Context) error {
	email, ok := middleware.GetEmail(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid member in token")
	}

	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid cart input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	cartItemID, err := h.cartUC.AddToCart(c.Request().Context(), &usecase.AddToCartInput{
		ItemID:      req.ItemID,
		Quantity:    req.Quantity,
		MemberEmail: email,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"cart_item_id": cartItemID.String()})
}

// ListCart returns the cart lines, newest first.
func (h *CartHandler) ListCart(c echo.Context) error {
	email, ok := middleware.GetEmail(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid member in token")
	}

	details, err := h.cartUC.ListCart(c.Request().Context(), email)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	items := make([]CartItemResponse, 0, len(details))
	for _, d := range details {
		items = append(items, newCartItemResponse(d))
	}

	return response.Success(c, http.StatusOK, items)
}

// UpdateCartItem overwrites the quantity of a cart line.
func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	email, ok := middleware.GetEmail(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid member in token")
	}

	cartItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid cart item ID")
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid cart input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.cartUC.UpdateCartItemQuantity(c.Request().Context(), &usecase.UpdateCartItemInput{
		CartItemID:  cartItemID,
		Quantity:    req.Quantity,
		MemberEmail: email,
	}); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"cart_item_id": cartItemID.String()})
}

// DeleteCartItem removes a line from the cart.
func (h *CartHandler) DeleteCartItem(c echo.Context) error {
	email, ok := middleware.GetEmail(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid member in token")
	}

	cartItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid cart item ID")
	}

	if err := h.cartUC.DeleteCartItem(c.Request().Context(), cartItemID, email); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// OrderCartItems checks out the selected cart lines as one order.
func (h *CartHandler) OrderCartItems(c echo.Context) error {
	email, ok := middleware.GetEmail(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid member in token")
	}

	var req OrderCartItemsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid order input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	orderID, err := h.cartUC.OrderCartItems(c.Request().Context(), &usecase.OrderCartItemsInput{
		CartItemIDs: req.CartItemIDs,
		MemberEmail: email,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"order_id": orderID.String()})
}
