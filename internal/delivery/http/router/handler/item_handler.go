package handler

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"shop/config"
	"shop/internal/delivery/http/middleware"
	"shop/internal/delivery/http/response"
	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const imagesFormField = "images"

// ItemHandlerParams holds dependencies for ItemHandler, injected by Fx.
type ItemHandlerParams struct {
	fx.In

	ItemUC usecase.ItemUsecase
	Config *config.Config
	Logger *slog.Logger
}

// ItemHandler serves the storefront catalog and the admin item pages.
type ItemHandler struct {
	itemUC usecase.ItemUsecase
	shop   *config.ShopConfig
	logger *slog.Logger
}

// NewItemHandler is the constructor for ItemHandler.
func NewItemHandler(params ItemHandlerParams) *ItemHandler {
	return &ItemHandler{
		itemUC: params.ItemUC,
		shop:   params.Config.Shop,
		logger: params.Logger,
	}
}

// RegisterItemForm is the multipart form of a new item; images come as files
type RegisterItemForm struct {
	Name        string `form:"name" validate:"required,max=50"`
	Price       int64  `form:"price" validate:"gte=0"`
	Stock       int    `form:"stock" validate:"gte=0"`
	SellStatus  string `form:"sell_status" validate:"omitempty,oneof=SELL SOLD_OUT"`
	Description string `form:"description" validate:"required"`
}

// UpdateItemRequest represents the request body for editing an item
type UpdateItemRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Price       int64  `json:"price" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	SellStatus  string `json:"sell_status" validate:"required,oneof=SELL SOLD_OUT"`
	Description string `json:"description" validate:"required"`
	Version     int64  `json:"version" validate:"gte=0"`
}

// ResolveQRRequest carries the text decoded from a scanned share code
type ResolveQRRequest struct {
	Data string `json:"data" validate:"required,max=2048"`
}

// AdminSearchQuery is the admin catalog filter
type AdminSearchQuery struct {
	PageQuery
	DateRange  string `query:"date_range" validate:"omitempty,oneof=all 1d 1w 1m 6m"`
	SellStatus string `query:"sell_status" validate:"omitempty,oneof=SELL SOLD_OUT"`
	SearchBy   string `query:"search_by" validate:"omitempty,oneof=name createdBy"`
	Query      string `query:"query"`
	MinPrice   string `query:"min_price" validate:"omitempty,number"`
	MaxPrice   string `query:"max_price" validate:"omitempty,number"`
}

// MainSearchQuery is the storefront search
type MainSearchQuery struct {
	PageQuery
	Query string `query:"query"`
}

// ItemResponse is the full view of an item
type ItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       int64           `json:"price"`
	Stock       int             `json:"stock"`
	SellStatus  string          `json:"sell_status"`
	Description string          `json:"description"`
	Version     int64           `json:"version"`
	CreatedBy   string          `json:"created_by"`
	ModifiedBy  string          `json:"modified_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Images      []ImageResponse `json:"images,omitempty"`
}

// ImageResponse is an item picture
type ImageResponse struct {
	ID             string `json:"id"`
	OriginalName   string `json:"original_name"`
	URL            string `json:"url"`
	Representative bool   `json:"representative"`
}

// MainItemResponse is an item card on the storefront
type MainItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price"`
}

func newItemResponse(item *entity.Item) *ItemResponse {
	return &ItemResponse{
		ID:          item.ID.String(),
		Name:        item.Name,
		Price:       item.Price,
		Stock:       item.Stock,
		SellStatus:  string(item.SellStatus),
		Description: item.Description,
		Version:     item.Version,
		CreatedBy:   item.CreatedBy,
		ModifiedBy:  item.ModifiedBy,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func newMainItemResponse(item *entity.MainItem) *MainItemResponse {
	return &MainItemResponse{
		ID:          item.ID.String(),
		Name:        item.Name,
		Description: item.Description,
		ImageURL:    item.ImageURL,
		Price:       item.Price,
	}
}

// RegisterItem handles the multipart item registration of an administrator.
func (h *ItemHandler) RegisterItem(c echo.Context) error {
	actor, ok := middleware.GetEmail(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid member in token")
	}

	var form RegisterItemForm
	if err := c.Bind(&form); err != nil {
		return response.BindingError(c, "Invalid item input")
	}
	if err := c.Validate(&form); err != nil {
		return response.ValidationError(c, err)
	}

	images, err := readImages(c)
	if err != nil {
		return response.BindingError(c, "Invalid item images")
	}

	itemID, err := h.itemUC.RegisterItem(c.Request().Context(), &usecase.RegisterItemInput{
		Name:        form.Name,
		Price:       form.Price,
		Stock:       form.Stock,
		SellStatus:  entity.SellStatus(form.SellStatus),
		Description: form.Description,
		Images:      images,
	}, actor)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"id": itemID.String()})
}

// UpdateItem handles an administrator's item edit.
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	actor, ok := middleware.GetEmail(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid member in token")
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid item ID")
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid item input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.itemUC.UpdateItem(c.Request().Context(), &usecase.UpdateItemInput{
		ID:          itemID,
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		SellStatus:  entity.SellStatus(req.SellStatus),
		Description: req.Description,
		Version:     req.Version,
	}, actor); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"id": itemID.String()})
}

// SearchAdminItems lists the catalog for administrators.
func (h *ItemHandler) SearchAdminItems(c echo.Context) error {
	var query AdminSearchQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return response.BindingError(c, "Invalid search query")
	}
	if err := c.Validate(&query); err != nil {
		return response.ValidationError(c, err)
	}

	search := entity.ItemSearch{
		DateRange:  entity.DateRange(query.DateRange),
		SellStatus: entity.SellStatus(query.SellStatus),
		SearchBy:   entity.SearchBy(query.SearchBy),
		Query:      query.Query,
		MinPrice:   optionalPrice(query.MinPrice),
		MaxPrice:   optionalPrice(query.MaxPrice),
	}

	result, err := h.itemUC.SearchAdminItems(c.Request().Context(), search, query.toPage(h.shop))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toPageData(result, newItemResponse))
}

// SearchMainItems lists the storefront items matching the query.
func (h *ItemHandler) SearchMainItems(c echo.Context) error {
	var query MainSearchQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return response.BindingError(c, "Invalid search query")
	}
	if err := c.Validate(&query); err != nil {
		return response.ValidationError(c, err)
	}

	result, err := h.itemUC.SearchMainItems(c.Request().Context(), query.Query, query.toPage(h.shop))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toPageData(result, newMainItemResponse))
}

// GetItem returns an item with its images.
func (h *ItemHandler) GetItem(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid item ID")
	}

	detail, err := h.itemUC.GetItem(c.Request().Context(), itemID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newItemDetailResponse(detail))
}

// ResolveItemQR looks up the item a scanned share code points at.
func (h *ItemHandler) ResolveItemQR(c echo.Context) error {
	var req ResolveQRRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_REQUEST", "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	detail, err := h.itemUC.ResolveItemQR(c.Request().Context(), req.Data)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newItemDetailResponse(detail))
}

func newItemDetailResponse(detail *entity.ItemDetail) *ItemResponse {
	resp := newItemResponse(detail.Item)
	for _, img := range detail.Images {
		resp.Images = append(resp.Images, ImageResponse{
			ID:             img.ID.String(),
			OriginalName:   img.OriginalName,
			URL:            img.URL,
			Representative: img.Representative,
		})
	}

	return resp
}

// ItemQRCode renders the share code of an item as PNG.
func (h *ItemHandler) ItemQRCode(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid item ID")
	}

	png, err := h.itemUC.ItemQRCode(c.Request().Context(), itemID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

func optionalPrice(raw string) *int64 {
	if raw == "" {
		return nil
	}
	price, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}

	return &price
}

// readImages loads the uploaded files in form order. A request without
// files yields an empty slice and is rejected by the usecase.
func readImages(c echo.Context) ([]usecase.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}

		return nil, errors.WithStack(err)
	}

	files := form.File[imagesFormField]
	images := make([]usecase.ImageUpload, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, usecase.ImageUpload{
			OriginalName: fh.Filename,
			ContentType:  fh.Header.Get(echo.HeaderContentType),
			Data:         data,
		})
	}

	return images, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open upload %s", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read upload %s", fh.Filename)
	}

	return data, nil
}
