package handler

import (
	"shop/config"
	"shop/internal/delivery/http/response"
	"shop/internal/domain/entity"
)

// PageQuery is the zero-based paging query shared by list endpoints.
type PageQuery struct {
	Page int `query:"page" validate:"gte=0"`
	Size int `query:"size" validate:"gte=0"`
}

func (q PageQuery) toPage(shop *config.ShopConfig) entity.Page {
	size := q.Size
	if size <= 0 {
		size = shop.DefaultPageSize
	}
	if size > shop.MaxPageSize {
		size = shop.MaxPageSize
	}

	return entity.Page{Number: q.Page, Size: size}
}

func toPageData[T, R any](result *entity.PageResult[T], convert func(T) R) *response.PageData {
	items := make([]R, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, convert(item))
	}

	return &response.PageData{
		Items:      items,
		Page:       result.Number,
		Size:       result.Size,
		Total:      result.Total,
		TotalPages: result.TotalPages(),
	}
}
