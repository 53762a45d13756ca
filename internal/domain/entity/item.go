package entity

import (
	"strconv"

	domainerrors "shop/internal/domain/errors"

	"github.com/google/uuid"
)

// SellStatus tells whether an item can currently be ordered.
type SellStatus string

const (
	SellStatusSell    SellStatus = "SELL"
	SellStatusSoldOut SellStatus = "SOLD_OUT"
)

// IsValid checks if the SellStatus is a valid value.
func (s SellStatus) IsValid() bool {
	return s == SellStatusSell || s == SellStatusSoldOut
}

// Item is a product in the catalog.
type Item struct {
	ID          uuid.UUID
	Name        string
	Price       int64 // whole currency units
	Stock       int
	SellStatus  SellStatus
	Description string
	// Version is the optimistic lock counter, bumped by every successful update.
	Version int64
	Audit
}

// NewItem builds a catalog item. The sell status follows the stock when status is empty.
func NewItem(name string, price int64, stock int, status SellStatus, description string) (*Item, error) {
	if price < 0 || stock < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("price and stock must not be negative")
	}
	if status == "" {
		status = SellStatusSell
	}
	item := &Item{
		Name:        name,
		Price:       price,
		Stock:       stock,
		SellStatus:  status,
		Description: description,
	}
	if stock == 0 {
		item.SellStatus = SellStatusSoldOut
	}

	return item, nil
}

// RemoveStock deducts quantity from the stock. The item is left untouched when
// the stock is insufficient, and becomes SOLD_OUT when the stock reaches zero.
func (i *Item) RemoveStock(quantity int) error {
	if quantity < 1 {
		return domainerrors.ErrInvalidQuantity
	}
	rest := i.Stock - quantity
	if rest < 0 {
		return domainerrors.ErrInsufficientStock.WithDetails(
			"item " + i.Name + " has " + strconv.Itoa(i.Stock) + " left, requested " + strconv.Itoa(quantity))
	}
	i.Stock = rest
	if rest == 0 {
		i.SellStatus = SellStatusSoldOut
	}

	return nil
}

// AddStock returns quantity to the stock, putting a sold-out item back on sale.
func (i *Item) AddStock(quantity int) {
	i.Stock += quantity
	if i.Stock > 0 && i.SellStatus == SellStatusSoldOut {
		i.SellStatus = SellStatusSell
	}
}

// Update overwrites the editable fields of the item.
func (i *Item) Update(name string, price int64, stock int, status SellStatus, description string) error {
	if price < 0 || stock < 0 {
		return domainerrors.ErrValidationFailed.WithDetails("price and stock must not be negative")
	}
	if !status.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown sell status " + string(status))
	}
	i.Name = name
	i.Price = price
	i.Stock = stock
	i.SellStatus = status
	i.Description = description
	if stock == 0 {
		i.SellStatus = SellStatusSoldOut
	}

	return nil
}
