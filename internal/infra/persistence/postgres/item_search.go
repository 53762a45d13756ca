package postgres

import (
	"strings"
	"time"

	"shop/internal/domain/entity"

	"gorm.io/gen/field"
	"gorm.io/gorm/clause"
)

// itemPredicate turns an entity.ItemSearch into typed column conditions.
type itemPredicate struct {
	now time.Time
}

func newItemPredicate(now time.Time) itemPredicate {
	return itemPredicate{now: now}
}

func (p itemPredicate) admin(search entity.ItemSearch) []clause.Expression {
	var conds []field.Expr

	if since, ok := search.DateRange.Since(p.now); ok {
		conds = append(conds, itemCols.CreatedAt.Gte(since))
	}

	if search.SellStatus != "" {
		conds = append(conds, itemCols.SellStatus.Eq(string(search.SellStatus)))
	}

	if query := strings.TrimSpace(search.Query); query != "" {
		switch search.SearchBy {
		case entity.SearchByCreatedBy:
			conds = append(conds, itemCols.CreatedBy.Like(containsPattern(query)))
		default:
			conds = append(conds, itemCols.Name.Like(containsPattern(query)))
		}
	}

	if search.MinPrice != nil {
		conds = append(conds, itemCols.Price.Gte(*search.MinPrice))
	}
	if search.MaxPrice != nil {
		conds = append(conds, itemCols.Price.Lte(*search.MaxPrice))
	}

	return exprs(conds...)
}

func containsPattern(s string) string {
	return "%" + s + "%"
}
