package postgres

import (
	"gorm.io/gen/field"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Typed column handles for the tables queried with dynamic conditions.
// Expressions built from them are clause.Expression values and can be passed
// to gorm's Where and Clauses directly.

type memberColumns struct {
	ID    field.Field
	Email field.String
}

func newMemberColumns() memberColumns {
	const table = "members"

	return memberColumns{
		ID:    field.NewField(table, "id"),
		Email: field.NewString(table, "email"),
	}
}

type itemColumns struct {
	ID          field.Field
	Name        field.String
	Price       field.Int64
	SellStatus  field.String
	Description field.String
	CreatedBy   field.String
	CreatedAt   field.Time
	Version     field.Int64
}

func newItemColumns() itemColumns {
	const table = "items"

	return itemColumns{
		ID:          field.NewField(table, "id"),
		Name:        field.NewString(table, "name"),
		Price:       field.NewInt64(table, "price"),
		SellStatus:  field.NewString(table, "sell_status"),
		Description: field.NewString(table, "description"),
		CreatedBy:   field.NewString(table, "created_by"),
		CreatedAt:   field.NewTime(table, "created_at"),
		Version:     field.NewInt64(table, "version"),
	}
}

//nolint:gochecknoglobals
var (
	memberCols = newMemberColumns()
	itemCols   = newItemColumns()
)

// exprs converts gen expressions to gorm clause expressions.
func exprs(conds ...field.Expr) []clause.Expression {
	out := make([]clause.Expression, 0, len(conds))
	for _, cond := range conds {
		out = append(out, cond)
	}

	return out
}

// where adds conds to db as one AND-ed WHERE clause. An empty list adds nothing.
func where(db *gorm.DB, conds []clause.Expression) *gorm.DB {
	if len(conds) == 0 {
		return db
	}

	return db.Clauses(clause.Where{Exprs: conds})
}

func orderBy(column string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
}
