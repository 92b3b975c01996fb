package store

import (
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsArg builds the LIKE argument for a case-insensitive substring match.
func containsArg(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func prefixArg(s string) string {
	return likeEscaper.Replace(s) + "%"
}

func icontains(db *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return db
	}
	return db.Where("LOWER("+column+") LIKE ? ESCAPE '!'", containsArg(value))
}

// orderable maps wire field names (snake_case) to columns for one table.
type orderable map[string]string

var (
	customerColumns = orderable{
		"id":         "id",
		"name":       "name",
		"email":      "email",
		"phone":      "phone",
		"created_at": "created_at",
	}
	productColumns = orderable{
		"id":         "id",
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	orderColumns = orderable{
		"id":           "id",
		"order_date":   "order_date",
		"total_amount": "total_amount",
		"customer_id":  "customer_id",
	}
)

// apply adds ORDER BY clauses for fields, then id ascending as a tiebreaker.
// A leading "-" sorts descending. Fields may be camelCase or snake_case.
func (o orderable) apply(db *gorm.DB, fields []string) (*gorm.DB, error) {
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		desc := strings.HasPrefix(f, "-")
		name := snakeCase(strings.TrimPrefix(f, "-"))
		col, ok := o[name]
		if !ok {
			return nil, model.NewValidationError("INVALID_ORDER_BY", "Cannot order by %q", f)
		}
		if desc {
			col += " DESC"
		} else {
			col += " ASC"
		}
		db = db.Order(col)
	}
	return db.Order("id ASC"), nil
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
