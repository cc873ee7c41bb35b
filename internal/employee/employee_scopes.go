package employee

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func withUser(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN users ON users.id = employees.user_id")
}

func byDepartment(department string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if department == "" {
			return db
		}
		return db.Where("employees.department = ?", department)
	}
}

func byRole(role string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if role == "" {
			return db
		}
		return db.Where("employees.role = ?", role)
	}
}

func byUser(userID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == 0 {
			return db
		}
		return db.Where("employees.user_id = ?", userID)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// search matches term case-insensitively anywhere in the owner's first
// name, last name or email.
func search(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(term) + "%"
		return db.Where(
			"(users.first_name ILIKE ? OR users.last_name ILIKE ? OR users.email ILIKE ?)",
			pattern, pattern, pattern,
		)
	}
}

var orderingColumns = map[string][]clause.Column{
	"date_joined": {{Table: "employees", Name: "date_joined"}},
	"name":        {{Table: "users", Name: "first_name"}, {Table: "users", Name: "last_name"}},
}

// orderBy applies a comma separated ordering such as "-date_joined,name".
// Unknown fields are ignored; with none left the default -date_joined is
// used. employees.id always breaks ties so pages are stable.
func orderBy(ordering string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		var cols []clause.OrderByColumn
		for _, field := range strings.Split(ordering, ",") {
			field = strings.TrimSpace(field)
			desc := strings.HasPrefix(field, "-")
			for _, col := range orderingColumns[strings.TrimPrefix(field, "-")] {
				cols = append(cols, clause.OrderByColumn{Column: col, Desc: desc})
			}
		}
		if len(cols) == 0 {
			cols = append(cols, clause.OrderByColumn{
				Column: clause.Column{Table: "employees", Name: "date_joined"},
				Desc:   true,
			})
		}
		cols = append(cols, clause.OrderByColumn{
			Column: clause.Column{Table: "employees", Name: "id"},
			Desc:   true,
		})
		return db.Order(clause.OrderBy{Columns: cols})
	}
}
