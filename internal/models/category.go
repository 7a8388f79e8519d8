package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#607D8B"

// IsValid reports whether c is one of the supported category types.
func (c CategoryType) IsValid() bool {
	return c == CategoryTypeIncome || c == CategoryTypeExpense
}

// Accepts reports whether transactions of type t may be filed under this category type.
func (c CategoryType) Accepts(t TransactionType) bool {
	return string(c) == string(t)
}

// Category is a named, colored classification tag. Name is the key
// transactions refer to.
type Category struct {
	Base
	Name  string       `gorm:"not null;uniqueIndex" json:"name"`
	Type  CategoryType `gorm:"not null" json:"type"`
	Color string       `json:"color"`
}

// DefaultCategories returns the categories seeded on first run.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Salary", Type: CategoryTypeIncome, Color: "#4CAF50"},
		{Name: "Freelance", Type: CategoryTypeIncome, Color: "#8BC34A"},
		{Name: "Investments", Type: CategoryTypeIncome, Color: "#009688"},
		{Name: "Food", Type: CategoryTypeExpense, Color: "#F44336"},
		{Name: "Transport", Type: CategoryTypeExpense, Color: "#FF9800"},
		{Name: "Housing", Type: CategoryTypeExpense, Color: "#795548"},
		{Name: "Health", Type: CategoryTypeExpense, Color: "#E91E63"},
		{Name: "Leisure", Type: CategoryTypeExpense, Color: "#9C27B0"},
		{Name: "Education", Type: CategoryTypeExpense, Color: "#3F51B5"},
		{Name: "Other", Type: CategoryTypeExpense, Color: DefaultCategoryColor},
	}
}
