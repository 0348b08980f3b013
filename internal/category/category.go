package category

import "github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"

// Category is one entry of the fixed expense category catalog.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var descriptions = map[expense.Category]string{
	expense.CategoryFood:          "Groceries, meals and drinks",
	expense.CategoryTravel:        "Flights, hotels and trips",
	expense.CategoryShopping:      "Clothes and general purchases",
	expense.CategoryTools:         "Equipment and software tools",
	expense.CategoryTransport:     "Fuel, fares and commuting",
	expense.CategoryRent:          "Rent and housing",
	expense.CategoryUtilities:     "Power, water, phone and internet",
	expense.CategorySubscriptions: "Recurring memberships and services",
	expense.CategoryEducation:     "Courses, books and tuition",
	expense.CategoryOther:         "Anything else",
}

func (c Category) ToResponse() CategoryResponse {
	return CategoryResponse{Name: c.Name, Description: c.Description}
}

// Catalog lists every category in display order.
func Catalog() []Category {
	out := make([]Category, len(expense.Categories))
	for i, c := range expense.Categories {
		out[i] = Category{Name: string(c), Description: descriptions[c]}
	}
	return out
}
