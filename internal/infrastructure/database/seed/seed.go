// Package seed holds the demo accounts and rental listings loaded in development.
package seed

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/rental-backend/internal/domain/product"
	"github.com/your-org/rental-backend/internal/pkg/auth"
)

// Account is a demo login with its plain-text password
type Account struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// Accounts returns the demo accounts. The seller is always first.
func Accounts() []Account {
	return []Account{
		{Email: "seller@example.com", Password: "seller123", FullName: "Sam Seller", Role: auth.RoleSeller},
		{Email: "renter@example.com", Password: "renter123", FullName: "Riley Renter", Role: auth.RoleCustomer},
		{Email: "admin@example.com", Password: "admin123", FullName: "Admin User", Role: auth.RoleAdmin},
	}
}

// Products returns the demo listings owned by sellerID
func Products(sellerID uint) []product.Product {
	return []product.Product{
		{
			SellerID:    sellerID,
			Name:        "Evening Gown",
			Images:      []string{"https://example.com/images/gown-front.jpg", "https://example.com/images/gown-back.jpg"},
			Category:    "Dresses",
			Location:    "New York, NY",
			PricePerDay: decimal.RequireFromString("45.00"),
		},
		{
			SellerID:       sellerID,
			Name:           "Skinny Jeans",
			Images:         []string{"https://example.com/images/jeans.jpg"},
			Category:       "Pants",
			Location:       "New York, NY",
			PricePerDay:    decimal.RequireFromString("240.00"),
			SalePercentage: decimal.RequireFromString("10"),
		},
		{
			SellerID:    sellerID,
			Name:        "Leather Jacket",
			Images:      []string{"https://example.com/images/jacket.jpg"},
			Category:    "Outerwear",
			Location:    "Brooklyn, NY",
			PricePerDay: decimal.RequireFromString("30.00"),
		},
	}
}
