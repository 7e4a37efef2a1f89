package models

import "time"

type ShoppingCart struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Partial unique index: at most one open cart per user. A second open
	// cart for the same user fails the insert, never silently coexists.
	UserID       uint       `gorm:"not null;index:idx_open_cart_user,unique,where:is_checked_out = false" json:"user_id"`
	IsCheckedOut bool       `gorm:"not null;default:false" json:"is_checked_out"`
	Items        []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time  `json:"created_at"`
	CheckedOutAt *time.Time `json:"checked_out_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CartID    uint `gorm:"index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint `gorm:"uniqueIndex:idx_cart_product" json:"product_id"`
	// Product is a read-only join for views; the item owns only the id.
	Product  Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity int       `gorm:"not null" json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}
