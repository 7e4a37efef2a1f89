package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KTZN/ShoppingCartApi/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartService owns cart state, stock quantities and order finality. Every
// mutation runs inside a transaction so the read-validate-write sequence is
// atomic with respect to concurrent requests on the same cart or products.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// lockForUpdate takes row locks on postgres. SQLite has a single writer and
// rejects FOR UPDATE, so the clause is skipped under that dialect.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetOrCreateCart returns the user's open cart with items and product
// snapshots, creating an empty one if none exists. When two first-time calls
// race, the partial unique index on (user_id, open) fails the loser's insert
// and the loser returns the winner's cart instead of erroring.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID uint) (*models.ShoppingCart, error) {
	db := s.db.WithContext(ctx)

	cart, err := openCart(db, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, classify(err)
	}

	fresh := models.ShoppingCart{UserID: userID, CreatedAt: time.Now().UTC()}
	if err := db.Create(&fresh).Error; err != nil {
		// A concurrent request may have won the race: the partial unique
		// index rejects the duplicate and the loser adopts the winner's cart.
		if winner, rerr := openCart(db, userID); rerr == nil {
			return winner, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: concurrent cart creation", ErrTransient)
		}
		return nil, classify(err)
	}

	log.Printf("created cart %d for user %d", fresh.ID, userID)
	fresh.Items = []models.CartItem{}
	return &fresh, nil
}

// GetCart loads a cart by id with items and product snapshots.
func (s *CartService) GetCart(ctx context.Context, cartID uint) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").
		First(&cart, cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart %d: %w", cartID, ErrNotFound)
		}
		return nil, classify(err)
	}
	return &cart, nil
}

// GetUserCart loads a user's open cart without creating one.
func (s *CartService) GetUserCart(ctx context.Context, userID uint) (*models.ShoppingCart, error) {
	cart, err := openCart(s.db.WithContext(ctx), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("open cart for user %d: %w", userID, ErrNotFound)
		}
		return nil, classify(err)
	}
	return cart, nil
}

func openCart(db *gorm.DB, userID uint) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	err := db.Preload("Items").Preload("Items.Product").
		Where("user_id = ? AND is_checked_out = ?", userID, false).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem puts quantity units of a product into the cart. If the product is
// already in the cart the quantities merge, and the merged total is what must
// fit in current stock. The stock check is a soft check: nothing is reserved
// until checkout.
func (s *CartService) AddItem(ctx context.Context, cartID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var result models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockOpenCart(tx, cartID)
		if err != nil {
			return err
		}

		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d: %w", productID, ErrNotFound)
			}
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if quantity > product.StockQuantity {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   quantity,
					Available:   product.StockQuantity,
				}
			}
			item = models.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				AddedAt:   time.Now().UTC(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			total := item.Quantity + quantity
			if total > product.StockQuantity {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   total,
					Available:   product.StockQuantity,
				}
			}
			item.Quantity = total
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		item.Product = product
		result = item
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return &result, nil
}

// RemoveItem deletes an item from an open cart. Stock is untouched: nothing
// was reserved by adding.
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOpenCart(tx, cartID); err != nil {
			return err
		}

		res := tx.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("item %d in cart %d: %w", itemID, cartID, ErrNotFound)
		}
		return nil
	})
	return classify(err)
}

// Checkout finalizes a cart: every item is re-validated against current
// stock under row locks, then all stock decrements and the checked-out flag
// land in one transaction. A failed checkout changes nothing and the cart
// stays open. This re-validation, not the add-time check, is the stock
// integrity guarantee.
func (s *CartService) Checkout(ctx context.Context, cartID uint) error {
	now := time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockOpenCart(tx, cartID)
		if err != nil {
			return err
		}

		var items []models.CartItem
		// Lock product rows in id order so concurrent checkouts over the
		// same products cannot deadlock.
		if err := tx.Where("cart_id = ?", cart.ID).Order("product_id").Find(&items).Error; err != nil {
			return err
		}

		products := make([]models.Product, len(items))
		for i, item := range items {
			if err := lockForUpdate(tx).First(&products[i], item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d: %w", item.ProductID, ErrNotFound)
				}
				return err
			}
			if products[i].StockQuantity < item.Quantity {
				return &InsufficientStockError{
					ProductID:   products[i].ID,
					ProductName: products[i].Name,
					Requested:   item.Quantity,
					Available:   products[i].StockQuantity,
				}
			}
		}

		for i, item := range items {
			products[i].StockQuantity -= item.Quantity
			products[i].UpdatedAt = now
			if err := tx.Save(&products[i]).Error; err != nil {
				return err
			}
		}

		cart.IsCheckedOut = true
		cart.CheckedOutAt = &now
		if err := tx.Save(cart).Error; err != nil {
			return err
		}

		log.Printf("checked out cart %d (%d items)", cart.ID, len(items))
		return nil
	})
	return classify(err)
}

// lockOpenCart locks the cart row so item mutation and checkout on the same
// cart serialize, then rejects carts that are already checked out.
func lockOpenCart(tx *gorm.DB, cartID uint) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	if err := lockForUpdate(tx).First(&cart, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart %d: %w", cartID, ErrNotFound)
		}
		return nil, err
	}
	if cart.IsCheckedOut {
		return nil, ErrInvalidState
	}
	return &cart, nil
}
