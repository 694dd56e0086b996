package cart

import (
	"context"

	"github.com/it-is-Aman/ram-enterprise/domain"
)

type CartRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (domain.Cart, error)
	FindItem(ctx context.Context, cartID, productID uint) (domain.CartItem, error)
	SetQuantity(ctx context.Context, cartID, productID uint, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID uint) error
	Clear(ctx context.Context, cartID uint) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type cartService struct {
	cartRepo    CartRepository
	productRepo ProductRepository
}

func NewCartService(cartRepo CartRepository, productRepo ProductRepository) *cartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetCart(ctx context.Context, userID uint) (domain.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart.Summarize()
	return cart, nil
}

func (s *cartService) activeProduct(ctx context.Context, productID uint) (domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if !product.IsActive {
		return domain.Product{}, domain.Errorf(domain.ErrNotFound, "product not found")
	}
	return product, nil
}

// AddItem puts quantity units in the cart, on top of what is already there.
func (s *cartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return domain.Cart{}, domain.Errorf(domain.ErrValidation, "quantity must be at least 1")
	}

	product, err := s.activeProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	total := quantity
	existing, err := s.cartRepo.FindItem(ctx, cart.ID, productID)
	switch {
	case err == nil:
		total += existing.Quantity
	case !domain.IsNotFound(err):
		return domain.Cart{}, err
	}

	if total > product.Stock {
		return domain.Cart{}, domain.Errorf(domain.ErrInsufficientStock, "insufficient stock")
	}

	if err := s.cartRepo.SetQuantity(ctx, cart.ID, productID, total); err != nil {
		return domain.Cart{}, err
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) UpdateItem(ctx context.Context, userID, productID uint, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return domain.Cart{}, domain.Errorf(domain.ErrValidation, "quantity must be at least 1")
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	if _, err := s.cartRepo.FindItem(ctx, cart.ID, productID); err != nil {
		return domain.Cart{}, err
	}

	product, err := s.activeProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}

	if quantity > product.Stock {
		return domain.Cart{}, domain.Errorf(domain.ErrInsufficientStock, "insufficient stock")
	}

	if err := s.cartRepo.SetQuantity(ctx, cart.ID, productID, quantity); err != nil {
		return domain.Cart{}, err
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID uint) (domain.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	if err := s.cartRepo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return domain.Cart{}, err
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) ClearCart(ctx context.Context, userID uint) error {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.cartRepo.Clear(ctx, cart.ID)
}
