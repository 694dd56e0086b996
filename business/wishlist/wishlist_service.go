package wishlist

import (
	"context"

	"github.com/it-is-Aman/ram-enterprise/domain"
)

type WishlistRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (domain.Wishlist, error)
	AddItem(ctx context.Context, wishlistID, productID uint) error
	HasItem(ctx context.Context, wishlistID, productID uint) (bool, error)
	RemoveItem(ctx context.Context, wishlistID, productID uint) error
	Clear(ctx context.Context, wishlistID uint) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

// CartAdder is the slice of the cart service MoveToCart needs.
type CartAdder interface {
	AddItem(ctx context.Context, userID, productID uint, quantity int) (domain.Cart, error)
}

type wishlistService struct {
	wishlistRepo WishlistRepository
	productRepo  ProductRepository
	cart         CartAdder
}

func NewWishlistService(wishlistRepo WishlistRepository, productRepo ProductRepository, cart CartAdder) *wishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		cart:         cart,
	}
}

func (s *wishlistService) GetWishlist(ctx context.Context, userID uint) (domain.Wishlist, error) {
	wishlist, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.Wishlist{}, err
	}

	for i := range wishlist.Items {
		if p := wishlist.Items[i].Product; p != nil {
			p.FinalPrice = p.DiscountedPrice()
		}
	}

	return wishlist, nil
}

func (s *wishlistService) AddItem(ctx context.Context, userID, productID uint) (domain.Wishlist, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return domain.Wishlist{}, err
	}
	if !product.IsActive {
		return domain.Wishlist{}, domain.Errorf(domain.ErrNotFound, "product not found")
	}

	wishlist, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.Wishlist{}, err
	}

	exists, err := s.wishlistRepo.HasItem(ctx, wishlist.ID, productID)
	if err != nil {
		return domain.Wishlist{}, err
	}
	if exists {
		return domain.Wishlist{}, domain.Errorf(domain.ErrConflict, "product already in wishlist")
	}

	if err := s.wishlistRepo.AddItem(ctx, wishlist.ID, productID); err != nil {
		return domain.Wishlist{}, err
	}

	return s.GetWishlist(ctx, userID)
}

func (s *wishlistService) RemoveItem(ctx context.Context, userID, productID uint) (domain.Wishlist, error) {
	wishlist, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.Wishlist{}, err
	}

	if err := s.wishlistRepo.RemoveItem(ctx, wishlist.ID, productID); err != nil {
		return domain.Wishlist{}, err
	}

	return s.GetWishlist(ctx, userID)
}

func (s *wishlistService) ClearWishlist(ctx context.Context, userID uint) error {
	wishlist, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.wishlistRepo.Clear(ctx, wishlist.ID)
}

// MoveToCart adds one unit to the cart and drops the wishlist entry. The
// entry stays when the cart refuses the product.
func (s *wishlistService) MoveToCart(ctx context.Context, userID, productID uint) (domain.Cart, error) {
	wishlist, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	exists, err := s.wishlistRepo.HasItem(ctx, wishlist.ID, productID)
	if err != nil {
		return domain.Cart{}, err
	}
	if !exists {
		return domain.Cart{}, domain.Errorf(domain.ErrNotFound, "item not found in wishlist")
	}

	cart, err := s.cart.AddItem(ctx, userID, productID, 1)
	if err != nil {
		return domain.Cart{}, err
	}

	if err := s.wishlistRepo.RemoveItem(ctx, wishlist.ID, productID); err != nil {
		return domain.Cart{}, err
	}

	return cart, nil
}
