package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "shop/internal/delivery/context"
	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/domain/repository"
	"shop/internal/domain/service"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type cartService struct {
	txManager    repository.TransactionManager
	memberRepo   repository.MemberRepository
	cartRepo     repository.CartRepository
	cartItemRepo repository.CartItemRepository
	publisher    service.EventPublisher
	now          func() time.Time
	logger       *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	MemberRepo   repository.MemberRepository
	CartRepo     repository.CartRepository
	CartItemRepo repository.CartItemRepository
	Publisher    service.EventPublisher
	Logger       *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager:    params.TxManager,
		memberRepo:   params.MemberRepo,
		cartRepo:     params.CartRepo,
		cartItemRepo: params.CartItemRepo,
		publisher:    params.Publisher,
		now:          time.Now,
		logger:       params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddToCart merges the quantity into an existing line for the item or adds a new line.
func (srv *cartService) AddToCart(ctx context.Context, input *usecase.AddToCartInput) (uuid.UUID, error) {
	if input.Quantity < 1 {
		return uuid.Nil, domainerrors.ErrInvalidQuantity
	}
	email := entity.NormalizeEmail(input.MemberEmail)

	var cartItemID uuid.UUID
	err := srv.txManager.Execute(ctx, email, func(repoFactory repository.RepositoryFactory) error {
		member, err := repoFactory.MemberRepo().FindByEmail(ctx, email)
		if err != nil {
			return translateRepoError(err)
		}
		if _, err := repoFactory.ItemRepo().FindByID(ctx, input.ItemID); err != nil {
			return translateRepoError(err)
		}

		cart, err := findOrCreateCart(ctx, repoFactory.CartRepo(), member.ID)
		if err != nil {
			return err
		}

		cartItemRepo := repoFactory.CartItemRepo()
		line, err := cartItemRepo.FindByCartAndItem(ctx, cart.ID, input.ItemID)
		switch {
		case errors.Is(err, repository.ErrCartItemNotFound):
			line, err = entity.NewCartItem(cart.ID, input.ItemID, input.Quantity)
			if err != nil {
				return err
			}
			if err := cartItemRepo.Create(ctx, line); err != nil {
				return errors.Wrap(err, "failed to create cart item")
			}
		case err != nil:
			return errors.Wrap(err, "failed to look up cart item")
		default:
			if err := line.AddQuantity(input.Quantity); err != nil {
				return err
			}
			if err := cartItemRepo.Update(ctx, line); err != nil {
				return errors.Wrap(translateRepoError(err), "failed to update cart item")
			}
		}
		cartItemID = line.ID

		return nil
	})
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to add item to cart")
	}

	srv.log(ctx).Debug("Item added to cart", slog.Any("itemID", input.ItemID), slog.Any("cartItemID", cartItemID))

	return cartItemID, nil
}

func findOrCreateCart(ctx context.Context, cartRepo repository.CartRepository, memberID uuid.UUID) (*entity.Cart, error) {
	cart, err := cartRepo.FindByMemberID(ctx, memberID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, errors.Wrap(err, "failed to look up cart")
	}

	cart = &entity.Cart{MemberID: memberID}
	if err := cartRepo.Create(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "failed to create cart")
	}

	return cart, nil
}

// UpdateCartItemQuantity overwrites the quantity of one of the member's lines.
func (srv *cartService) UpdateCartItemQuantity(ctx context.Context, input *usecase.UpdateCartItemInput) error {
	if input.Quantity < 1 {
		return domainerrors.ErrInvalidQuantity
	}
	email := entity.NormalizeEmail(input.MemberEmail)

	err := srv.txManager.Execute(ctx, email, func(repoFactory repository.RepositoryFactory) error {
		line, err := ownedCartItem(ctx, repoFactory, input.CartItemID, email)
		if err != nil {
			return err
		}
		if err := line.UpdateQuantity(input.Quantity); err != nil {
			return err
		}

		return translateRepoError(repoFactory.CartItemRepo().Update(ctx, line))
	})
	if err != nil {
		return errors.Wrap(err, "failed to update cart item")
	}

	return nil
}

// DeleteCartItem removes one of the member's lines.
func (srv *cartService) DeleteCartItem(ctx context.Context, cartItemID uuid.UUID, email string) error {
	email = entity.NormalizeEmail(email)

	err := srv.txManager.Execute(ctx, email, func(repoFactory repository.RepositoryFactory) error {
		if _, err := ownedCartItem(ctx, repoFactory, cartItemID, email); err != nil {
			return err
		}

		return translateRepoError(repoFactory.CartItemRepo().Delete(ctx, cartItemID))
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete cart item")
	}

	return nil
}

// ListCart returns the member's cart lines, most recently added first.
func (srv *cartService) ListCart(ctx context.Context, email string) ([]*entity.CartDetail, error) {
	member, err := srv.memberRepo.FindByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, translateRepoError(err)
	}

	cart, err := srv.cartRepo.FindByMemberID(ctx, member.ID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return []*entity.CartDetail{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up cart")
	}

	details, err := srv.cartItemRepo.ListDetails(ctx, cart.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart")
	}

	return details, nil
}

// OrderCartItems places a single order for the selected lines and deletes them
// from the cart in the same transaction.
func (srv *cartService) OrderCartItems(ctx context.Context, input *usecase.OrderCartItemsInput) (uuid.UUID, error) {
	cartItemIDs := uniqueIDs(input.CartItemIDs)
	if len(cartItemIDs) == 0 {
		return uuid.Nil, domainerrors.ErrEmptyOrder
	}
	email := entity.NormalizeEmail(input.MemberEmail)

	var order *entity.Order
	err := srv.txManager.Execute(ctx, email, func(repoFactory repository.RepositoryFactory) error {
		member, err := repoFactory.MemberRepo().FindByEmail(ctx, email)
		if err != nil {
			return translateRepoError(err)
		}

		lines := make([]usecase.OrderLineInput, 0, len(cartItemIDs))
		for _, id := range cartItemIDs {
			line, err := ownedCartItem(ctx, repoFactory, id, email)
			if err != nil {
				return err
			}
			lines = append(lines, usecase.OrderLineInput{ItemID: line.ItemID, Quantity: line.Quantity})
		}

		order, err = placeOrderLines(ctx, repoFactory, member, lines, srv.now())
		if err != nil {
			return err
		}

		cartItemRepo := repoFactory.CartItemRepo()
		for _, id := range cartItemIDs {
			if err := cartItemRepo.Delete(ctx, id); err != nil {
				return errors.Wrap(translateRepoError(err), "failed to delete ordered cart item")
			}
		}

		return nil
	})
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to order cart items")
	}

	srv.log(ctx).Info("Cart items ordered", slog.Any("orderID", order.ID), slog.Int("lines", len(order.Items)))
	publishOrderEvent(ctx, srv.log(ctx), srv.publisher, newOrderEvent(ctx, service.OrderEventPlaced, order, email, srv.now()))

	return order.ID, nil
}

// ownedCartItem loads a cart line and checks that it sits in the cart of the member with email.
func ownedCartItem(ctx context.Context, repoFactory repository.RepositoryFactory, cartItemID uuid.UUID, email string) (*entity.CartItem, error) {
	line, err := repoFactory.CartItemRepo().FindByID(ctx, cartItemID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	member, err := repoFactory.MemberRepo().FindByEmail(ctx, email)
	if err != nil {
		return nil, translateRepoError(err)
	}
	cart, err := repoFactory.CartRepo().FindByMemberID(ctx, member.ID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return nil, errors.Wrap(err, "failed to look up cart")
	}
	if cart == nil || cart.ID != line.CartID {
		return nil, domainerrors.ErrForbidden.WithDetails("cart item belongs to another member")
	}

	return line, nil
}

// uniqueIDs drops repeated ids, keeping the first occurrence.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
