package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"reshambazaar/internal/domain"
	"reshambazaar/internal/mailer"
	orderrepo "reshambazaar/internal/repository/order"
	"github.com/google/uuid"
)

type orderRepo interface {
	CreateFromCart(ctx context.Context, in orderrepo.CreateFromCartInput) (*domain.Order, error)
}

type couponLookup interface {
	Lookup(ctx context.Context, code string) (*domain.Coupon, error)
}

type contactRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Service converts a user's cart into an order. The commit itself is a single
// store transaction; the confirmation mail runs afterwards off the request
// path and never affects the result.
type Service struct {
	orders  orderRepo
	coupons couponLookup
	users   contactRepo
	mail    mailer.Sender
	logger  *log.Logger
	now     func() time.Time
}

// New creates a Service. mail may be nil to disable confirmations.
func New(orders orderRepo, coupons couponLookup, users contactRepo, mail mailer.Sender, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders:  orders,
		coupons: coupons,
		users:   users,
		mail:    mail,
		logger:  logger,
		now:     time.Now,
	}
}

// Checkout prices and commits the user's cart. An unknown coupon code degrades
// to no discount rather than blocking the purchase; an empty cart fails with
// domain.ErrEmptyCart and mutates nothing.
func (s *Service) Checkout(ctx context.Context, userID, couponCode string, addr *domain.Address) (*domain.Order, error) {
	var coupon *domain.Coupon
	if domain.NormalizeCouponCode(couponCode) != "" {
		c, err := s.coupons.Lookup(ctx, couponCode)
		switch {
		case err == nil:
			coupon = c
		case errors.Is(err, domain.ErrNotFound):
			// Unknown code: proceed without a discount.
		default:
			return nil, err
		}
	}

	var shipping *string
	if addr != nil {
		rendered := addr.Render()
		shipping = &rendered
	}

	order, err := s.orders.CreateFromCart(ctx, orderrepo.CreateFromCartInput{
		OrderID:         uuid.NewString(),
		UserID:          userID,
		Coupon:          coupon,
		ShippingAddress: shipping,
		Now:             s.now(),
	})
	if err != nil {
		return nil, err
	}

	go s.sendConfirmation(order)

	return order, nil
}

// sendConfirmation delivers the order-confirmation mail. It runs detached from
// the request, holds no store locks and swallows every failure.
func (s *Service) sendConfirmation(order *domain.Order) {
	if s.mail == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := s.users.GetByID(ctx, order.UserID)
	if err != nil {
		s.logger.Printf("checkout: confirmation skipped, user lookup id=%s error=%v", order.UserID, err)
		return
	}

	subject := fmt.Sprintf("Your ReshamBazaar order %s", order.ID)
	if err := s.mail.Send(user.Email, subject, confirmationBody(order)); err != nil {
		s.logger.Printf("checkout: confirmation mail to=%s order=%s error=%v", user.Email, order.ID, err)
		return
	}
	s.logger.Printf("checkout: confirmation mail sent to=%s order=%s", user.Email, order.ID)
}

func confirmationBody(order *domain.Order) string {
	var b strings.Builder
	b.WriteString("<h2>Thank you for your order!</h2>")
	fmt.Fprintf(&b, "<p>Order <b>%s</b> placed on %s.</p>", order.ID, order.CreatedAt.Format("2 Jan 2006"))
	b.WriteString("<ul>")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "<li>%s &times; %d = %s</li>",
			line.ProductName, line.Quantity, domain.FormatCents(line.UnitPriceCents*int64(line.Quantity)))
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Subtotal: %s</p>", domain.FormatCents(order.SubtotalCents))
	if order.DiscountCents > 0 {
		code := ""
		if order.CouponCode != nil {
			code = " (" + *order.CouponCode + ")"
		}
		fmt.Fprintf(&b, "<p>Discount%s: -%s</p>", code, domain.FormatCents(order.DiscountCents))
	}
	fmt.Fprintf(&b, "<p><b>Total: %s</b></p>", domain.FormatCents(order.TotalCents))
	if order.ShippingAddress != nil {
		fmt.Fprintf(&b, "<p>Shipping to: %s</p>", *order.ShippingAddress)
	}
	return b.String()
}
