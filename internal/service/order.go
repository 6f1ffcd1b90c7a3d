package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"swag-shop/internal/core/logger"
	"swag-shop/internal/domain"
	"swag-shop/internal/metrics"
	"swag-shop/internal/notify"
	"swag-shop/pkg/utils"
)

// OrderQuantity is the per-swag value of a commit-order request: {"quantity": n}.
type OrderQuantity struct {
	Quantity int `json:"quantity"`
}

type CommitOrderInput struct {
	UserID     int
	SwagOrders map[int]OrderQuantity
	Delivery   domain.Delivery
}

type CommitResult struct {
	OrderID string        `json:"orderId"`
	Catalog []domain.Swag `json:"catalog"`
}

type OrderConfig struct {
	// RejectInsufficientStock refuses orders that would take stock below zero.
	RejectInsufficientStock bool
	// RequireConfirmation aborts the commit when the confirmation mail fails.
	// When false the failure is logged and the order is kept.
	RequireConfirmation bool
	// MailTimeout bounds the confirmation send, which runs while the store
	// lock is held.
	MailTimeout time.Duration
	NewID       func() string // defaults to a random UUID
	Now         func() time.Time
}

// DefaultMailTimeout applies when OrderConfig.MailTimeout is unset.
const DefaultMailTimeout = 10 * time.Second

type OrderService struct {
	tx     SnapshotTx
	mailer domain.Mailer
	cfg    OrderConfig
	log    *zap.Logger
}

// NewOrderService wires the order ledger. mailer may be nil, in which case no
// confirmation is sent.
func NewOrderService(tx SnapshotTx, mailer domain.Mailer, cfg OrderConfig, l *zap.Logger) *OrderService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = utils.NewID
	}
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = DefaultMailTimeout
	}
	return &OrderService{tx: tx, mailer: mailer, cfg: cfg, log: l}
}

func (in CommitOrderInput) requested() (map[int]int, error) {
	if len(in.SwagOrders) == 0 {
		return nil, fmt.Errorf("%w: swagOrders is empty", ErrValidation)
	}
	out := make(map[int]int, len(in.SwagOrders))
	for id, q := range in.SwagOrders {
		if q.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity for swag %d must be >= 1", ErrValidation, id)
		}
		out[id] = q.Quantity
	}
	return out, nil
}

// CommitOrder decrements stock, appends an OrderRecord to the user and sends
// the confirmation, then persists the snapshot. The mail goes out before the
// write, so with RequireConfirmation a failed send leaves the store untouched.
func (s *OrderService) CommitOrder(ctx context.Context, in CommitOrderInput) (CommitResult, error) {
	requested, err := in.requested()
	if err != nil {
		return CommitResult{}, err
	}

	var (
		res     CommitResult
		record  domain.OrderRecord
		matched []domain.OrderLine
	)
	err = s.tx.Update(ctx, func(snap *domain.Snapshot) error {
		i, ok := findUserByID(snap.Users, in.UserID)
		if !ok {
			return ErrUserNotFound
		}
		if s.cfg.RejectInsufficientStock {
			if err := CheckStock(snap.Swags, requested); err != nil {
				return err
			}
		}
		snap.Swags = ApplyOrderDeltas(snap.Swags, requested)

		record = domain.OrderRecord{
			OrderID:  s.cfg.NewID(),
			Items:    orderLines(requested),
			Delivery: in.Delivery,
			PlacedAt: s.cfg.Now().UTC(),
		}
		matched = catalogLines(snap.Swags, record.Items)
		u := &snap.Users[i]
		u.Orders = append(u.Orders, record)

		if s.mailer != nil {
			if err := s.sendConfirmation(ctx, u.Profile(), record); err != nil {
				metrics.MailFailures.WithLabelValues("order_confirmation").Inc()
				if s.cfg.RequireConfirmation {
					return err
				}
				logger.Ctx(ctx, s.log).Warn("order confirmation not sent", zap.String("order_id", record.OrderID), zap.Error(err))
			}
		}

		res = CommitResult{OrderID: record.OrderID, Catalog: snap.Swags}
		return nil
	})
	if err != nil {
		return CommitResult{}, err
	}

	metrics.OrdersCommitted.Inc()
	for _, it := range matched {
		metrics.UnitsOrdered.WithLabelValues(strconv.Itoa(it.SwagID)).Add(float64(it.Quantity))
	}
	logger.Ctx(ctx, s.log).Info("order committed",
		zap.String("order_id", record.OrderID),
		zap.Int("user_id", in.UserID),
		zap.Int("lines", len(record.Items)),
	)
	return res, nil
}

func (s *OrderService) sendConfirmation(ctx context.Context, p domain.Profile, record domain.OrderRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MailTimeout)
	defer cancel()
	return s.mailer.Send(ctx, notify.OrderConfirmation(p, record))
}

// catalogLines keeps the lines whose swag exists; ids not in the catalog are
// stored on the order but never reach metric labels.
func catalogLines(swags []domain.Swag, lines []domain.OrderLine) []domain.OrderLine {
	known := make(map[int]struct{}, len(swags))
	for _, sw := range swags {
		known[sw.ID] = struct{}{}
	}
	out := make([]domain.OrderLine, 0, len(lines))
	for _, ln := range lines {
		if _, ok := known[ln.SwagID]; ok {
			out = append(out, ln)
		}
	}
	return out
}
