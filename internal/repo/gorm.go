package repo

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"swag-shop/internal/domain"
)

type SwagRow struct {
	ID       int    `gorm:"primaryKey;autoIncrement:false"`
	Name     string `gorm:"size:191;not null"`
	Quantity int    `gorm:"not null"`
	Category string `gorm:"size:64"`
	Image    string `gorm:"size:1024"`
}

func (SwagRow) TableName() string { return "swags" }

type UserRow struct {
	ID                      int    `gorm:"primaryKey;autoIncrement:false"`
	Username                string `gorm:"uniqueIndex;size:191;not null"`
	Email                   string `gorm:"uniqueIndex;size:191;not null"`
	FirstName               string `gorm:"size:64"`
	LastName                string `gorm:"size:64"`
	PasswordHash            string `gorm:"size:100;not null"`
	Role                    string `gorm:"size:16;not null;default:user"`
	TemporaryPasswordHash   string `gorm:"size:100"`
	TemporaryPasswordExpiry *time.Time
}

func (UserRow) TableName() string { return "users" }

// OrderRow holds one OrderRecord; Seq keeps the per-user append order.
type OrderRow struct {
	OrderID         string             `gorm:"primaryKey;size:36"`
	UserID          int                `gorm:"index;not null"`
	Seq             int                `gorm:"not null"`
	Items           []domain.OrderLine `gorm:"serializer:json;type:text"`
	DeliveryAddress string             `gorm:"size:512"`
	DeliveryDate    string             `gorm:"size:64"`
	PhoneNumber     string             `gorm:"size:64"`
	PlacedAt        time.Time
}

func (OrderRow) TableName() string { return "orders" }

// GormStore maps the snapshot onto swags/users/orders tables. Write replaces
// all three tables inside one transaction.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (g *GormStore) AutoMigrate() error {
	return g.db.AutoMigrate(&SwagRow{}, &UserRow{}, &OrderRow{})
}

func (g *GormStore) Read(ctx context.Context) (*domain.Snapshot, error) {
	var (
		swags  []SwagRow
		users  []UserRow
		orders []OrderRow
	)
	tx := g.db.WithContext(ctx)
	if err := tx.Order("id").Find(&swags).Error; err != nil {
		return nil, ioErr("select swags", err)
	}
	if err := tx.Order("id").Find(&users).Error; err != nil {
		return nil, ioErr("select users", err)
	}
	if err := tx.Order("user_id, seq").Find(&orders).Error; err != nil {
		return nil, ioErr("select orders", err)
	}
	return fromRows(swags, users, orders), nil
}

func (g *GormStore) Write(ctx context.Context, s *domain.Snapshot) error {
	swags, users, orders := toRows(s)
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&OrderRow{}, &UserRow{}, &SwagRow{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		if len(swags) > 0 {
			if err := tx.Create(&swags).Error; err != nil {
				return err
			}
		}
		if len(users) > 0 {
			if err := tx.Create(&users).Error; err != nil {
				return err
			}
		}
		if len(orders) > 0 {
			if err := tx.Create(&orders).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ioErr("replace snapshot", err)
	}
	return nil
}

func toRows(s *domain.Snapshot) ([]SwagRow, []UserRow, []OrderRow) {
	swags := make([]SwagRow, 0, len(s.Swags))
	for _, w := range s.Swags {
		swags = append(swags, SwagRow(w))
	}
	users := make([]UserRow, 0, len(s.Users))
	var orders []OrderRow
	for _, u := range s.Users {
		users = append(users, UserRow{
			ID:                      u.ID,
			Username:                u.Username,
			Email:                   u.Email,
			FirstName:               u.FirstName,
			LastName:                u.LastName,
			PasswordHash:            u.PasswordHash,
			Role:                    string(u.Role),
			TemporaryPasswordHash:   u.TemporaryPasswordHash,
			TemporaryPasswordExpiry: u.TemporaryPasswordExpiry,
		})
		for seq, o := range u.Orders {
			orders = append(orders, OrderRow{
				OrderID:         o.OrderID,
				UserID:          u.ID,
				Seq:             seq,
				Items:           o.Items,
				DeliveryAddress: o.Delivery.Address,
				DeliveryDate:    o.Delivery.Date,
				PhoneNumber:     o.Delivery.PhoneNumber,
				PlacedAt:        o.PlacedAt,
			})
		}
	}
	return swags, users, orders
}

func fromRows(swags []SwagRow, users []UserRow, orders []OrderRow) *domain.Snapshot {
	s := &domain.Snapshot{
		Swags: make([]domain.Swag, 0, len(swags)),
		Users: make([]domain.User, 0, len(users)),
	}
	for _, w := range swags {
		s.Swags = append(s.Swags, domain.Swag(w))
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].UserID != orders[j].UserID {
			return orders[i].UserID < orders[j].UserID
		}
		return orders[i].Seq < orders[j].Seq
	})
	byUser := make(map[int][]domain.OrderRecord, len(users))
	for _, o := range orders {
		byUser[o.UserID] = append(byUser[o.UserID], domain.OrderRecord{
			OrderID: o.OrderID,
			Items:   o.Items,
			Delivery: domain.Delivery{
				Address:     o.DeliveryAddress,
				Date:        o.DeliveryDate,
				PhoneNumber: o.PhoneNumber,
			},
			PlacedAt: o.PlacedAt,
		})
	}
	for _, u := range users {
		s.Users = append(s.Users, domain.User{
			ID:                      u.ID,
			Username:                u.Username,
			Email:                   u.Email,
			FirstName:               u.FirstName,
			LastName:                u.LastName,
			PasswordHash:            u.PasswordHash,
			Role:                    domain.Role(u.Role),
			Orders:                  byUser[u.ID],
			TemporaryPasswordHash:   u.TemporaryPasswordHash,
			TemporaryPasswordExpiry: u.TemporaryPasswordExpiry,
		})
	}
	return normalize(s)
}
