// Package app assembles the shop from configuration: store, mailer,
// services and the HTTP engine.
package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swag-shop/internal/core/auth"
	"swag-shop/internal/core/config"
	"swag-shop/internal/core/database"
	"swag-shop/internal/domain"
	"swag-shop/internal/notify"
	"swag-shop/internal/repo"
	"swag-shop/internal/service"
	"swag-shop/internal/transport/http/handler"
	"swag-shop/internal/transport/http/router"
	"swag-shop/pkg/utils"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	Store    *repo.Locked
	JWT      *auth.JWTer
	Catalog  *service.CatalogService
	Accounts *service.AccountService
	Orders   *service.OrderService
}

// New opens the configured store and mailer and wires the services. The
// returned func closes the store connection.
func New(cfg *config.Config, l *zap.Logger) (*App, func(), error) {
	store, closeStore, err := repo.Open(storeOptions(cfg), l)
	if err != nil {
		return nil, closeStore, err
	}
	mailer, err := notify.New(mailOptions(cfg), l)
	if err != nil {
		closeStore()
		return nil, func() {}, err
	}
	return Wire(cfg, l, store, mailer), closeStore, nil
}

// Wire builds the services over an already opened store. mailer may be nil.
func Wire(cfg *config.Config, l *zap.Logger, store domain.SnapshotStore, mailer domain.Mailer) *App {
	tx := repo.NewLocked(store)
	hasher := utils.BcryptHasher{Cost: cfg.Password.Cost}
	temp := utils.TempPasswordGenerator{Alphabet: cfg.Password.TempAlphabet, Length: cfg.Password.TempLength}

	return &App{
		Cfg:   cfg,
		Log:   l,
		Store: tx,
		JWT: &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    cfg.JWT.TTL(),
		},
		Catalog: service.NewCatalogService(tx, l.Named("catalog")),
		Accounts: service.NewAccountService(tx, hasher, mailer, temp,
			service.AccountConfig{TempTTL: cfg.Password.TempTTL()}, l.Named("account")),
		Orders: service.NewOrderService(tx, mailer, service.OrderConfig{
			RejectInsufficientStock: cfg.Order.RejectInsufficientStock,
			RequireConfirmation:     cfg.Order.RequireConfirmation,
			MailTimeout:             cfg.Mail.Timeout(),
		}, l.Named("order")),
	}
}

// Engine builds the HTTP surface.
func (a *App) Engine() *gin.Engine {
	return router.NewAPIEngine(router.Deps{
		Log:    a.Log,
		JWT:    a.JWT,
		Roles:  a.Accounts.RoleOf,
		Limits: a.Cfg.Limits,
		Modules: []any{
			handler.NewCatalog(a.Catalog),
			handler.NewAccount(a.Accounts, a.JWT),
			handler.NewOrder(a.Orders),
		},
	})
}

func storeOptions(cfg *config.Config) repo.Options {
	return repo.Options{
		Driver:        cfg.Store.Driver,
		Path:          cfg.Store.Path,
		Key:           cfg.Store.Key,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		DB: database.Opts{
			DSN:                cfg.DB.DSN,
			Username:           cfg.DB.Username,
			Password:           cfg.DB.Password,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
		},
		AutoMigrate: cfg.DB.AutoMigrate,
	}
}

func mailOptions(cfg *config.Config) notify.Options {
	return notify.Options{
		Driver:       cfg.Mail.Driver,
		From:         cfg.Mail.From,
		SMTPHost:     cfg.Mail.SMTP.Host,
		SMTPPort:     cfg.Mail.SMTP.Port,
		SMTPUsername: cfg.Mail.SMTP.Username,
		SMTPPassword: cfg.Mail.SMTP.Password,
		SMTPTimeout:  cfg.Mail.Timeout(),
		AMQPURL:      cfg.Mail.AMQP.URL,
		AMQPQueue:    cfg.Mail.AMQP.Queue,
	}
}
