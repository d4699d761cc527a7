package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/stayware/stayflow/internal/clock"
	"github.com/stayware/stayflow/internal/config"
	"github.com/stayware/stayflow/internal/idempotency"
	"github.com/stayware/stayflow/internal/logger"
	"github.com/stayware/stayflow/internal/notifier"
	"github.com/stayware/stayflow/internal/payment"
	paymentdomain "github.com/stayware/stayflow/internal/payment/domain"
	"github.com/stayware/stayflow/internal/ratelimit"
	"github.com/stayware/stayflow/internal/reservation"
	reservationdomain "github.com/stayware/stayflow/internal/reservation/domain"
	"github.com/stayware/stayflow/internal/retry"
	"github.com/stayware/stayflow/internal/room"
	roomdomain "github.com/stayware/stayflow/internal/room/domain"
	"github.com/stayware/stayflow/internal/server"
	"github.com/stayware/stayflow/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		db.Module,
		fx.Provide(RegisterSnowflake),
		fx.Provide(RegisterRedis),
		fx.Provide(RegisterRetry),

		ratelimit.Module,
		idempotency.Module,
		notifier.Module,
		room.Module,
		reservation.Module,
		payment.Module,

		fx.Invoke(migrate),
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func RegisterRedis(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return err
			}
			log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client
}

func RegisterRetry(cfg config.Config, log *zap.Logger) *retry.Executor {
	return retry.NewExecutor(retry.PolicyFromConfig(cfg.Retry), log)
}

func migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&roomdomain.RoomType{},
		&roomdomain.Room{},
		&reservationdomain.Guest{},
		&reservationdomain.Reservation{},
		&reservationdomain.ReservationRoom{},
		&paymentdomain.Payment{},
		&paymentdomain.EventRecord{},
	)
}
