package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"travelmarket/internal/cache"
	"travelmarket/internal/config"
	"travelmarket/internal/database"
	"travelmarket/internal/middleware"
	"travelmarket/internal/modules/auth"
	"travelmarket/internal/modules/availability"
	"travelmarket/internal/modules/booking"
	"travelmarket/internal/modules/catalog"
	"travelmarket/internal/modules/coupon"
	"travelmarket/internal/modules/order"
	"travelmarket/internal/notify"
	jwtsvc "travelmarket/internal/pkg/jwt"
	"travelmarket/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	pg := database.IsPostgres(cfg.DatabaseURL)
	if pg {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal(err)
		}
	} else {
		// sqlite dev path: no exclusion constraint, best-effort schema
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal(err)
		}
	}

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	reservationRepo := repository.NewReservationRepository(db, pg)
	settlementRepo := repository.NewSettlementRepository(db)
	productRepo := repository.NewProductRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	txManager := repository.NewTxManager(db)

	stays := repository.NewStayCatalog(listingRepo)
	tours := repository.NewTourCatalog(listingRepo)
	adventures := repository.NewAdventureCatalog(listingRepo)
	vehicles := repository.NewVehicleCatalog(listingRepo)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	var rangeCache *cache.RangeCache
	if cfg.RedisAddr != "" {
		rangeCache = cache.NewRangeCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		log.Println("Availability range cache enabled:", cfg.RedisAddr)
	}

	hub := notify.NewHub()
	defer hub.Close()

	notifiers := notify.Multi{notify.NewLogNotifier(), hub}
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal(err)
		}
		defer amqpNotifier.Close()
		notifiers = append(notifiers, amqpNotifier)
	}

	var availCache availability.RangeCache
	var invalidator booking.RangeInvalidator
	if rangeCache != nil {
		availCache = rangeCache
		invalidator = rangeCache
	}

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(listingRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	availService := availability.NewService(reservationRepo, availCache, stays, tours, adventures, vehicles)
	availHandler := availability.NewHandler(availService)

	bookingService := booking.NewService(reservationRepo, availService, settlementRepo, notifiers, invalidator, stays, tours, adventures, vehicles)
	bookingHandler := booking.NewHandler(bookingService)

	couponService := coupon.NewService(couponRepo)
	couponHandler := coupon.NewHandler(couponService)

	orderService := order.NewService(productRepo, couponRepo, orderRepo, txManager)
	orderHandler := order.NewHandler(orderService)

	notifyHandler := notify.NewHandler(hub)

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
		availHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			orderHandler.RegisterRoutes(protected)
			couponHandler.RegisterRoutes(protected)
			notifyHandler.RegisterRoutes(protected)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(j), middleware.AdminOnly())
		{
			couponHandler.RegisterAdminRoutes(admin)
		}
	}

	log.Println("Listening on", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
