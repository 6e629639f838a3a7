package http

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopora/go-shop-backend/internal/app/assets"
	"github.com/shopora/go-shop-backend/internal/app/cache"
	"github.com/shopora/go-shop-backend/internal/app/config"
	"github.com/shopora/go-shop-backend/internal/app/controller/http/events"
	"github.com/shopora/go-shop-backend/internal/app/controller/http/middleware/logger"
	"github.com/shopora/go-shop-backend/internal/app/controller/http/middleware/role"
	token_middleware "github.com/shopora/go-shop-backend/internal/app/controller/http/middleware/token"
	"github.com/shopora/go-shop-backend/internal/app/controller/http/orders"
	"github.com/shopora/go-shop-backend/internal/app/controller/http/products"
	"github.com/shopora/go-shop-backend/internal/app/controller/http/shops"
	"github.com/shopora/go-shop-backend/internal/app/controller/http/users"
	"github.com/shopora/go-shop-backend/internal/app/notify"
	storage "github.com/shopora/go-shop-backend/internal/app/storage/api/model"
	"github.com/shopora/go-shop-backend/internal/app/usecase/order"
	"github.com/shopora/go-shop-backend/internal/app/usecase/token"
)

type HTTPServer struct {
	server *http.Server

	config  config.Config
	storage storage.Storage
}

func New(
	config config.Config,
	store storage.Storage,
	coordinator *order.Coordinator,
	tokens *token.Manager,
	mailer *notify.Mailer,
	assetStore assets.Store,
	appCache *cache.Cache,
	registry *prometheus.Registry,
) *HTTPServer {
	userController := users.New(store, tokens, mailer, assetStore, config)
	shopController := shops.New(store, tokens, mailer, assetStore, appCache, config)
	productController := products.New(store, store, store, coordinator, assetStore, appCache)
	eventController := events.New(store, assetStore)
	orderController := orders.New(store, store, coordinator, mailer)

	mux := createMux(tokens, registry, userController, shopController, productController, eventController, orderController)

	server := &http.Server{
		Addr:    config.NetAddr,
		Handler: mux,
	}

	return &HTTPServer{
		server:  server,
		config:  config,
		storage: store,
	}
}

func (s *HTTPServer) StartHTTPServer() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("fatal error while starting server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	zap.L().Info("Got interruption signal. Shutting down HTTP server gracefully...")
	err := s.server.Shutdown(context.Background())
	if err != nil {
		zap.L().Error("error while shutting down server", zap.Error(err))
	}
}

func createMux(
	tokens *token.Manager,
	registry *prometheus.Registry,
	user users.User,
	shop shops.Shop,
	product products.Product,
	event events.Event,
	order orders.Order,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(logger.LoggerMiddleware)
	r.Use(token_middleware.Parser(tokens))

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v2", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", user.Register())
			r.Post("/activation", user.Activate())
			r.Post("/login", user.Login())
			r.Post("/forgot-password", user.ForgotPassword())
			r.Post("/reset-password", user.ResetPassword())
			r.Get("/info/{userID}", user.GetUserInfo())

			r.Group(func(r chi.Router) {
				r.Use(role.RequireAuth)

				r.Get("/", user.GetUser())
				r.Put("/info", user.UpdateInfo())
				r.Put("/avatar", user.UpdateAvatar())
				r.Put("/address", user.UpdateAddress())
				r.Delete("/address/{addressType}", user.DeleteAddress())
				r.Put("/password", user.UpdatePassword())
				r.Post("/logout", user.Logout())
			})
		})

		r.Route("/shop", func(r chi.Router) {
			r.Post("/register", shop.Register())
			r.Post("/activation", shop.Activate())
			r.Post("/login", shop.Login())
			r.Post("/forgot-password", shop.ForgotPassword())
			r.Post("/reset-password", shop.ResetPassword())
			r.Get("/info/{shopID}", shop.GetShopInfo())

			r.Group(func(r chi.Router) {
				r.Use(role.RequireSeller)

				r.Get("/", shop.GetShop())
				r.Put("/info", shop.UpdateInfo())
				r.Put("/avatar", shop.UpdateAvatar())
				r.Put("/withdraw-method", shop.UpdateWithdrawMethod())
				r.Delete("/withdraw-method", shop.DeleteWithdrawMethod())
				r.Post("/logout", shop.Logout())
			})
		})

		r.Route("/product", func(r chi.Router) {
			r.Get("/", product.GetProducts())
			r.Get("/{productID}", product.GetProduct())
			r.Get("/shop/{shopID}", product.GetShopProducts())

			r.Group(func(r chi.Router) {
				r.Use(role.RequireSeller)

				r.Post("/", product.Create())
				r.Put("/{productID}", product.Update())
				r.Delete("/{productID}", product.Delete())
				r.Delete("/{productID}/image/{objectID}", product.DeleteImage())
			})

			r.Group(func(r chi.Router) {
				r.Use(role.RequireAuth)

				r.Post("/{productID}/review", product.CreateReview())
			})
		})

		r.Route("/event", func(r chi.Router) {
			r.Get("/", event.GetEvents())
			r.Get("/shop/{shopID}", event.GetShopEvents())

			r.Group(func(r chi.Router) {
				r.Use(role.RequireSeller)

				r.Post("/", event.Create())
				r.Delete("/{eventID}", event.Delete())
			})
		})

		r.Route("/order", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(role.RequireAuth)

				r.Post("/", order.Create())
				r.Get("/", order.GetUserOrders())
				r.Put("/{orderID}/refund", order.RequestRefund())
			})

			r.Group(func(r chi.Router) {
				r.Use(role.RequireSeller)

				r.Get("/shop", order.GetShopOrders())
				r.Put("/{orderID}/status", order.UpdateStatus())
				r.Put("/{orderID}/refund-accept", order.AcceptRefund())
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(role.RequireAdmin)

			r.Get("/users", user.GetUsers())
			r.Delete("/users/{userID}", user.DeleteUser())
			r.Get("/shops", shop.GetShops())
			r.Delete("/shops/{shopID}", shop.DeleteShop())
			r.Get("/products", product.GetProducts())
			r.Get("/events", event.GetEvents())
			r.Get("/orders", order.GetOrders())
		})
	})

	return r
}
