package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cafesol/cafeapp/api/controllers"
	"github.com/cafesol/cafeapp/api/middleware"
	"github.com/cafesol/cafeapp/internal/admin"
	"github.com/cafesol/cafeapp/internal/catalog"
	"github.com/cafesol/cafeapp/internal/session"
	"github.com/cafesol/cafeapp/pkg/config"
	"github.com/cafesol/cafeapp/pkg/logger"
	"github.com/cafesol/cafeapp/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessions *session.Manager,
	loader *catalog.Loader,
	productEditor *admin.ProductEditor,
	comboEditor *admin.ComboEditor,
	optionGroupEditor *admin.OptionGroupEditor,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(redisClient, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	cookieOpts := middleware.SessionCookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(sessions, cookieOpts, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/catalog", controllers.CatalogList(loader, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(logg))
			r.Delete("/", controllers.CartClear(logg))
			r.Post("/items", controllers.CartAddItem(loader, logg))
			r.Route("/lines/{lineID}", func(r chi.Router) {
				r.Delete("/", controllers.CartRemoveLine(logg))
				r.Post("/increment", controllers.CartIncrementLine(logg))
				r.Post("/decrement", controllers.CartDecrementLine(logg))
			})
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutStatus(logg))
			r.Post("/start", controllers.CheckoutStart(logg))
			r.Post("/address", controllers.CheckoutAddress(logg))
			r.Post("/pay", controllers.CheckoutPay(logg))
			r.Post("/confirm", controllers.CheckoutConfirm(logg))
			r.Post("/reset", controllers.CheckoutReset(logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.Admin.Token, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(productEditor, logg))
			r.Post("/", controllers.AdminProductCreate(productEditor, logg))
			r.Put("/{productID}", controllers.AdminProductUpdate(productEditor, logg))
			r.Delete("/{productID}", controllers.AdminProductDelete(productEditor, logg))
		})

		r.Route("/combos", func(r chi.Router) {
			r.Get("/", controllers.AdminComboList(comboEditor, logg))
			r.Post("/", controllers.AdminComboCreate(comboEditor, logg))
			r.Put("/{comboID}", controllers.AdminComboUpdate(comboEditor, logg))
			r.Post("/{comboID}/deactivate", controllers.AdminComboDeactivate(comboEditor, logg))
		})

		r.Route("/option-groups", func(r chi.Router) {
			r.Get("/", controllers.AdminOptionGroupList(optionGroupEditor, logg))
			r.Post("/", controllers.AdminOptionGroupCreate(optionGroupEditor, logg))
			r.Put("/{groupID}", controllers.AdminOptionGroupUpdate(optionGroupEditor, logg))
			r.Delete("/{groupID}", controllers.AdminOptionGroupDelete(optionGroupEditor, logg))
		})
	})

	return r
}
