package router

import (
	"net/http"
	"time"

	_ "dog-kennel/docs"
	"dog-kennel/internal/domain/accounts"
	"dog-kennel/internal/domain/auth"
	"dog-kennel/internal/domain/breeds"
	"dog-kennel/internal/domain/dogs"
	"dog-kennel/internal/domain/notifications"
	"dog-kennel/internal/domain/recovery"
	"dog-kennel/internal/middleware"
	"dog-kennel/internal/platform/logger"
	"dog-kennel/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger

	// Opcional: si viene nil, stores en memoria.
	Repos *Repositories

	// Opcional: si viene nil, los mensajes se encolan en el outbox de Repos.Notifications
	// y los entrega el dispatcher.
	Notifier notify.Notifier

	TokenSecret []byte
	SessionTTL  time.Duration
	BcryptCost  int

	RevokeSessionsOnReset bool

	// Límite por IP sobre /auth/*. RateLimit <= 0 lo deshabilita.
	RateLimit float64
	RateBurst int

	// TrustProxy monta chimw.RealIP: la IP del cliente sale de X-Forwarded-For/X-Real-IP.
	// Apagado, el rate limit usa la dirección del socket.
	TrustProxy bool

	// Vacío deshabilita las rutas de administración.
	AdminToken string

	Cookies middleware.CookieOptions
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	repos := opts.Repos
	if repos == nil {
		repos = MemoryRepositories()
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(repos.Notifications)
	}

	// Services por módulo
	accountsSvc := accounts.NewService(repos.Accounts, accounts.NewHasher(opts.BcryptCost))
	authSvc, err := auth.NewService(accountsSvc, repos.Sessions, notifier, log, auth.Options{
		Secret:     opts.TokenSecret,
		SessionTTL: opts.SessionTTL,
	})
	if err != nil {
		return nil, err
	}
	recoverySvc := recovery.NewService(accountsSvc, notifier, authSvc, log, recovery.Options{
		RevokeSessions: opts.RevokeSessionsOnReset,
	})

	dogsSvc := dogs.NewService(repos.Dogs, breeds.NewLookup(repos.Breeds))
	breedsSvc := breeds.NewService(repos.Breeds, dogsSvc)

	cookieOpts := opts.Cookies
	if len(cookieOpts.Keys) == 0 {
		cookieOpts.Keys = [][]byte{opts.TokenSecret}
	}
	if cookieOpts.MaxAge == 0 {
		ttl := opts.SessionTTL
		if ttl <= 0 {
			ttl = auth.DefaultSessionTTL
		}
		cookieOpts.MaxAge = int(ttl.Seconds())
	}
	cookies := middleware.NewSessionCookies(cookieOpts)
	limiter := middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.AccessLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(authSvc, cookies))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	r.Route("/auth", func(ar chi.Router) {
		ar.Use(limiter.Middleware)
		auth.RegisterRoutes(ar, authSvc, cookies)
		recovery.RegisterRoutes(ar, recoverySvc)
	})
	accounts.RegisterRoutes(r, accountsSvc, dogsSvc, opts.AdminToken)
	dogs.RegisterRoutes(r, dogsSvc)
	breeds.RegisterRoutes(r, breedsSvc, opts.AdminToken)

	return r, nil
}
