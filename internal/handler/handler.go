package handler

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"golang.org/x/crypto/bcrypt"

	"github.com/kopimi-kafe/backend/internal/chat"
	"github.com/kopimi-kafe/backend/internal/config"
	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/hours"
	"github.com/kopimi-kafe/backend/internal/metrics"
	"github.com/kopimi-kafe/backend/internal/notify"
	"github.com/kopimi-kafe/backend/internal/store"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	store      *store.Store
	translator ut.Translator
	notifier   notify.Notifier
	chat       chat.Generator
	status     *hours.Ticker
	limiter    *ipRateLimiter
	location   *time.Location
	adminHash  []byte
	jwtSecret  []byte
	now        func() time.Time

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, st *store.Store, notifier notify.Notifier, gen chat.Generator, ticker *hours.Ticker) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := registerClockValidation(validate, trans); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var adminHash []byte
	switch {
	case cfg.Admin.PasswordHash != "":
		adminHash = []byte(cfg.Admin.PasswordHash)
	case cfg.Admin.Password != "":
		adminHash, err = bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
	}

	jwtSecret := []byte(cfg.Admin.JWTSecret)
	if len(jwtSecret) == 0 {
		// sessions will not survive a restart
		jwtSecret = make([]byte, 32)
		if _, err := rand.Read(jwtSecret); err != nil {
			return nil, err
		}
		slog.Warn("ADMIN_JWT_SECRET is not set, using a random secret")
	}

	if ticker == nil {
		ticker = hours.NewTicker(func() *domain.OperatingHours {
			return store.Get(st, store.Settings).OperatingHours
		}, loc, time.Duration(cfg.Shop.StatusInterval)*time.Second)
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		store:      st,
		translator: trans,
		notifier:   notifier,
		chat:       gen,
		status:     ticker,
		limiter:    newIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		location:   loc,
		adminHash:  adminHash,
		jwtSecret:  jwtSecret,
		now:        time.Now,

		Mux: chi.NewRouter(),
	}, nil
}

func registerClockValidation(validate *validator.Validate, trans ut.Translator) error {
	if err := validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return hours.ValidateClock(fl.Field().String()) == nil
	}); err != nil {
		return err
	}

	return validate.RegisterTranslation("clock", trans, func(ut ut.Translator) error {
		return ut.Add("clock", "{0} must be a time in HH:MM format", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("clock", fe.Field())
		return t
	})
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Method(http.MethodGet, "/metrics", metrics.Handler())

	// the whole snapshot, read by clients on start-up and written back by the admin
	h.Mux.Route("/api/database", func(r chi.Router) {
		r.Get("/", h.GetDatabase)
		r.With(h.adminOnly).Post("/", h.SaveDatabase)
	})

	// public site
	h.Mux.Get("/status", h.GetStatus)
	h.Mux.Get("/settings", h.GetSettings)
	h.Mux.Get("/menu", h.GetMenu)
	h.Mux.Get("/categories", h.GetCategories)
	h.Mux.Get("/promotions", h.GetPromotions)
	h.Mux.Get("/gallery", h.GetGallery)
	h.Mux.Get("/jobs", h.GetActiveJobs)
	h.Mux.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.GetReviews)
		r.With(h.rateLimit).Post("/", h.CreateReview)
	})
	h.Mux.Route("/baristas", func(r chi.Router) {
		r.Get("/", h.GetBaristas)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.barista)
			r.Get("/", h.GetBarista)
			r.With(h.rateLimit).Post("/messages", h.SendCustomerMessage)
			r.With(h.rateLimit).Post("/chat", h.ChatWithBarista)
		})
	})
	h.Mux.With(h.rateLimit).Post("/leave-requests", h.CreateLeaveRequest)
	h.Mux.Get("/schedules/today/{baristaID}", h.GetTodayShift)

	// loyalty members
	h.Mux.Route("/members", func(r chi.Router) {
		r.With(h.rateLimit).Post("/register", h.RegisterMember)
		r.With(h.rateLimit).Post("/login", h.MemberLogin)
		r.Post("/logout", h.MemberLogout)
		r.Route("/me", func(r chi.Router) {
			r.Use(h.memberOnly)
			r.Get("/", h.GetMyMembership)
			r.Post("/purchases", h.RecordPurchase)
			r.Post("/redeem", h.RedeemReward)
		})
	})

	// the admin session is required for everything below except login
	h.Mux.Route("/admin", func(r chi.Router) {
		r.With(h.rateLimit).Post("/login", h.AdminLogin)
		r.Post("/logout", h.AdminLogout)

		r.Group(func(r chi.Router) {
			r.Use(h.adminOnly)

			r.Route("/menu", func(r chi.Router) {
				r.Post("/", h.CreateMenuItem)
				r.Put("/{id}", h.UpdateMenuItem)
				r.Delete("/{id}", h.DeleteMenuItem)
			})
			r.Route("/categories", func(r chi.Router) {
				r.Post("/", h.CreateCategory)
				r.Put("/{name}", h.RenameCategory)
				r.Delete("/{name}", h.DeleteCategory)
			})
			r.Route("/promotions", func(r chi.Router) {
				r.Post("/", h.CreatePromotion)
				r.Put("/{id}", h.UpdatePromotion)
				r.Delete("/{id}", h.DeletePromotion)
			})
			r.Route("/reviews/{id}", func(r chi.Router) {
				r.Put("/reply", h.ReplyToReview)
				r.Delete("/", h.DeleteReview)
			})
			r.Route("/baristas", func(r chi.Router) {
				r.Post("/", h.CreateBarista)
				r.Put("/{id}", h.UpdateBarista)
				r.Delete("/{id}", h.DeleteBarista)
			})
			r.Route("/gallery", func(r chi.Router) {
				r.Post("/", h.CreateGalleryImage)
				r.Put("/{id}", h.UpdateGalleryImage)
				r.Delete("/{id}", h.DeleteGalleryImage)
			})
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", h.GetAllJobs)
				r.Post("/", h.CreateJob)
				r.Put("/{id}", h.UpdateJob)
				r.Delete("/{id}", h.DeleteJob)
			})
			r.Route("/messages", func(r chi.Router) {
				r.Get("/", h.GetCustomerMessages)
				r.Patch("/{id}/read", h.MarkMessageRead)
				r.Delete("/{id}", h.DeleteCustomerMessage)
			})
			r.Route("/settings", func(r chi.Router) {
				r.Get("/", h.GetSettings)
				r.Put("/", h.UpdateSettings)
				r.Put("/hours", h.UpdateOperatingHours)
			})
			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", h.GetWeekSchedule)
				r.Put("/", h.SetShift)
				r.Post("/generate", h.GenerateSchedule)
				r.Get("/export", h.ExportSchedule)
			})
			r.Route("/leave-requests", func(r chi.Router) {
				r.Get("/", h.GetLeaveRequests)
				r.Patch("/{id}", h.DecideLeaveRequest)
			})
			r.Route("/members", func(r chi.Router) {
				r.Get("/", h.GetMembers)
				r.Post("/{id}/points", h.AdjustMemberPoints)
			})
		})
	})
}
