package api

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/voyago/voyago-server/events"
	"github.com/voyago/voyago-server/service/booking"
	"github.com/voyago/voyago-server/service/catalog"
	"github.com/voyago/voyago-server/service/debug"
	"github.com/voyago/voyago-server/service/feed"
	"github.com/voyago/voyago-server/service/follower"
	"github.com/voyago/voyago-server/service/user"
	"gorm.io/gorm"
)

type APIServer struct {
	address string
	db      *gorm.DB
	pub     *events.Publisher
}

func NewApiServer(address string, db *gorm.DB, pub *events.Publisher) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
		pub:     pub,
	}
}

func (s *APIServer) Router() *mux.Router {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api").Subrouter()

	userHandler := user.NewHandler(s.db)
	userHandler.RegisterRoutes(subrouter)

	followerHandler := follower.NewHandler(s.db, s.pub)
	followerHandler.RegisterRoutes(subrouter)

	feedHandler := feed.NewPostHandler(s.db, feed.NewCacheFromEnv(), s.pub)
	feedHandler.RegisterRoutes(subrouter)

	catalogHandler := catalog.NewHandler(s.db)
	catalogHandler.RegisterRoutes(subrouter)

	bookingHandler := booking.NewBookingHandler(s.db, s.pub)
	bookingHandler.RegisterRoutes(subrouter)

	// Introspection endpoints never ship in a production build.
	if os.Getenv("APP_ENV") != "production" {
		debugHandler := debug.NewHandler(s.db)
		debugHandler.RegisterRoutes(subrouter)
	}

	return router
}

func (s *APIServer) Run() error {
	router := s.Router()

	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "*"
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{origin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, handlers.LoggingHandler(os.Stdout, cors(router)))
}
