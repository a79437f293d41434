package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"phonebook/config"
	"phonebook/db"
	"phonebook/handlers"
	"phonebook/logger"
	"phonebook/middleware"
	"phonebook/services"
	"phonebook/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logg, err := logger.New()
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logg.Sync()

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})
	r.Static("/avatars", cfg.AvatarDir)

	api := r.Group("/api")

	if cfg.StoreBackend == "file" {
		// Legacy demo mode: contacts in a JSON file, no accounts, no auth.
		contacts, err := store.NewFileContactStore(cfg.ContactsFile)
		if err != nil {
			logg.Fatalw("open contacts file", "path", cfg.ContactsFile, "error", err)
		}
		registerContactRoutes(api.Group("/contacts"), handlers.NewContactHandler(contacts, logg))
		logg.Infow("running in file-backed demo mode, auth disabled", "file", cfg.ContactsFile)
	} else {
		if cfg.JWTSecret == "" {
			logg.Fatal("JWT_SECRET is not set")
		}

		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			logg.Fatalw("connect to database", "error", err)
		}
		if err := db.ApplySchema(conn, "schema.sql"); err != nil {
			logg.Fatalw("apply schema", "error", err)
		}
		logg.Info("database schema verified")

		users := store.NewPostgresUserStore(conn)
		contacts := store.NewPostgresContactStore(conn)
		secret := []byte(cfg.JWTSecret)

		mailer := services.NewSendGridMailer(cfg.SendgridAPIKey, cfg.MailFrom, cfg.BaseURL, logg)
		avatars := services.NewAvatarService(cfg.AvatarDir, cfg.BaseURL)

		uh := handlers.NewUserHandler(users, mailer, avatars, secret, cfg.TokenTTL, logg)
		ch := handlers.NewContactHandler(contacts, logg)
		authRequired := middleware.AuthRequired(secret, users)

		ug := api.Group("/users")
		{
			ug.POST("/register", uh.Register)
			ug.POST("/login", uh.Login)
			ug.POST("/logout", authRequired, uh.Logout)
			ug.GET("/current", authRequired, uh.Current)
			ug.PATCH("/subscription", authRequired, uh.UpdateSubscription)
			ug.PATCH("/avatars", authRequired, uh.UploadAvatar)
			ug.GET("/verify/:verificationToken", uh.Verify)
			ug.POST("/verify", uh.ResendVerification)
		}

		registerContactRoutes(api.Group("/contacts", authRequired), ch)
	}

	logg.Infow("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logg.Fatalw("server stopped", "error", err)
	}
}

func registerContactRoutes(g *gin.RouterGroup, ch *handlers.ContactHandler) {
	g.GET("", ch.List)
	g.POST("", ch.Create)
	g.GET("/:id", ch.Get)
	g.PUT("/:id", ch.Update)
	g.PATCH("/:id", ch.Update)
	g.DELETE("/:id", ch.Delete)
	g.PATCH("/:id/favorite", ch.SetFavorite)
}
