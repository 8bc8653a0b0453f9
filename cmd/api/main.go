package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"fieldbook/internal/database"
	"fieldbook/internal/middleware"
	"fieldbook/internal/modules/annotation"
	"fieldbook/internal/modules/auth"
	"fieldbook/internal/modules/diary"
	"fieldbook/internal/modules/photo"
	"fieldbook/internal/modules/project"
	jwtsvc "fieldbook/internal/pkg/jwt"
	"fieldbook/internal/pkg/response"
	"fieldbook/internal/pkg/toast"
	"fieldbook/internal/projectstore"
	"fieldbook/internal/repository"
)

// toastNotifier adapts the toast queue to the projectstore notifier.
type toastNotifier struct {
	queue *toast.Queue
}

func (n toastNotifier) Push(kind, message string) {
	n.queue.Push(toast.Kind(kind), message)
}

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "file:fieldbook.db?cache=shared"
		log.Println("DATABASE_URL is empty, falling back to", dsn)
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	uploadDir := os.Getenv("UPLOAD_DIR")

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)
	annotationRepo := repository.NewAnnotationRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	toasts := toast.NewQueue(toast.DefaultTTL)
	defer toasts.Close()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	projectService := project.NewService(projectRepo)
	store := projectstore.NewManager(projectService, projectstore.Options{
		Notifier: toastNotifier{queue: toasts},
	})
	projectHandler := project.NewHandler(store, projectService)

	photoService := photo.NewService(photoRepo, uploadDir, photo.StaticURLBase)
	photoHandler := photo.NewHandler(photoService, projectService)

	diaryService := diary.NewService(diaryRepo)
	diaryHandler := diary.NewHandler(diaryService, projectService)

	hub := annotation.NewHub()
	annotationService := annotation.NewService(annotationRepo, hub)
	annotationHandler := annotation.NewHandler(annotationService, hub, j)

	r := gin.Default()
	r.Use(middleware.CORS(), middleware.ErrorLogger())

	staticDir := uploadDir
	if staticDir == "" {
		staticDir = photo.UploadsBaseDir
	}
	r.Static(photo.StaticURLBase, staticDir)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		annotationHandler.RegisterWSRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			projectHandler.RegisterRoutes(protected)
			photoHandler.RegisterRoutes(protected)
			diaryHandler.RegisterRoutes(protected)
			annotationHandler.RegisterRoutes(protected)

			protected.GET("/toasts", func(c *gin.Context) {
				response.Success(c, http.StatusOK, gin.H{"toasts": toasts.Active()})
			})
		}
	}

	log.Println("listening on :" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
