package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fieldbook/internal/database"
	"fieldbook/internal/domain"
	"fieldbook/internal/modules/annotation"
	"fieldbook/internal/modules/auth"
	"fieldbook/internal/modules/diary"
	"fieldbook/internal/modules/project"
	"fieldbook/internal/repository"
)

// noopJWT satisfies the auth service; the seeder never hands out tokens.
type noopJWT struct{}

func (noopJWT) GenerateToken(userID, role string) (string, error) { return "", nil }

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "file:fieldbook.db?cache=shared"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM annotations")
	db.Exec("DELETE FROM diary_entries")
	db.Exec("DELETE FROM photos")
	db.Exec("DELETE FROM projects")
	db.Exec("DELETE FROM users")

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)
	annotationRepo := repository.NewAnnotationRepository(db)

	authService := auth.NewService(userRepo, noopJWT{})
	projectService := project.NewService(projectRepo)
	diaryService := diary.NewService(diaryRepo)
	annotationService := annotation.NewService(annotationRepo, nil)

	log.Println("Creating users...")
	surveyor, _, err := authService.Register(ctx, auth.RegisterRequest{
		Name:         "Mei Tan",
		Email:        "mei@fieldbook.example",
		Password:     "surveyor123",
		Role:         "surveyor",
		Organisation: "Tan & Partners Surveying",
	})
	if err != nil {
		log.Fatal("seed surveyor failed:", err)
	}
	supervisor, _, err := authService.Register(ctx, auth.RegisterRequest{
		Name:     "Rob Calder",
		Email:    "rob@fieldbook.example",
		Password: "supervisor123",
		Role:     "supervisor",
	})
	if err != nil {
		log.Fatal("seed supervisor failed:", err)
	}
	log.Println("Users created: mei@fieldbook.example / surveyor123, rob@fieldbook.example / supervisor123")

	log.Println("Creating projects...")
	start := time.Now().AddDate(0, 0, -14)
	due := time.Now().AddDate(0, 1, 0)
	titles := []string{"Ridgeline subdivision", "Harbour easement survey", "Quarry boundary re-peg"}
	var projects []*domain.Project
	for _, title := range titles {
		p, err := projectService.Create(ctx, domain.Project{
			Title:     title,
			Location:  "Tasman district",
			OwnerID:   surveyor.ID,
			StartDate: &start,
			DueDate:   &due,
		})
		if err != nil {
			log.Fatal("seed project failed:", err)
		}
		projects = append(projects, p)
	}

	fieldwork := domain.PhaseFieldwork
	if _, err := projectService.Update(ctx, projects[0].ID, domain.ProjectUpdate{Phase: &fieldwork}); err != nil {
		log.Fatal("seed phase update failed:", err)
	}
	if _, err := projectService.RequestSupervision(ctx, projects[0].ID, supervisor.ID); err != nil {
		log.Fatal("seed supervision failed:", err)
	}

	log.Println("Creating diary entries...")
	if _, err := diaryService.Create(ctx, projects[0].ID, surveyor.ID, diary.CreateEntryRequest{
		Title:    "Day 1 — traverse legs 1-4",
		Body:     "Set out from PM 112. Light wind, good visibility.",
		Bearings: []string{`120°15'30.6"`, `N 45°00'00" E`, `359°59'59.9"`},
	}); err != nil {
		log.Fatal("seed diary entry failed:", err)
	}

	log.Println("Creating annotations...")
	if _, err := annotationService.Create(ctx, "plan-"+projects[0].ID, surveyor.ID, annotation.CreateAnnotationRequest{
		Page: 1,
		Kind: domain.AnnotationRectangle,
		Bounds: &domain.PDFRect{
			X: 120, Y: 340, Width: 90, Height: 60,
		},
		Style: domain.AnnotationStyle{StrokeColor: "#d93025", StrokeWidth: 2, StrokeOpacity: 1},
		Title: "Check fence offset here",
	}); err != nil {
		log.Fatal("seed annotation failed:", err)
	}

	log.Println("Seed complete.")
}
