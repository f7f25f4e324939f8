package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luxilearn/luxilearn-backend/internal/config"
	"github.com/luxilearn/luxilearn-backend/internal/database"
	"github.com/luxilearn/luxilearn-backend/internal/logger"
	"github.com/luxilearn/luxilearn-backend/internal/model"
	"github.com/luxilearn/luxilearn-backend/internal/repository"
	"github.com/luxilearn/luxilearn-backend/internal/service"
)

// seedCourse is one course with its lessons, declared inline.
type seedCourse struct {
	course  model.CreateCourseRequest
	lessons []model.CreateLessonRequest
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	courseRepo := repository.NewCourseRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool)
	catalogService := service.NewCatalogService(courseRepo, lessonRepo, rdb, log)
	courseService := service.NewCourseService(courseRepo, lessonRepo, catalogService, log)

	fmt.Println("=== Seeding Starter Courses ===")

	for _, seed := range starterCourses() {
		course, err := courseService.CreateCourse(ctx, &seed.course)
		if err != nil {
			if errors.Is(err, service.ErrSlugTaken) {
				fmt.Printf("Skipping %s: already exists\n", seed.course.Slug)
				continue
			}
			log.Fatal().Err(err).Str("course", seed.course.Slug).Msg("Failed to create course")
		}

		for i := range seed.lessons {
			if _, err := courseService.CreateLesson(ctx, course.ID, &seed.lessons[i]); err != nil {
				log.Fatal().Err(err).
					Str("course", course.Slug).
					Str("lesson", seed.lessons[i].Slug).
					Msg("Failed to create lesson")
			}
		}

		if _, err := courseService.PublishCourse(ctx, course.ID); err != nil {
			log.Fatal().Err(err).Str("course", course.Slug).Msg("Failed to publish course")
		}

		fmt.Printf("Seeded %s (%d lessons)\n", course.Slug, len(seed.lessons))
	}

	fmt.Println("Done")
}

func starterCourses() []seedCourse {
	return []seedCourse{
		{
			course: model.CreateCourseRequest{
				Slug:        "html-bases",
				Title:       "Les bases du HTML",
				Description: "Structurez vos premières pages web avec les balises essentielles.",
				Level:       "debutant",
			},
			lessons: []model.CreateLessonRequest{
				{
					Slug:     "premiere-page",
					Title:    "Votre première page",
					Content:  "# Votre première page\n\nUne page HTML commence par un titre. La balise `<h1>` définit le titre principal.",
					OrderNum: 1,
					Quizzes: []model.QuizInput{
						{
							Question:      "Quelle balise définit le titre principal d'une page ?",
							Options:       []string{"<title>", "<h1>", "<header>", "<main>"},
							CorrectOption: 1,
							OrderNum:      1,
						},
						{
							Question:      "Comment ferme-t-on une balise <h1> ?",
							Options:       []string{"<h1/>", "</h1>", "<end h1>", "Elle se ferme seule"},
							CorrectOption: 1,
							OrderNum:      2,
						},
					},
					Exercise: &model.ExerciseInput{
						Description:  "Écrivez une page contenant un titre <h1> avec le texte de votre choix.",
						StarterCode:  "<!-- Votre code ici -->\n",
						SolutionCode: "<h1>Bonjour le monde</h1>",
					},
				},
				{
					Slug:     "paragraphes",
					Title:    "Paragraphes et texte",
					Content:  "# Paragraphes\n\nLa balise `<p>` délimite un paragraphe de texte.",
					OrderNum: 2,
					Quizzes: []model.QuizInput{
						{
							Question:      "Quelle balise délimite un paragraphe ?",
							Options:       []string{"<par>", "<text>", "<p>", "<div>"},
							CorrectOption: 2,
							OrderNum:      1,
						},
					},
				},
			},
		},
		{
			course: model.CreateCourseRequest{
				Slug:        "css-premiers-pas",
				Title:       "Premiers pas en CSS",
				Description: "Donnez du style à vos pages avec les sélecteurs et les propriétés CSS.",
				Level:       "debutant",
			},
			lessons: []model.CreateLessonRequest{
				{
					Slug:     "selecteurs",
					Title:    "Les sélecteurs",
					Content:  "# Les sélecteurs\n\nUne règle CSS associe un sélecteur à des propriétés : `h1 { color: blue; }`.",
					OrderNum: 1,
					Quizzes: []model.QuizInput{
						{
							Question:      "Quel caractère ouvre un bloc de déclarations CSS ?",
							Options:       []string{"(", "{", "[", ":"},
							CorrectOption: 1,
							OrderNum:      1,
						},
						{
							Question:      "Quelle propriété change la couleur du texte ?",
							Options:       []string{"background", "font", "color", "text-style"},
							CorrectOption: 2,
							OrderNum:      2,
						},
					},
					Exercise: &model.ExerciseInput{
						Description:  "Écrivez une règle CSS qui colore les titres h1.",
						StarterCode:  "/* Votre code ici */\n",
						SolutionCode: "h1 { color: blue; }",
					},
				},
			},
		},
		{
			course: model.CreateCourseRequest{
				Slug:        "javascript-intro",
				Title:       "Introduction à JavaScript",
				Description: "Découvrez les variables, les types et vos premiers scripts.",
				Level:       "debutant",
			},
			lessons: []model.CreateLessonRequest{
				{
					Slug:     "variables",
					Title:    "Les variables",
					Content:  "# Les variables\n\nOn déclare une variable avec `let` ou `const` : `let age = 12;`.",
					OrderNum: 1,
					Quizzes: []model.QuizInput{
						{
							Question:      "Quel mot-clé déclare une variable modifiable ?",
							Options:       []string{"var only", "let", "static", "define"},
							CorrectOption: 1,
							OrderNum:      1,
						},
						{
							Question:      "Quel mot-clé déclare une constante ?",
							Options:       []string{"const", "fixed", "final", "freeze"},
							CorrectOption: 0,
							OrderNum:      2,
						},
					},
					Exercise: &model.ExerciseInput{
						Description:  "Déclarez une variable initialisée avec la valeur de votre choix.",
						StarterCode:  "// Votre code ici\n",
						SolutionCode: "let age = 12;",
					},
				},
			},
		},
	}
}
