package main

import (
	"context"
	"fmt"

	"github.com/aptivohq/aptivo-backend/internal/config"
	"github.com/aptivohq/aptivo-backend/internal/database"
	"github.com/aptivohq/aptivo-backend/internal/logger"
	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
	"github.com/aptivohq/aptivo-backend/internal/service"
)

// Seeds a demo exam version with two modules, publishes it and issues a
// handful of tickets, printing the codes and PINs for manual testing.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

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

	sessionRepo := repository.NewAttemptSessionRepository(pool)
	versionRepo := repository.NewExamVersionRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	candidateRepo := repository.NewCandidateRepository(pool)

	authService := service.NewAuthService(cfg, rdb, sessionRepo)
	auditService := service.NewAuditService(rdb)
	examService := service.NewExamService(pool, rdb, versionRepo, auditService)
	ticketService := service.NewTicketService(pool, ticketRepo, candidateRepo, versionRepo, authService, auditService)

	version, err := examService.CreateVersion(ctx, &model.CreateExamVersionRequest{Title: "Demo Aptitude Exam"}, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create exam version")
	}

	modules := []struct {
		title     string
		duration  int
		questions []demoQuestion
	}{
		{
			title:    "Numerical Reasoning",
			duration: 1200,
			questions: []demoQuestion{
				{"What is 17 + 25?", []string{"32", "42", "52", "41"}, 1},
				{"A train covers 120 km in 90 minutes. What is its speed in km/h?", []string{"60", "70", "80", "90"}, 2},
			},
		},
		{
			title:    "Verbal Reasoning",
			duration: 900,
			questions: []demoQuestion{
				{"Which word is closest in meaning to 'concise'?", []string{"Verbose", "Brief", "Vague", "Complex"}, 1},
				{"Complete the analogy: book is to reading as fork is to ...", []string{"Drawing", "Writing", "Eating", "Cooking"}, 2},
			},
		},
	}

	for i, m := range modules {
		module, err := examService.AddModule(ctx, version.ID, &model.AddModuleRequest{
			Title:           m.title,
			Position:        i,
			DurationSeconds: m.duration,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to add module")
		}
		for j, q := range m.questions {
			if _, err := examService.AddQuestion(ctx, version.ID, module.ID, &model.AddQuestionRequest{
				QuestionText:  q.text,
				Position:      j,
				Points:        1,
				Options:       q.options,
				CorrectOption: q.correct,
			}); err != nil {
				log.Fatal().Err(err).Msg("Failed to add question")
			}
		}
	}

	if err := examService.Publish(ctx, version.ID, 0); err != nil {
		log.Fatal().Err(err).Msg("Failed to publish exam version")
	}

	issued, err := ticketService.Issue(ctx, &model.IssueTicketsRequest{
		ExamVersionID: version.ID,
		Candidates: []model.CandidateRequest{
			{FullName: "Demo Candidate One", Email: "demo1@example.com"},
			{FullName: "Demo Candidate Two", Email: "demo2@example.com"},
			{FullName: "Demo Candidate Three", Email: "demo3@example.com"},
		},
	}, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue tickets")
	}

	fmt.Printf("Demo exam version published: %s\n", version.ID)
	for _, t := range issued {
		fmt.Printf("  %-24s code=%s pin=%s\n", t.Candidate.Email, t.Code, t.PIN)
	}
}

type demoQuestion struct {
	text    string
	options []string
	correct int
}
