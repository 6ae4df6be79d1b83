package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/canvasshq/canvass-backend/internal/catalog"
	"github.com/canvasshq/canvass-backend/internal/config"
	"github.com/canvasshq/canvass-backend/internal/database"
	"github.com/canvasshq/canvass-backend/internal/logger"
	"github.com/canvasshq/canvass-backend/internal/model"
	"github.com/canvasshq/canvass-backend/internal/repository"
	"github.com/canvasshq/canvass-backend/internal/survey"
)

var (
	sources  = []string{"direct", "instagram.com", "facebook.com", "t.co", "reddit.com"}
	devices  = []string{"mobile", "mobile", "mobile", "desktop", "tablet"}
	browsers = []string{"Chrome", "Chrome", "Safari", "Firefox", "Edge"}
	systems  = []string{"Android", "iOS", "Windows", "macOS", "Linux"}
	texts    = []string{
		"Fewer delays on my line",
		"More frequent trains in the evening",
		"Cheaper monthly passes",
		"Real-time info that is actually accurate",
		"Air conditioning that works in summer",
	}
	customApps = []string{"transit radar", "commute buddy", "local operator beta"}
)

func main() {
	count := flag.Int("count", 50, "Number of submissions to generate")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	submissionRepo := repository.NewSubmissionRepository(pool)
	questions := catalog.Questions()

	fmt.Printf("=== Seeding %d Submissions ===\n", *count)

	completed, partial := 0, 0
	for i := 0; i < *count; i++ {
		metadata := model.SubmissionMetadata{
			Source:  pick(sources),
			Device:  pick(devices),
			Browser: pick(browsers),
			OS:      pick(systems),
			Country: "IT",
			City:    pick(catalog.Cities),
		}

		id, err := submissionRepo.CreatePartial(ctx, model.AnswerMap{}, metadata)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create submission")
		}

		// Answer questions in order, dropping out early about a third
		// of the time so the funnel has realistic attrition.
		answers := model.AnswerMap{}
		droppedOut := false
		for _, q := range questions {
			if q.IsBookend() {
				continue
			}
			if q.Condition != nil && !q.Condition.Matches(answers) {
				continue
			}
			if rand.Float64() < 0.06 {
				droppedOut = true
				break
			}
			answers[q.ID] = answerFor(q)
		}

		if droppedOut {
			if err := submissionRepo.UpdateAnswers(ctx, id, answers); err != nil {
				log.Fatal().Err(err).Msg("Failed to update answers")
			}
			partial++
			continue
		}

		duration := 90 + rand.Intn(240)
		if err := submissionRepo.Finalize(ctx, id, survey.NormalizeAnswers(answers), duration); err != nil {
			log.Fatal().Err(err).Msg("Failed to finalize submission")
		}
		completed++
	}

	fmt.Printf("Done: %d completed, %d partial\n", completed, partial)
}

func answerFor(q model.Question) any {
	switch q.Type {
	case model.QuestionTypeCheckbox:
		keys := q.Options.Keys()
		n := 1 + rand.Intn(2)
		picked := make([]string, 0, n)
		for _, k := range rand.Perm(len(keys))[:n] {
			key := keys[k]
			if key == model.OtherKey {
				picked = append(picked, pick(customApps))
				continue
			}
			picked = append(picked, key)
		}
		return picked
	case model.QuestionTypeRanking:
		return survey.RandomRanking(q)
	case model.QuestionTypeTextarea, model.QuestionTypeText:
		return pick(texts)
	case model.QuestionTypeAutocomplete:
		if q.Options.Kind == model.OptionsList {
			return pick(q.Options.List)
		}
		return pick(catalog.Cities)
	default:
		keys := q.Options.Keys()
		if len(keys) == 0 {
			return pick(texts)
		}
		key := pick(keys)
		if key == model.OtherKey {
			return pick(customApps)
		}
		return key
	}
}

func pick(list []string) string {
	return list[rand.Intn(len(list))]
}
