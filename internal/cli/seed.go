package cli

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"quizclash-service/internal/config"
	"quizclash-service/internal/domain"
)

// NewSeedCmd loads a starter catalog of subjects, topics and questions.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with a starter question catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			db := openBun(cfg.Postgres.URL)
			defer db.Close()
			return seedCatalog(cmd.Context(), db)
		},
	}
}

type seedTopic struct {
	name      string
	questions []seedQuestion
}

type seedQuestion struct {
	text    string
	options []string
	correct int
}

func seedCatalog(ctx context.Context, db *bun.DB) error {
	catalog := map[string][]seedTopic{
		"Science": {
			{name: "Physics", questions: []seedQuestion{
				{"What force pulls objects toward Earth?", []string{"Magnetism", "Gravity", "Friction", "Inertia"}, 1},
				{"What is the speed of light in vacuum?", []string{"300,000 km/s", "150,000 km/s", "1,000 km/s", "30,000 km/s"}, 0},
				{"Which particle carries a negative charge?", []string{"Proton", "Neutron", "Electron", "Photon"}, 2},
			}},
			{name: "Biology", questions: []seedQuestion{
				{"What is the powerhouse of the cell?", []string{"Nucleus", "Ribosome", "Mitochondria", "Golgi body"}, 2},
				{"How many chambers does a human heart have?", []string{"Two", "Three", "Four", "Five"}, 2},
			}},
		},
		"History": {
			{name: "World Wars", questions: []seedQuestion{
				{"In which year did World War II end?", []string{"1943", "1944", "1945", "1946"}, 2},
				{"Which event triggered World War I?", []string{"Invasion of Poland", "Assassination of Franz Ferdinand", "Pearl Harbor", "Russian Revolution"}, 1},
			}},
			{name: "Ancient Civilizations", questions: []seedQuestion{
				{"Which civilization built the pyramids of Giza?", []string{"Romans", "Greeks", "Egyptians", "Persians"}, 2},
				{"What writing system did ancient Mesopotamia use?", []string{"Hieroglyphs", "Cuneiform", "Latin", "Sanskrit"}, 1},
			}},
		},
		"Geography": {
			{name: "Capitals", questions: []seedQuestion{
				{"What is the capital of Australia?", []string{"Sydney", "Melbourne", "Canberra", "Perth"}, 2},
				{"What is the capital of Canada?", []string{"Toronto", "Ottawa", "Vancouver", "Montreal"}, 1},
			}},
		},
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for subjectName, topics := range catalog {
			subject := domain.Subject{
				Name:     subjectName,
				Slug:     slug.Make(subjectName),
				IsActive: true,
			}
			if _, err := tx.NewInsert().
				Model(&subject).
				On("CONFLICT (slug) DO UPDATE").
				Set("name = EXCLUDED.name").
				Returning("id").
				Exec(ctx); err != nil {
				return fmt.Errorf("seed subject %s: %w", subjectName, err)
			}

			for _, st := range topics {
				topic := domain.Topic{
					Name:      st.name,
					Slug:      slug.Make(st.name),
					SubjectID: subject.ID,
					IsActive:  true,
				}
				if _, err := tx.NewInsert().Model(&topic).Returning("id").Exec(ctx); err != nil {
					return fmt.Errorf("seed topic %s: %w", st.name, err)
				}

				questions := make([]domain.Question, 0, len(st.questions))
				for _, sq := range st.questions {
					questions = append(questions, domain.Question{
						Text:          sq.text,
						TopicID:       topic.ID,
						SubjectID:     subject.ID,
						Options:       sq.options,
						CorrectAnswer: sq.correct,
						Difficulty:    "medium",
					})
				}
				if _, err := tx.NewInsert().Model(&questions).Exec(ctx); err != nil {
					return fmt.Errorf("seed questions for %s: %w", st.name, err)
				}
				if _, err := tx.NewUpdate().
					Model((*domain.Topic)(nil)).
					Set("question_count = ?", len(questions)).
					Where("id = ?", topic.ID).
					Exec(ctx); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
