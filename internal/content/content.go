// Package content serves the seeded reference texts: motivation, daily tips,
// FAQ entries and coach answers. It also records questions asked by users.
package content

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/jonboulle/clockwork"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/quiterx/selfrealization-bot/internal/logger"
	"github.com/quiterx/selfrealization-bot/internal/models"
	"github.com/quiterx/selfrealization-bot/internal/storage"
)

//go:embed seed.yaml
var seedYAML []byte

// Fallbacks used when the table holds nothing of the requested kind.
const (
	DefaultMotivation   = "Ты молодец! Продолжай в том же духе! 💪"
	DefaultNutritionTip = "Пейте больше воды и ешьте больше овощей! 🥗"
	DefaultFitnessTip   = "Регулярные тренировки - залог успеха! 💪"
	GenericCoachAnswer  = "Спасибо за вопрос! Я рекомендую:\n" +
		"1. Следовать принципам правильного питания\n" +
		"2. Регулярно тренироваться\n" +
		"3. Отслеживать свой прогресс\n" +
		"4. Не забывать про мотивацию\n" +
		"5. Консультироваться с профессионалами"
)

var ErrUnknownFAQ = errors.New("unknown faq entry")

type seedFile struct {
	Motivation []models.ReferenceContent `yaml:"motivation"`
	Tips       []models.ReferenceContent `yaml:"tips"`
	FAQ        []models.ReferenceContent `yaml:"faq"`
	Coach      []models.ReferenceContent `yaml:"coach"`
}

// Items decodes the embedded seed file.
func Items() ([]models.ReferenceContent, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	var items []models.ReferenceContent
	add := func(kind models.ContentKind, list []models.ReferenceContent) {
		for _, it := range list {
			it.Kind = kind
			if it.Category == "" {
				it.Category = "general"
			}
			items = append(items, it)
		}
	}
	add(models.ContentMotivation, f.Motivation)
	add(models.ContentTip, f.Tips)
	add(models.ContentFAQ, f.FAQ)
	add(models.ContentCoach, f.Coach)
	return items, nil
}

type Store interface {
	SeedContent(ctx context.Context, items []models.ReferenceContent) (int, error)
	RandomContent(ctx context.Context, kind models.ContentKind, category string) (*models.ReferenceContent, error)
	ListContent(ctx context.Context, kind models.ContentKind) ([]models.ReferenceContent, error)
	GetContent(ctx context.Context, id int64, kind models.ContentKind) (*models.ReferenceContent, error)
	InsertUserQuestion(ctx context.Context, accountID int64, text string, createdAt int64) error
}

type Library struct {
	store Store
	clock clockwork.Clock
	coin  func() bool
}

func New(store Store, clock clockwork.Clock) *Library {
	return &Library{
		store: store,
		clock: clock,
		coin:  func() bool { return rand.IntN(2) == 0 },
	}
}

// Seed fills an empty content table from the embedded file.
func (l *Library) Seed(ctx context.Context) error {
	items, err := Items()
	if err != nil {
		return err
	}
	n, err := l.store.SeedContent(ctx, items)
	if err != nil {
		return fmt.Errorf("seed content: %w", err)
	}
	if n > 0 {
		logger.Info("reference content seeded", "rows", n)
	}
	return nil
}

func (l *Library) random(ctx context.Context, kind models.ContentKind, category, fallback string) (string, error) {
	c, err := l.store.RandomContent(ctx, kind, category)
	if errors.Is(err, storage.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("random %s: %w", kind, err)
	}
	return c.Text, nil
}

func (l *Library) RandomMotivation(ctx context.Context) (string, error) {
	return l.random(ctx, models.ContentMotivation, "general", DefaultMotivation)
}

// RandomTip picks a nutrition or a fitness tip with equal chance.
func (l *Library) RandomTip(ctx context.Context) (string, error) {
	if l.coin() {
		return l.random(ctx, models.ContentTip, "nutrition", DefaultNutritionTip)
	}
	return l.random(ctx, models.ContentTip, "fitness", DefaultFitnessTip)
}

func (l *Library) FAQList(ctx context.Context) ([]models.ReferenceContent, error) {
	list, err := l.store.ListContent(ctx, models.ContentFAQ)
	if err != nil {
		return nil, fmt.Errorf("faq list: %w", err)
	}
	return list, nil
}

func (l *Library) FAQAnswer(ctx context.Context, id int64) (*models.ReferenceContent, error) {
	c, err := l.store.GetContent(ctx, id, models.ContentFAQ)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnknownFAQ
	}
	if err != nil {
		return nil, fmt.Errorf("faq answer: %w", err)
	}
	return c, nil
}

// AskCoach stores the question and answers it: an exact (case-folded) match
// on a known question first, then a known question containing the text,
// else GenericCoachAnswer.
func (l *Library) AskCoach(ctx context.Context, accountID int64, question string) (string, error) {
	question = strings.TrimSpace(question)
	if err := l.store.InsertUserQuestion(ctx, accountID, question, l.clock.Now().Unix()); err != nil {
		return "", fmt.Errorf("save question: %w", err)
	}

	list, err := l.store.ListContent(ctx, models.ContentCoach)
	if err != nil {
		return "", fmt.Errorf("coach answers: %w", err)
	}

	// Casers keep state, so each call folds with its own.
	fold := cases.Fold()
	q := fold.String(question)
	if q == "" {
		return GenericCoachAnswer, nil
	}
	var similar []string
	for _, c := range list {
		known := fold.String(c.Question)
		if known == q {
			return c.Text, nil
		}
		if strings.Contains(known, q) {
			similar = append(similar, c.Text)
		}
	}
	if len(similar) > 0 {
		return similar[rand.IntN(len(similar))], nil
	}
	return GenericCoachAnswer, nil
}
