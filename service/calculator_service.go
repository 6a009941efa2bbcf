package service

import (
	"fmt"

	"go.uber.org/zap"

	"propcalc/calculator"
	"propcalc/domain"
)

type CalculatorService struct {
	registry *calculator.Registry
	logger   *zap.Logger
}

func NewCalculatorService(registry *calculator.Registry, logger *zap.Logger) *CalculatorService {
	return &CalculatorService{registry: registry, logger: logger}
}

type Evaluation struct {
	Content  domain.Content
	Values   domain.Values
	Results  []domain.Result
	Warnings []calculator.Warning
}

// List returns the catalogue, optionally narrowed to one category.
func (s *CalculatorService) List(category string) []domain.Content {
	all := s.registry.All()
	if category == "" {
		return all
	}
	out := make([]domain.Content, 0, len(all))
	for _, c := range all {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

func (s *CalculatorService) Categories() []string {
	return s.registry.Categories()
}

func (s *CalculatorService) Get(slug string) (domain.Content, error) {
	c, ok := s.registry.Lookup(slug)
	if !ok {
		return domain.Content{}, fmt.Errorf("%w: calculator %q", ErrNotFound, slug)
	}
	return c, nil
}

// Evaluate coerces raw input for the calculator and runs it.
func (s *CalculatorService) Evaluate(slug string, raw map[string]any) (Evaluation, error) {
	c, err := s.Get(slug)
	if err != nil {
		return Evaluation{}, err
	}

	values, results, warnings, err := calculator.Run(c, raw)
	if err != nil {
		s.logger.Error("calculator returned malformed results", zap.String("slug", slug), zap.Error(err))
		return Evaluation{}, err
	}

	s.logger.Debug("calculator evaluated",
		zap.String("slug", slug),
		zap.Int("results", len(results)),
		zap.Int("warnings", len(warnings)))

	return Evaluation{Content: c, Values: values, Results: results, Warnings: warnings}, nil
}
