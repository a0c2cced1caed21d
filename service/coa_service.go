package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homebuilder-proforma/domain"
	"homebuilder-proforma/logger"
	"homebuilder-proforma/repository"
)

type COAService struct {
	catalog  *repository.TemplateCatalog
	accounts repository.AccountRepository
}

// NewCOAService creates a COAService. accounts may be nil, in which case
// persisting generated accounts is rejected.
func NewCOAService(catalog *repository.TemplateCatalog, accounts repository.AccountRepository) *COAService {
	return &COAService{catalog: catalog, accounts: accounts}
}

func (s *COAService) Templates() []domain.COATemplate {
	return s.catalog.All()
}

func (s *COAService) Classify(entityType string) domain.ClassificationResult {
	return domain.ClassificationResult{
		EntityType:  entityType,
		Normalized:  NormalizeEntityType(entityType),
		TemplateKey: ClassifyEntityType(entityType),
	}
}

// Generate populates a chart of accounts for an entity. The template is
// taken from TemplateKey, or classified from EntityType when the key is
// empty.
func (s *COAService) Generate(ctx context.Context, input domain.COAGenerateInput) (domain.COAGenerateResult, error) {
	entityID := strings.TrimSpace(input.EntityID)
	if entityID == "" {
		return domain.COAGenerateResult{}, invalidf("entity id is required")
	}

	key := input.TemplateKey
	if key == "" {
		if strings.TrimSpace(input.EntityType) == "" {
			return domain.COAGenerateResult{}, invalidf("template key or entity type is required")
		}
		key = ClassifyEntityType(input.EntityType)
	}

	template, err := s.catalog.Get(key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.COAGenerateResult{}, invalidf("unknown template %q", key)
		}
		return domain.COAGenerateResult{}, err
	}
	if err := ValidateTemplate(template); err != nil {
		return domain.COAGenerateResult{}, err
	}

	vars, err := cleanVariables(input.Variables)
	if err != nil {
		return domain.COAGenerateResult{}, err
	}

	accounts := PopulateTemplate(template, entityID, vars)
	result := domain.COAGenerateResult{TemplateKey: key, Accounts: accounts}

	log := logger.FromContext(ctx)
	if unresolved := unresolvedPlaceholders(template, vars); len(unresolved) > 0 {
		log.Info("Template placeholders left unresolved", "template", key, "placeholders", unresolved)
	}

	if input.Persist {
		if s.accounts == nil {
			return domain.COAGenerateResult{}, errors.New("account persistence is not configured")
		}
		if err := s.accounts.InsertAccounts(ctx, accounts); err != nil {
			return domain.COAGenerateResult{}, fmt.Errorf("persist accounts for %s: %w", entityID, err)
		}
		result.Persisted = true
		log.Info("Chart of accounts created", "entityID", entityID, "template", key, "accounts", len(accounts))
	}
	return result, nil
}

func (s *COAService) ListAccounts(ctx context.Context, entityID string) ([]domain.Account, error) {
	if s.accounts == nil {
		return []domain.Account{}, nil
	}
	return s.accounts.ListAccounts(ctx, entityID)
}

func cleanVariables(vars map[string]string) (map[string]string, error) {
	if len(vars) > MaxTemplateVariables {
		return nil, invalidf("too many variables, the maximum is %d", MaxTemplateVariables)
	}
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		if !variableKeyPattern.MatchString(k) {
			return nil, invalidf("variable name %q must contain only letters, digits and underscores", k)
		}
		if len(v) > MaxVariableLength {
			return nil, invalidf("variable %s exceeds %d characters", k, MaxVariableLength)
		}
		out[k] = sanitizeVariable(v)
	}
	return out, nil
}

func unresolvedPlaceholders(t domain.COATemplate, vars map[string]string) []string {
	var missing []string
	for _, name := range Placeholders(t) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
