package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"homebuilder-proforma/domain"
)

// Template keys produced by ClassifyEntityType.
const (
	TemplateHoldingCompany  = "holding_company"
	TemplateLandDevelopment = "land_development"
	TemplateProjectSPV      = "project_spv"
	TemplateRentalProperty  = "rental_property"
	TemplateHomebuilder     = "homebuilder"
	TemplateGeneralBusiness = "general_business"
)

var (
	placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)
	variableKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	delimiterRun       = regexp.MustCompile(`[\s\-_/.,&()]+`)
)

// SubstituteVariables replaces each {{TOKEN}} that has an entry in vars.
// It makes a single pass, so substituted values are never rescanned, and
// tokens without an entry are left as they are.
func SubstituteVariables(text string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[2 : len(token)-2]
		if v, ok := vars[name]; ok {
			return v
		}
		return token
	})
}

// Placeholders lists the distinct tokens referenced by a template, sorted.
func Placeholders(t domain.COATemplate) []string {
	seen := map[string]bool{}
	for _, item := range t.LineItems {
		for _, m := range placeholderPattern.FindAllStringSubmatch(item.Name, -1) {
			seen[m[1]] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// PopulateTemplate turns template line items into accounts for entityID.
// Parents are resolved by account number and placed before their
// children; within a level the template order is kept.
func PopulateTemplate(t domain.COATemplate, entityID string, vars map[string]string) []domain.Account {
	accounts := make([]domain.Account, len(t.LineItems))
	byNumber := make(map[string]int, len(t.LineItems))
	for i, item := range t.LineItems {
		accounts[i] = domain.Account{
			ID:                  uuid.New(),
			EntityID:            entityID,
			AccountNumber:       item.AccountNumber,
			Name:                SubstituteVariables(item.Name, vars),
			Type:                item.Type,
			ParentAccountNumber: item.ParentAccountNumber,
			IsHeader:            item.IsHeader,
			SortOrder:           item.SortOrder,
			IsActive:            true,
		}
		byNumber[item.AccountNumber] = i
	}

	for i := range accounts {
		if p, ok := byNumber[accounts[i].ParentAccountNumber]; ok && p != i {
			id := accounts[p].ID
			accounts[i].ParentID = &id
		}
		accounts[i].Level = accountLevel(accounts, byNumber, i)
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Level < accounts[j].Level
	})
	return accounts
}

// accountLevel walks up the parent chain. A cycle stops the walk.
func accountLevel(accounts []domain.Account, byNumber map[string]int, i int) int {
	level := 0
	for cur := i; level <= len(accounts); level++ {
		p, ok := byNumber[accounts[cur].ParentAccountNumber]
		if !ok || p == cur {
			return level
		}
		cur = p
	}
	return level
}

// ValidateTemplate checks account numbers, types and the parent hierarchy.
func ValidateTemplate(t domain.COATemplate) error {
	if len(t.LineItems) == 0 {
		return invalidf("template %s has no line items", t.Key)
	}
	parents := make(map[string]string, len(t.LineItems))
	for _, item := range t.LineItems {
		if strings.TrimSpace(item.AccountNumber) == "" {
			return invalidf("template %s: line item %q has no account number", t.Key, item.Name)
		}
		if _, dup := parents[item.AccountNumber]; dup {
			return invalidf("template %s: duplicate account number %s", t.Key, item.AccountNumber)
		}
		if !item.Type.Valid() {
			return invalidf("template %s: account %s has unknown type %q", t.Key, item.AccountNumber, item.Type)
		}
		parents[item.AccountNumber] = item.ParentAccountNumber
	}
	for number, parent := range parents {
		if parent == "" {
			continue
		}
		if _, ok := parents[parent]; !ok {
			return invalidf("template %s: account %s references missing parent %s", t.Key, number, parent)
		}
		if err := checkCycle(parents, number); err != nil {
			return fmt.Errorf("template %s: %w", t.Key, err)
		}
	}
	return nil
}

func checkCycle(parents map[string]string, start string) error {
	seen := map[string]bool{start: true}
	for cur := parents[start]; cur != ""; cur = parents[cur] {
		if seen[cur] {
			return invalidf("account %s is part of a parent cycle", start)
		}
		seen[cur] = true
	}
	return nil
}

// NormalizeEntityType lower-cases s and collapses every run of delimiters
// into a single space.
func NormalizeEntityType(s string) string {
	s = strings.ToLower(s)
	s = delimiterRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ClassifyEntityType maps a free-text entity type to a template key. The
// checks run in order and the first match wins.
func ClassifyEntityType(entityType string) string {
	n := NormalizeEntityType(entityType)
	switch {
	case containsAny(n, "holding", "holdco"):
		return TemplateHoldingCompany
	case containsAny(n, "land dev", "lot dev", "horizontal"):
		return TemplateLandDevelopment
	case containsAny(n, "spv", "project entity", "single purpose"):
		return TemplateProjectSPV
	case containsAny(n, "rental", "property management", "build to rent"):
		return TemplateRentalProperty
	case containsAny(n, "home builder", "homebuild", "builder", "construction"):
		return TemplateHomebuilder
	default:
		return TemplateGeneralBusiness
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
