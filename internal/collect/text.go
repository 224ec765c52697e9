package collect

import (
	"strings"

	"vagas-dashboard/internal/domain"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeLocation trims labels and drops repeated comma separated parts.
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}
	for _, p := range []string{"Localização:", "Location:"} {
		loc = strings.TrimSpace(strings.TrimPrefix(loc, p))
	}

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// InferWorkMode reads the work mode out of free text. Remote wins over
// hybrid, hybrid over on-site.
func InferWorkMode(texts ...string) domain.WorkMode {
	blob := strings.ToLower(strings.Join(texts, " "))
	switch {
	case strings.Contains(blob, "remoto"), strings.Contains(blob, "remote"),
		strings.Contains(blob, "home office"):
		return domain.WorkModeRemote
	case strings.Contains(blob, "híbrido"), strings.Contains(blob, "hibrido"),
		strings.Contains(blob, "hybrid"):
		return domain.WorkModeHybrid
	case strings.Contains(blob, "presencial"), strings.Contains(blob, "on-site"),
		strings.Contains(blob, "onsite"):
		return domain.WorkModeOnSite
	}
	return domain.WorkModeUnspecified
}

var englishTerms = []struct {
	level domain.EnglishLevel
	terms []string
}{
	{domain.EnglishFluent, []string{"inglês fluente", "ingles fluente", "fluent english", "inglês avançado", "ingles avancado", "advanced english"}},
	{domain.EnglishIntermediate, []string{"inglês intermediário", "ingles intermediario", "intermediate english"}},
	{domain.EnglishBasic, []string{"inglês básico", "ingles basico", "basic english"}},
	{domain.EnglishNone, []string{"sem inglês", "sem ingles", "inglês não é necessário", "ingles nao e necessario"}},
}

// InferEnglish looks for an explicit English requirement.
func InferEnglish(texts ...string) domain.EnglishLevel {
	blob := strings.ToLower(strings.Join(texts, " "))
	for _, e := range englishTerms {
		for _, t := range e.terms {
			if strings.Contains(blob, t) {
				return e.level
			}
		}
	}
	return domain.EnglishUnspecified
}
