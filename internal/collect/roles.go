package collect

import "strings"

var productTerms = []string{
	"product designer", "product manager", "ux designer", "ui designer",
	"ux/ui", "ui/ux", "service designer", "head de produto", "product owner",
	"product operations", "design de produto", "designer de produto",
	"ux writer", "ux researcher",
}

// Exclusions win over productTerms.
var excludeTerms = []string{
	"developer", "desenvolvedor", "engineer", "engenheiro", "qa", "tester",
	"analista de dados", "data analyst", "designer gráfico", "graphic designer",
	"marketing", "growth", "devops", "backend", "frontend", "fullstack",
}

// IsProductRole reports whether title is a product or design opening.
func IsProductRole(title string) bool {
	t := strings.ToLower(title)
	for _, x := range excludeTerms {
		if strings.Contains(t, x) {
			return false
		}
	}
	for _, p := range productTerms {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

// ClassifyJobType maps a title onto the job types used as tipo_vaga.
func ClassifyJobType(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "product manager"), strings.Contains(t, "product owner"):
		return "Product Manager"
	case strings.Contains(t, "head") && strings.Contains(t, "produto"):
		return "Head de Produto"
	case strings.Contains(t, "service designer"):
		return "Service Designer"
	case strings.Contains(t, "ui/ux"), strings.Contains(t, "ux/ui"):
		return "UX/UI Designer"
	case strings.Contains(t, "ux writer"):
		return "UX Writer"
	case strings.Contains(t, "ux researcher"):
		return "UX Researcher"
	case strings.Contains(t, "ui designer"):
		return "UI Designer"
	case strings.Contains(t, "ux"):
		return "UX Designer"
	}
	return "Product Designer"
}
