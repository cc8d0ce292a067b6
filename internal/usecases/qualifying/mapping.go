package qualifying

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vfg2006/icp-dashboard-api/internal/domain"
	"github.com/vfg2006/icp-dashboard-api/pkg/utils"
)

const (
	DefaultName        = "Unknown Company"
	DefaultDescription = "No description available"
	DefaultLogoURL     = "/placeholder.svg"
	DefaultIndustry    = "Unknown Industry"
	DefaultGeo         = "Unknown Location"

	geoSeparator = ", "

	enrichmentReason = "Matches the ideal customer profile on industry, company size and geography."
)

var employeeNumber = regexp.MustCompile(`\d[\d,]*`)

// TierFromScore: >= 80 A, >= 60 B, senão C. Score ausente é C.
func TierFromScore(score *float64) domain.Tier {
	switch {
	case score == nil:
		return domain.TierC
	case *score >= 80:
		return domain.TierA
	case *score >= 60:
		return domain.TierB
	default:
		return domain.TierC
	}
}

// ClampScore limita o score em [0,100]; ausente vira 0
func ClampScore(score *float64) float64 {
	if score == nil {
		return 0
	}
	return utils.Clamp(*score, 0, 100)
}

// ParseEmployees extrai o número de funcionários de uma faixa textual.
// "10-50" -> 30, "100+" -> 100, "1,001-5,000" -> 3000, sem número -> 0.
func ParseEmployees(sizeRange string) int {
	tokens := employeeNumber.FindAllString(sizeRange, -1)

	numbers := make([]int, 0, 2)
	for _, token := range tokens {
		n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimRight(token, ","), ",", ""))
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
		if len(numbers) == 2 {
			break
		}
	}

	switch len(numbers) {
	case 0:
		return 0
	case 1:
		return numbers[0]
	default:
		return (numbers[0] + numbers[1]) / 2
	}
}

// BuildGeo junta região e país ignorando partes vazias
func BuildGeo(region, country *string) string {
	parts := make([]string, 0, 2)
	for _, part := range []*string{region, country} {
		if v := value(part); v != "" {
			parts = append(parts, v)
		}
	}

	if len(parts) == 0 {
		return DefaultGeo
	}
	return strings.Join(parts, geoSeparator)
}

// MapAccount converte uma linha da explorium em conta qualificada. Nunca falha:
// todo campo derivado tem fallback.
func MapAccount(company *domain.ExploriumCompany, signals domain.IntentSignals) *domain.QualifiedAccount {
	sizeRange := firstNonEmpty(company.EmployeesRange, company.CompanySize)

	return &domain.QualifiedAccount{
		ID:             company.BusinessID,
		Name:           orDefault(firstNonEmpty(company.Name), DefaultName),
		Domain:         firstNonEmpty(company.Domain, company.Website),
		Description:    orDefault(firstNonEmpty(company.BusinessDescription, company.CompanyDescription), DefaultDescription),
		LogoURL:        orDefault(firstNonEmpty(company.Logo), DefaultLogoURL),
		Tier:           TierFromScore(company.Score),
		Industry:       orDefault(firstNonEmpty(company.Industry), DefaultIndustry),
		Geo:            BuildGeo(company.Region, company.CountryName),
		Employees:      ParseEmployees(sizeRange),
		FitScore:       ClampScore(company.Score),
		IntentScore:    signals.IntentScore,
		IntentDelta14d: signals.IntentDelta14d,
		LastActivityAt: signals.LastActivityAt,
		RulesMatch:     signals.RulesMatch,
		Enrichment:     buildEnrichment(company, sizeRange),
	}
}

func buildEnrichment(company *domain.ExploriumCompany, sizeRange string) domain.Enrichment {
	bullets := make([]string, 0, 5)

	if description := firstNonEmpty(company.BusinessDescription, company.CompanyDescription); description != "" {
		bullets = append(bullets, description)
	}
	if industry := firstNonEmpty(company.Industry); industry != "" {
		bullets = append(bullets, "Industry: "+industry)
	}
	if company.FoundedYear != nil && *company.FoundedYear > 0 {
		bullets = append(bullets, fmt.Sprintf("Founded in %d", *company.FoundedYear))
	}
	if products := firstNonEmpty(company.MainProductsServices); products != "" {
		bullets = append(bullets, "Products & services: "+products)
	}
	if sizeRange != "" {
		bullets = append(bullets, "Company size: "+sizeRange+" employees")
	}

	references := make([]domain.Reference, 0, 2)
	if website := firstNonEmpty(company.Website, company.Domain); website != "" {
		references = append(references, domain.Reference{Title: "Website", URL: absoluteURL(website)})
	}
	if linkedin := firstNonEmpty(company.LinkedinURL); linkedin != "" {
		references = append(references, domain.Reference{Title: "LinkedIn", URL: absoluteURL(linkedin)})
	}

	return domain.Enrichment{
		SummaryBullets: bullets,
		Reason:         enrichmentReason,
		References:     references,
	}
}

func absoluteURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + strings.TrimPrefix(raw, "//")
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if trimmed := value(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
