package skills

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// displayOverrides spells out words that title-casing gets wrong
var displayOverrides = map[string]string{
	"aws": "AWS", "gcp": "GCP", "sql": "SQL", "css": "CSS", "css3": "CSS3", "html": "HTML", "html5": "HTML5",
	"php": "PHP", "api": "API", "rest": "REST", "ci/cd": "CI/CD", "ui/ux": "UI/UX", "seo": "SEO",
	"elk": "ELK", "nlp": "NLP", "etl": "ETL", "tdd": "TDD", "bdd": "BDD", "svn": "SVN", "mui": "MUI",
	"grpc": "gRPC", "ios": "iOS", "pmp": "PMP", "csm": "CSM", "cissp": "CISSP", "ceh": "CEH",
	"cka": "CKA", "ckad": "CKAD", "ccna": "CCNA", "ccnp": "CCNP", "comptia": "CompTIA", "qa": "QA",
	"e2e": "E2E", "bi": "BI", "graphql": "GraphQL", "javascript": "JavaScript", "typescript": "TypeScript",
	"node.js": "Node.js", "next.js": "Next.js", "nest.js": "Nest.js", "asp.net": "ASP.NET", ".net": ".NET",
	"postgresql": "PostgreSQL", "mysql": "MySQL", "mongodb": "MongoDB", "github": "GitHub", "gitlab": "GitLab",
}

// DisplayName title-cases a lower-case skill name for presentation
func DisplayName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	caser := cases.Title(language.English)
	for i, w := range words {
		if override, ok := displayOverrides[w]; ok {
			words[i] = override
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}
