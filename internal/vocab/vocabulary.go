// Package vocab holds the keyword vocabularies, rule tables and scoring weights shared by
// the parser, the skill extractor, the context classifier and the recommender.
//
// A Vocabulary is built once with Default (or assembled by hand in tests) and passed to
// each component constructor. Components never modify it.
package vocab

import "github.com/Kele901/career-projector/internal/models"

// Section names produced by the segmenter
const (
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionCertifications = "certifications"
)

// SkillTerm is one vocabulary entry with its single category
type SkillTerm struct {
	Name     string
	Category models.SkillCategory
}

// PathwayKeywords lists the terms that make a job relevant to a pathway
type PathwayKeywords struct {
	Pathway string
	Terms   []string
}

// Weights are the fixed, hand-tuned scoring constants
type Weights struct {
	Required   float64
	Optional   float64
	Category   float64
	Experience float64

	CategorySaturation  float64 // skills per category for full credit
	YearsBonusMonths    float64
	YearsBonusCap       float64
	ProgressionFactor   float64
	ContextBonus        float64
	ContextBonusRatio   float64
	NeutralContextMatch float64

	RelevanceTitle       float64
	RelevanceDescription float64
	RelevanceCompany     float64
	RelevanceNormalizer  float64
	RelevanceTechBoost   float64

	RecencyDecay   float64
	RecencyFloor   float64
	RecencyUnknown float64

	MissingSkillsCap int
	RecentRoleYears  int
}

// Vocabulary is the immutable configuration shared by all analysis components
type Vocabulary struct {
	// SectionHeaders is evaluated in order; the label is the section name
	SectionHeaders RuleTable

	ExperienceStart []string
	ExperienceStop  []string

	JobTitleKeywords []string

	// SeniorityTiers is evaluated in order; no match means mid
	SeniorityTiers RuleTable

	WellKnownTech      []string
	EnterpriseKeywords []string
	StartupKeywords    []string
	IndustryRules      RuleTable

	Skills          []SkillTerm
	LevelRules      RuleTable
	LevelWindow     int
	SkillConfidence float64
	Certifications  []string

	PathwayKeywords []PathwayKeywords
	// RelevanceBoostRoles get the tech-employer boost during relevance scoring
	RelevanceBoostRoles []string
	// TechRoles get the company context bonus and the tech-ratio context match
	TechRoles []string

	// Difficulty buckets missing skills into learning phases; no match means intermediate
	Difficulty RuleTable

	Weights Weights
}

// IsTechRole reports whether a lower-cased pathway name is one of the tech roles
func (v *Vocabulary) IsTechRole(pathway string) bool {
	return contains(v.TechRoles, pathway)
}

// IsRelevanceBoostRole reports whether a lower-cased pathway name gets the tech-employer boost
func (v *Vocabulary) IsRelevanceBoostRole(pathway string) bool {
	return contains(v.RelevanceBoostRoles, pathway)
}

// SkillCategory returns the category of a lower-cased skill name
func (v *Vocabulary) SkillCategory(name string) (models.SkillCategory, bool) {
	for _, s := range v.Skills {
		if s.Name == name {
			return s.Category, true
		}
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Default returns the built-in English vocabulary
func Default() *Vocabulary {
	return &Vocabulary{
		SectionHeaders: RuleTable{
			{Label: SectionExperience, Terms: []string{"work experience", "professional experience", "employment"}},
			{Label: SectionEducation, Terms: []string{"education", "academic"}},
			{Label: SectionSkills, Terms: []string{"skills", "technical skills", "competencies"}},
			{Label: SectionCertifications, Terms: []string{"certifications", "certificates", "licenses"}},
		},
		ExperienceStart: []string{"work experience", "professional experience", "employment history", "career history"},
		ExperienceStop:  []string{"education", "skills", "certifications", "projects"},

		JobTitleKeywords: []string{
			"developer", "engineer", "architect", "designer", "manager", "lead", "senior", "junior",
			"analyst", "consultant", "specialist", "coordinator", "director", "administrator",
			"programmer", "scientist", "researcher", "technician", "intern",
		},

		SeniorityTiers: RuleTable{
			{Label: string(models.SeniorityDirector), Terms: []string{"cto", "cio", "vp", "vice president", "director", "directors", "head of", "chief"}},
			{Label: string(models.SeniorityPrincipal), Terms: []string{"principal", "staff", "distinguished", "fellow"}},
			{Label: string(models.SenioritySenior), Terms: []string{"lead", "leads", "senior", "sr.", "sr"}},
			{Label: string(models.SeniorityJunior), Terms: []string{"junior", "jr.", "jr", "associate", "entry"}},
			{Label: string(models.SeniorityIntern), Terms: []string{"intern", "interns", "internship", "trainee", "trainees", "apprentice", "apprentices"}},
		},

		WellKnownTech: []string{
			"google", "microsoft", "amazon", "apple", "meta", "facebook", "netflix", "ibm", "oracle", "salesforce",
		},
		EnterpriseKeywords: []string{
			"corporation", "corp", "international", "global", "worldwide", "inc.", "inc",
			"limited", "ltd", "enterprise", "fortune",
		},
		StartupKeywords: []string{"startup", "start-up", "seed", "series a", "series b", "venture"},
		IndustryRules: RuleTable{
			{Label: string(models.IndustryTech), Terms: []string{
				"software", "technology", "tech", "saas", "cloud", "data", "ai", "ml", "mobile", "web",
				"internet", "digital", "computing", "cybersecurity", "fintech", "edtech", "healthtech",
			}},
			{Label: string(models.IndustryFinance), Terms: []string{"bank", "banking", "financial", "finance", "investment", "trading", "capital"}},
			{Label: string(models.IndustryHealthcare), Terms: []string{"health", "healthcare", "medical", "hospital", "pharma", "clinical"}},
			{Label: string(models.IndustryConsulting), Terms: []string{"consulting", "consultant", "advisory", "services"}},
		},

		Skills: defaultSkills(),
		LevelRules: RuleTable{
			{Label: string(models.LevelExpert), Terms: []string{"expert", "advanced", "senior", "lead", "architect"}},
			{Label: string(models.LevelIntermediate), Terms: []string{"intermediate", "proficient", "experienced", "mid"}},
			{Label: string(models.LevelBeginner), Terms: []string{"beginner", "junior", "learning", "basic", "familiar"}},
		},
		LevelWindow:     100,
		SkillConfidence: 0.8,
		Certifications: []string{
			"aws certified", "azure certified", "gcp certified", "google cloud certified",
			"pmp", "scrum master", "csm", "cissp", "ceh", "comptia", "ccna", "ccnp",
			"oracle certified", "microsoft certified", "cka", "ckad", "terraform certified",
		},

		PathwayKeywords: defaultPathwayKeywords(),
		RelevanceBoostRoles: []string{
			"frontend developer", "backend developer", "full stack developer",
			"devops engineer", "mobile developer", "data scientist",
		},
		TechRoles: []string{
			"frontend developer", "backend developer", "full stack developer", "devops engineer",
			"data scientist", "android developer", "ios developer", "react native developer",
			"software architect", "blockchain developer",
		},

		Difficulty: RuleTable{
			{Label: string(models.LevelBeginner), Terms: []string{"html", "css", "git", "sql", "javascript"}},
			{Label: string(models.LevelIntermediate), Terms: []string{"react", "node.js", "python", "docker", "rest api"}},
			{Label: string(models.LevelExpert), Terms: []string{"kubernetes", "aws", "system design", "machine learning", "microservices"}},
		},

		Weights: Weights{
			Required:   0.35,
			Optional:   0.15,
			Category:   0.30,
			Experience: 0.15,

			CategorySaturation:  5,
			YearsBonusMonths:    120,
			YearsBonusCap:       0.15,
			ProgressionFactor:   0.1,
			ContextBonus:        0.05,
			ContextBonusRatio:   0.5,
			NeutralContextMatch: 0.5,

			RelevanceTitle:       1.0,
			RelevanceDescription: 0.3,
			RelevanceCompany:     0.2,
			RelevanceNormalizer:  3,
			RelevanceTechBoost:   1.2,

			RecencyDecay:   0.3,
			RecencyFloor:   0.3,
			RecencyUnknown: 0.6,

			MissingSkillsCap: 10,
			RecentRoleYears:  3,
		},
	}
}

func defaultSkills() []SkillTerm {
	groups := []struct {
		category models.SkillCategory
		names    []string
	}{
		{models.CategoryFrontend, []string{
			"javascript", "typescript", "html", "css", "html5", "css3",
			"react", "vue", "angular", "svelte", "next.js", "nextjs", "nuxt", "gatsby", "ember", "backbone",
			"webpack", "vite", "babel", "sass", "scss", "less",
			"tailwind", "bootstrap", "material-ui", "mui", "styled-components",
			"responsive design", "web design", "ui/ux", "accessibility", "seo",
		}},
		{models.CategoryBackend, []string{
			"c#", "csharp", "ruby", "php", "go", "golang", "rust", "node.js", "nodejs",
			"django", "flask", "fastapi", "spring", "spring boot", "express", "nest.js", "nestjs",
			"rails", "laravel", ".net", "dotnet", "asp.net",
			"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "dynamodb", "cassandra", "sqlite",
			"oracle", "sql server", "rest api", "graphql", "grpc", "microservices", "websockets",
		}},
		{models.CategoryDevOps, []string{
			"docker", "kubernetes", "jenkins", "gitlab ci", "github actions", "circleci",
			"terraform", "ansible", "chef", "puppet",
			"aws", "azure", "gcp", "google cloud", "heroku", "digitalocean", "cloudflare", "vercel", "netlify",
			"prometheus", "grafana", "elk", "datadog", "new relic", "splunk",
			"ci/cd", "infrastructure as code", "containerization", "orchestration",
		}},
		{models.CategoryData, []string{
			"python", "r", "sql", "scala", "julia",
			"pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "keras",
			"spark", "hadoop", "airflow", "kafka", "tableau", "power bi",
			"machine learning", "deep learning", "data analysis", "data visualization",
			"statistics", "big data", "etl", "data mining", "nlp", "computer vision",
		}},
		{models.CategoryMobile, []string{
			"swift", "objective-c", "kotlin", "java", "dart",
			"react native", "flutter", "ionic", "xamarin", "swiftui",
			"ios development", "android development", "mobile ui/ux",
		}},
		{models.CategoryGeneral, []string{
			"git", "github", "gitlab", "bitbucket", "svn",
			"agile", "scrum", "kanban", "devops", "tdd", "bdd",
			"leadership", "team management", "project management", "communication", "problem solving",
			"jest", "pytest", "junit", "selenium", "cypress", "mocha",
			"unit testing", "integration testing", "e2e testing",
		}},
	}

	var terms []SkillTerm
	for _, g := range groups {
		for _, name := range g.names {
			terms = append(terms, SkillTerm{Name: name, Category: g.category})
		}
	}
	return terms
}

func defaultPathwayKeywords() []PathwayKeywords {
	return []PathwayKeywords{
		{"frontend developer", []string{
			"frontend", "front-end", "front end", "ui developer", "ui engineer",
			"react", "react.js", "reactjs", "vue", "vue.js", "vuejs",
			"angular", "angularjs", "svelte", "next.js", "nextjs",
			"javascript developer", "js developer", "typescript developer",
			"web developer", "web ui", "html", "css", "sass", "less",
			"responsive design", "web design", "ux developer", "ui/ux developer",
		}},
		{"backend developer", []string{
			"backend", "back-end", "back end", "server-side", "server side",
			"api developer", "rest api", "graphql", "api engineer",
			"node", "node.js", "nodejs", "express", "nest.js",
			"python", "django", "flask", "fastapi", "python engineer",
			"java", "spring", "spring boot", "java engineer",
			"c#", ".net", "asp.net", "dotnet",
			"go", "golang", "go developer", "rust developer",
			"php", "laravel", "symfony",
			"ruby", "rails", "ruby on rails",
			"database", "sql", "postgresql", "mysql", "mongodb",
			"microservices", "distributed systems",
		}},
		{"full stack developer", []string{
			"full stack", "fullstack", "full-stack", "full stack engineer",
			"mern", "mean", "mevn", "lamp", "jamstack",
			"web application", "application developer",
			"software developer", "software engineer",
		}},
		{"devops engineer", []string{
			"devops", "dev ops", "devsecops", "site reliability", "sre",
			"infrastructure", "infrastructure engineer", "platform engineer",
			"cloud", "cloud engineer", "cloud architect",
			"aws", "amazon web services", "azure", "microsoft azure", "gcp", "google cloud",
			"kubernetes", "k8s", "docker", "containerization", "containers",
			"ci/cd", "continuous integration", "jenkins", "gitlab ci", "github actions",
			"terraform", "ansible", "chef", "puppet", "infrastructure as code",
			"monitoring", "prometheus", "grafana", "elk", "datadog",
			"linux", "unix", "systems engineer", "systems administrator",
		}},
		{"data scientist", []string{
			"data scientist", "data science", "data analyst", "analytics",
			"machine learning", "ml engineer", "ml", "ai engineer", "artificial intelligence",
			"deep learning", "neural network", "computer vision", "nlp",
			"python", "r", "pandas", "numpy", "scikit-learn", "tensorflow", "pytorch",
			"statistics", "statistical", "quantitative", "research scientist",
			"data mining", "predictive modeling", "data modeling",
			"bi", "business intelligence", "tableau", "power bi",
		}},
		{"android developer", []string{
			"android", "android developer", "android engineer",
			"kotlin", "java android", "android studio",
			"mobile app", "mobile application", "mobile engineer",
			"jetpack compose", "android sdk", "google play",
		}},
		{"ios developer", []string{
			"ios", "ios developer", "ios engineer",
			"swift", "objective-c", "objective c",
			"xcode", "app store", "apple",
			"swiftui", "uikit", "cocoa",
			"mobile app", "mobile application", "mobile engineer",
		}},
		{"react native developer", []string{
			"react native", "react-native", "cross-platform mobile",
			"mobile developer", "hybrid app", "expo",
		}},
		{"software architect", []string{
			"architect", "software architect", "solution architect", "enterprise architect",
			"technical architect", "system architect", "cloud architect",
			"principal engineer", "principal", "distinguished engineer",
			"staff engineer", "staff software engineer",
			"technical lead", "tech lead", "engineering lead",
			"system design", "architecture", "design patterns",
		}},
		{"qa engineer", []string{
			"qa", "quality assurance", "qa engineer", "quality engineer",
			"tester", "test engineer", "testing", "software tester",
			"automation", "test automation", "automation engineer",
			"selenium", "cypress", "jest", "pytest", "junit",
			"manual testing", "automated testing", "performance testing",
			"load testing", "api testing", "integration testing",
		}},
		{"blockchain developer", []string{
			"blockchain", "blockchain developer", "blockchain engineer",
			"solidity", "ethereum", "web3", "smart contract",
			"crypto", "cryptocurrency", "defi", "nft",
			"hyperledger", "truffle", "hardhat",
		}},
		{"game developer", []string{
			"game", "game developer", "game engineer", "game designer",
			"unity", "unreal", "unreal engine", "game engine",
			"c++", "c#", "3d", "graphics", "gameplay",
		}},
		{"cyber security specialist", []string{
			"security", "cybersecurity", "cyber security", "infosec", "information security",
			"security engineer", "security analyst", "security specialist",
			"penetration testing", "pentesting", "ethical hacking", "security testing",
			"threat", "vulnerability", "compliance", "risk",
			"soc", "security operations", "incident response",
			"cissp", "ceh", "security+",
		}},
		{"product manager", []string{
			"product manager", "product owner", "pm", "po",
			"product", "product lead", "senior product manager",
			"technical product manager", "tpm",
			"product strategy", "product development",
		}},
		{"data analyst", []string{
			"data analyst", "business analyst", "analytics",
			"sql analyst", "reporting analyst", "bi analyst",
			"excel", "tableau", "power bi", "looker", "sql",
		}},
	}
}
