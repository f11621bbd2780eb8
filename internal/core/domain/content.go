package domain

import "errors"

var ErrContentNotFound = errors.New("site content not found")
var ErrContentItemNotFound = errors.New("content item not found")

// HeroContent is the landing banner copy.
type HeroContent struct {
	Badge          string `json:"badge"`
	TitlePrefix    string `json:"title_prefix"`
	TitleHighlight string `json:"title_highlight"`
	Description    string `json:"description"`
}

// StatItem is one headline figure on the landing page.
type StatItem struct {
	ID    int    `json:"id"`
	Val   string `json:"val"`
	Label string `json:"label"`
}

// ModuleContent is one feature or profile card on the landing page.
type ModuleContent struct {
	ID    int    `json:"id"`
	Type  string `json:"type"` // "profile" or "feature"
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Image string `json:"image,omitempty"`
	Name  string `json:"name,omitempty"`
}

// AboutContent backs the /about page.
type AboutContent struct {
	History          string   `json:"history"`
	PrincipalMessage string   `json:"principal_message"`
	PrincipalName    string   `json:"principal_name"`
	PrincipalImage   string   `json:"principal_image"`
	Achievements     []string `json:"achievements"`
}

// AcademicLevel is one entry of the academics programme ladder.
type AcademicLevel struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AcademicsContent backs the /academics page.
type AcademicsContent struct {
	Tagline        string          `json:"tagline"`
	SubTagline     string          `json:"sub_tagline"`
	Levels         []AcademicLevel `json:"levels"`
	EvaluationText string          `json:"evaluation_text"`
}

// SiteContent is the singleton editable aggregate. Everything except
// Announcements is persisted as one opaque blob under the cms_content key;
// announcements live in their own collection and are never embedded in the
// persisted blob.
type SiteContent struct {
	Hero          HeroContent      `json:"hero"`
	Stats         []StatItem       `json:"stats"`
	Modules       []ModuleContent  `json:"modules"`
	About         AboutContent     `json:"about"`
	Academics     AcademicsContent `json:"academics"`
	Announcements []Announcement   `json:"announcements,omitempty"`
}

// DefaultSiteContent returns the fixed seed content used when no blob has
// been persisted yet, and as the base for forward-compatible merges.
func DefaultSiteContent() SiteContent {
	return SiteContent{
		Hero: HeroContent{
			Badge:          "Kendriya Vidyalaya Unnao",
			TitlePrefix:    "WELCOME TO",
			TitleHighlight: "KVISION",
			Description:    "The advanced School Data Management System of Kendriya Vidyalaya Unnao. Bridging the gap between traditional education and future technology to empower students, faculty, and administration.",
		},
		Stats: []StatItem{
			{ID: 1, Val: "25+", Label: "YEARS ACTIVE"},
			{ID: 2, Val: "1.5K", Label: "STUDENTS"},
			{ID: 3, Val: "100%", Label: "PLACEMENT"},
			{ID: 4, Val: "50+", Label: "PROGRAMS"},
		},
		Modules: []ModuleContent{
			{
				ID:    1,
				Type:  "profile",
				Title: "Principal's Desk",
				Name:  "Sh. Krishna Prasad Yadav (KP Yadav)",
				Desc:  "Leading KVISION with a vision for future-ready education. Inspiring students to achieve excellence through technology and traditional values.",
			},
			{
				ID:    2,
				Type:  "feature",
				Title: "Holistic Development",
				Desc:  "Fostering intellectual, physical, and emotional growth through a blend of academics, sports, and cultural values.",
			},
			{
				ID:    3,
				Type:  "feature",
				Title: "Smart Innovation",
				Desc:  "Cutting-edge digital classrooms and ATAL Tinkering Labs to ignite curiosity and scientific temper in students.",
			},
		},
		About: AboutContent{
			History:          "Established under the Kendriya Vidyalaya Sangathan, our school has served the Unnao region for over two decades, combining the national curriculum with a strong local community focus.",
			PrincipalMessage: "Education is not the filling of a pail, but the lighting of a fire. We strive to light that fire in every student who walks through our gates.",
			PrincipalName:    "Sh. Krishna Prasad Yadav",
			PrincipalImage:   "https://cdnbbsr.s3waas.gov.in/s3kv0522c404c5dbb6a7656971fac48f76/uploads/2024/07/2024070524.jpg",
			Achievements: []string{
				"Regional Science Fair winners three years running",
				"100% board examination pass rate",
				"ATAL Tinkering Lab of the Year, 2023",
			},
		},
		Academics: AcademicsContent{
			Tagline:    "Academic Excellence",
			SubTagline: "A structured curriculum from primary to senior secondary",
			Levels: []AcademicLevel{
				{ID: 1, Title: "Primary (I-V)", Description: "Foundational literacy and numeracy with activity-based learning."},
				{ID: 2, Title: "Middle (VI-VIII)", Description: "Broadened curriculum introducing sciences, social studies and a third language."},
				{ID: 3, Title: "Secondary (IX-X)", Description: "Board-oriented study with laboratory work and career counselling."},
				{ID: 4, Title: "Senior Secondary (XI-XII)", Description: "Science and Commerce streams preparing students for higher education."},
			},
			EvaluationText: "Continuous and comprehensive evaluation through periodic tests, projects and term examinations, in line with CBSE guidelines.",
		},
	}
}
