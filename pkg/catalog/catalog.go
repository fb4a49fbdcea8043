package catalog

// Static content catalog: articles, lecturer notes and case studies are
// defined at build time and immutable at runtime. The only derived state
// (AI summaries) lives outside this package.

// Level is the course level a content item belongs to (100..500).
type Level int

// Article is one academy reading.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
	IsPremium   bool   `json:"is_premium"`
	Author      string `json:"author"`
	ReadTime    string `json:"read_time"`
	Image       string `json:"image"`
	Level       Level  `json:"level"`
	Semester    int    `json:"semester"`
}

// Note is one lecturer note in the marketplace.
type Note struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Lecturer    string `json:"lecturer"`
	Level       Level  `json:"level"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
	Price       int    `json:"price"`
	IsVerified  bool   `json:"is_verified"`
	CourseCode  string `json:"course_code"`
}

// Case is one training case study with its evidence list.
type Case struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Difficulty string   `json:"difficulty"`
	Summary    string   `json:"summary"`
	Evidence   []string `json:"evidence"`
	Location   string   `json:"location"`
	Date       string   `json:"date"`
}

// ArticleFilter narrows ListArticles. Zero values match everything.
type ArticleFilter struct {
	Level    Level
	Category string
}

// ListArticles returns the articles matching the filter, in catalog order.
func ListArticles(f ArticleFilter) []Article {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if f.Level != 0 && a.Level != f.Level {
			continue
		}
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FindArticle looks an article up by ID.
func FindArticle(id string) (Article, bool) {
	for _, a := range articles {
		if a.ID == id {
			return a, true
		}
	}
	return Article{}, false
}

// ListNotes returns the lecturer notes, optionally narrowed by level.
func ListNotes(level Level) []Note {
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if level != 0 && n.Level != level {
			continue
		}
		out = append(out, n)
	}
	return out
}

// FindNote looks a lecturer note up by ID.
func FindNote(id string) (Note, bool) {
	for _, n := range notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// ListCases returns every case study.
func ListCases() []Case {
	out := make([]Case, len(cases))
	copy(out, cases)
	return out
}

// FindCase looks a case study up by ID.
func FindCase(id string) (Case, bool) {
	for _, c := range cases {
		if c.ID == id {
			return c, true
		}
	}
	return Case{}, false
}
